package events

import (
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/sirupsen/logrus"
)

// Event names pushed to websocket listeners
const (
	SaleCreated    = "sale.created"
	SaleUpdated    = "sale.updated"
	SaleDeleted    = "sale.deleted"
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
	PatientCreated = "patient.created"
	PatientUpdated = "patient.updated"
	PatientDeleted = "patient.deleted"
	SettingUpdated = "setting.updated"
)

const broadcastTopic = "broadcast"

// Event is the envelope delivered to subscribers.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Publisher is fire-and-forget: it never blocks on, or reports failures of, delivery.
type Publisher interface {
	Publish(name string, payload interface{})
}

// Bus is an in-process Publisher. Subscribers run on their own goroutines.
type Bus struct {
	bus evbus.Bus
	log *logrus.Logger
}

func NewBus(log *logrus.Logger) *Bus {
	return &Bus{
		bus: evbus.New(),
		log: log,
	}
}

func (b *Bus) Publish(name string, payload interface{}) {
	b.bus.Publish(broadcastTopic, Event{Name: name, Payload: payload, At: time.Now().UTC()})
}

// Subscribe registers fn for every published event. A panicking subscriber is
// logged and does not affect the publisher or other subscribers.
func (b *Bus) Subscribe(fn func(Event)) error {
	return b.bus.SubscribeAsync(broadcastTopic, func(ev Event) {
		defer func() {
			if r := recover(); r != nil {
				b.log.Errorf("Event subscriber panicked on %s: %v", ev.Name, r)
			}
		}()
		fn(ev)
	}, false)
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in tests.
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) {}
