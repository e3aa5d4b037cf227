package job

import (
	"context"
	"time"

	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultRetentionDays applies when the retention setting is missing.
const DefaultRetentionDays = 365

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs background maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser)),
		log:  log,
	}
}

// Add registers fn under spec. A panic inside fn is logged and does not stop the scheduler.
func (s *Scheduler) Add(name, spec string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Errorf("Job %s panicked: %v", name, r)
			}
		}()
		fn()
	})
	if err != nil {
		s.log.Errorf("Failed to schedule job %s: %v", name, err)
	}
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// AuditRetention deletes audit entries older than the configured number of days.
type AuditRetention struct {
	log      *logrus.Logger
	settings usecase.SettingUsecase
	auditLog usecase.AuditLogUsecase
	now      func() time.Time
}

func NewAuditRetention(log *logrus.Logger, settings usecase.SettingUsecase, auditLog usecase.AuditLogUsecase) *AuditRetention {
	return &AuditRetention{
		log:      log,
		settings: settings,
		auditLog: auditLog,
		now:      time.Now,
	}
}

// Run purges once. Zero retention days keeps everything.
func (j *AuditRetention) Run(ctx context.Context) (int64, error) {
	days := j.settings.GetInt(ctx, entity.SettingAuditRetentionDays, DefaultRetentionDays)
	if days <= 0 {
		return 0, nil
	}

	before := j.now().AddDate(0, 0, -days)
	deleted, err := j.auditLog.PurgeOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		j.log.Infof("Purged %d audit log entries older than %s", deleted, before.Format(time.RFC3339))
	}
	return deleted, nil
}

// Schedule registers the job on s.
func (j *AuditRetention) Schedule(s *Scheduler, spec string) error {
	return s.Add("audit_retention", spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := j.Run(ctx); err != nil {
			j.log.Warnf("Audit retention run failed: %+v", err)
		}
	})
}
