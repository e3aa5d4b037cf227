package job

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"clinic-backoffice/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	usecase.SettingUsecase
	values map[string]int
}

func (f *fakeSettings) GetInt(_ context.Context, key string, def int) int {
	if v, ok := f.values[key]; ok {
		return v
	}
	return def
}

type fakeAuditLog struct {
	usecase.AuditLogUsecase
	calls   int
	before  time.Time
	deleted int64
	err     error
}

func (f *fakeAuditLog) PurgeOlderThan(_ context.Context, before time.Time) (int64, error) {
	f.calls++
	f.before = before
	return f.deleted, f.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRetention(days map[string]int, audit *fakeAuditLog) *AuditRetention {
	j := NewAuditRetention(quietLogger(), &fakeSettings{values: days}, audit)
	j.now = func() time.Time { return time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC) }
	return j
}

func TestAuditRetentionUsesConfiguredDays(t *testing.T) {
	audit := &fakeAuditLog{deleted: 12}
	j := newRetention(map[string]int{"audit.retention_days": 30}, audit)

	deleted, err := j.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	assert.Equal(t, 1, audit.calls)
	assert.Equal(t, time.Date(2026, 9, 15, 3, 0, 0, 0, time.UTC), audit.before)
}

func TestAuditRetentionDefaultsWhenUnset(t *testing.T) {
	audit := &fakeAuditLog{}
	j := newRetention(nil, audit)

	_, err := j.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC).AddDate(0, 0, -DefaultRetentionDays), audit.before)
}

func TestAuditRetentionZeroKeepsEverything(t *testing.T) {
	audit := &fakeAuditLog{}
	j := newRetention(map[string]int{"audit.retention_days": 0}, audit)

	deleted, err := j.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Zero(t, audit.calls)
}

func TestAuditRetentionPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	j := newRetention(map[string]int{"audit.retention_days": 7}, &fakeAuditLog{err: boom})

	_, err := j.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(quietLogger())
	assert.Error(t, s.Add("broken", "every tuesday", func() {}))
}

func TestSchedulerRunsAndSurvivesPanics(t *testing.T) {
	s := NewScheduler(quietLogger())

	ran := make(chan struct{}, 4)
	require.NoError(t, s.Add("panicky", "* * * * * *", func() {
		ran <- struct{}{}
		panic("boom")
	}))

	s.Start()
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(3 * time.Second):
			t.Fatalf("job did not run %d times", i+1)
		}
	}
}
