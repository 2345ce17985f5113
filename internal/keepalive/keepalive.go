// Package keepalive owns the process's periodic background work. Anything
// that needs work on a schedule depends on the Scheduler interface, not on
// ambient timers, so tests can drive the callbacks directly.
package keepalive

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler registers callbacks on a cron spec and controls their lifecycle.
type Scheduler interface {
	Schedule(spec string, callback func()) error
	Start()
	// Stop ends scheduling; running callbacks finish on their own.
	Stop()
}

// StandardScheduler is the Scheduler implementation backed by robfig/cron.
type StandardScheduler struct {
	cron *cron.Cron
}

func NewStandardScheduler(logger zerolog.Logger) *StandardScheduler {
	return &StandardScheduler{
		cron: cron.New(cron.WithLogger(cronLogger{logger: logger.With().Str("component", "scheduler").Logger()})),
	}
}

func (s *StandardScheduler) Schedule(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	return err
}

func (s *StandardScheduler) Start() {
	s.cron.Start()
}

func (s *StandardScheduler) Stop() {
	s.cron.Stop()
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
