package membership

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the Sweeper on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers sweeper under spec ("@every 1h", "0 * * * *", ...).
// Overlapping runs are skipped.
func NewScheduler(spec string, sweeper *Sweeper) (*Scheduler, error) {
	logger := cronLogger{slog.Default()}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, sweeper.Run); err != nil {
		return nil, fmt.Errorf("invalid expiry schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running sweep, or ctx, to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
