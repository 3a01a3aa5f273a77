package scheduler

import (
	"fmt"
	"time"

	"refill-ledger/internal/app"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRolloverSpec fires at local midnight.
const DefaultRolloverSpec = "0 0 * * *"

// Scheduler runs the day-boundary job while an interactive session is open.
// Nothing is written at rollover: the new date simply has no bucket yet.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	svc       app.ApplicationService
	prompter  app.Prompter
	refresher app.Refresher
	logger    *zap.Logger
}

// NewScheduler evaluates spec (standard five-field cron) in loc.
func NewScheduler(spec string, loc *time.Location, svc app.ApplicationService, prompter app.Prompter, refresher app.Refresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if spec == "" {
		spec = DefaultRolloverSpec
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		spec:      spec,
		svc:       svc,
		prompter:  prompter,
		refresher: refresher,
		logger:    logger,
	}
}

// Start registers the rollover job and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Rollover); err != nil {
		return fmt.Errorf("schedule rollover %q: %w", s.spec, err)
	}
	s.logger.Info("starting scheduler", zap.String("rollover", s.spec))
	s.cron.Start()
	return nil
}

// Stop stops the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Rollover tells the user a new day began and redraws the dashboard.
func (s *Scheduler) Rollover() {
	today := s.svc.Today()
	s.logger.Info("day rollover", zap.String("date", today.String()))
	if s.prompter != nil {
		s.prompter.Notify(fmt.Sprintf("A new day has started: %s. Today's totals start from zero.", today))
	}
	if s.refresher != nil {
		s.refresher.Refresh()
	}
}
