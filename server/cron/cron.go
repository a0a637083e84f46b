package cron

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vitahq/vita/server/logger"
)

var logg = logger.NewLogger()

// Handler is the work a named job does on every run
type Handler func() error

// Scheduler runs registered handlers on cron schedules
type Scheduler struct {
	cronScheduler *gocron.Scheduler
	handlers      map[string]Handler
}

func NewCronScheduler(timeZone string) (*Scheduler, error) {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid cron time zone '%v': %v", timeZone, err)
	}

	cronScheduler := gocron.NewScheduler(location)
	cronScheduler.TagsUnique()

	return &Scheduler{cronScheduler: cronScheduler, handlers: make(map[string]Handler)}, nil
}

// Register binds a name to a handler.
func (s *Scheduler) Register(name string, handler Handler) error {
	if _, exists := s.handlers[name]; exists {
		return fmt.Errorf("handler '%v' is already registered", name)
	}

	s.handlers[name] = handler
	return nil
}

// Perform runs the handler registered as 'name' right away
func (s *Scheduler) Perform(name string) error {
	handler, ok := s.handlers[name]
	if !ok {
		return fmt.Errorf("no handler registered for '%v'", name)
	}

	start := time.Now()
	if err := handler(); err != nil {
		return fmt.Errorf("job '%v' failed: %v", name, err)
	}

	logg.Infof("Job '%v' completed in %v", name, time.Since(start))
	return nil
}

// PeriodicallyPerform runs the handler registered as 'name' based on
// the 'cronExpression' provided
func (s *Scheduler) PeriodicallyPerform(cronExpression, name string) error {
	if _, ok := s.handlers[name]; !ok {
		return fmt.Errorf("no handler registered for '%v'", name)
	}

	_, err := s.cronScheduler.Cron(cronExpression).Tag(name).Do(func() {
		if err := s.Perform(name); err != nil {
			logg.Error(err)
		}
	})
	return err
}

func (s *Scheduler) Start() {
	logg.Info("Starting cron scheduler")
	s.cronScheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	logg.Info("Stopping cron scheduler")
	s.cronScheduler.Stop()
}
