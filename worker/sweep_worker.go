package worker

import (
	"log"

	"github.com/robfig/cron/v3"

	"railgriev/config"
)

// Sweep runs one maintenance pass and reports how many records changed
type Sweep interface {
	Name() string
	Run() (int, error)
}

type scheduledSweep struct {
	spec  string
	sweep Sweep
}

// SweepWorker schedules the priority escalation and auto-close sweeps
type SweepWorker struct {
	cron   *cron.Cron
	cfg    config.SweepConfig
	sweeps []scheduledSweep
}

// NewSweepWorker creates a worker that runs the given sweeps on the
// configured cron schedules.
func NewSweepWorker(cfg config.SweepConfig, priority, autoClose Sweep) *SweepWorker {
	return &SweepWorker{
		cron: cron.New(),
		cfg:  cfg,
		sweeps: []scheduledSweep{
			{cfg.PrioritySchedule, priority},
			{cfg.AutoCloseSchedule, autoClose},
		},
	}
}

// Start registers the sweeps and begins the scheduler. With RunOnStart set,
// each sweep also runs once immediately so a restart never leaves stale
// priorities or overdue closures waiting for the next tick.
func (w *SweepWorker) Start() error {
	for _, entry := range w.sweeps {
		s := entry.sweep
		if _, err := w.cron.AddFunc(entry.spec, func() { w.runOnce(s) }); err != nil {
			return err
		}
		log.Printf("[worker] scheduled %s sweep: %s", s.Name(), entry.spec)
	}

	if w.cfg.RunOnStart {
		for _, entry := range w.sweeps {
			w.runOnce(entry.sweep)
		}
	}

	w.cron.Start()
	return nil
}

// Stop halts the scheduler; running jobs finish first
func (w *SweepWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	log.Println("[worker] sweep worker stopped")
}

func (w *SweepWorker) runOnce(s Sweep) {
	updated, err := s.Run()
	if err != nil {
		log.Printf("[worker] %s sweep failed: %v", s.Name(), err)
		return
	}
	if updated > 0 {
		log.Printf("[worker] %s sweep updated %d complaints", s.Name(), updated)
	}
}
