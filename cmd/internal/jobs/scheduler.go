package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"

	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/tracker"
)

const (
	JobSendReminders  = "send-reminders"
	JobUpdateBoard    = "update-board"
	JobSweepReminders = "sweep-reminders"
)

func IsKnown(name string) bool {
	switch name {
	case JobSendReminders, JobUpdateBoard, JobSweepReminders:
		return true
	}
	return false
}

const (
	DefaultReminderSpec = "*/10 * * * *"
	DefaultBoardSpec    = "0 8 * * *"
	DefaultSweepSpec    = "0 3 * * *"
	DefaultStartupDelay = 5 * time.Second
)

type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
)

type Schedule struct {
	Reminders    string
	Board        string
	Sweep        string
	StartupDelay time.Duration
}

func (s Schedule) withDefaults() Schedule {
	if s.Reminders == "" {
		s.Reminders = DefaultReminderSpec
	}
	if s.Board == "" {
		s.Board = DefaultBoardSpec
	}
	if s.Sweep == "" {
		s.Sweep = DefaultSweepSpec
	}
	if s.StartupDelay <= 0 {
		s.StartupDelay = DefaultStartupDelay
	}
	return s
}

type EntryInfo struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev,omitempty"`
}

type registration struct {
	id   cron.EntryID
	name string
	spec string
}

type Scheduler struct {
	mu        sync.Mutex
	cron      *cron.Cron
	reminders *ReminderJob
	board     *BoardJob
	tracker   *tracker.ReminderTracker
	schedule  Schedule

	state   State
	entries []registration
	startup *time.Timer
}

func NewScheduler(loc *time.Location, reminders *ReminderJob, board *BoardJob, tr *tracker.ReminderTracker, schedule Schedule) *Scheduler {
	logger := cron.PrintfLogger(log.New("cron"))
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(logger))),
		reminders: reminders,
		board:     board,
		tracker:   tr,
		schedule:  schedule.withDefaults(),
		state:     StateStopped,
	}
}

// Start registers the recurring jobs and a one-shot board refresh after the
// startup delay. When a spec is rejected nothing stays registered. Start is not idempotent: calling it twice registers every job twice.
// ctx is handed to every run and should live as long as the process.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := []struct {
		name string
		spec string
	}{
		{JobSendReminders, s.schedule.Reminders},
		{JobUpdateBoard, s.schedule.Board},
		{JobSweepReminders, s.schedule.Sweep},
	}

	for _, job := range jobs {
		name := job.name
		id, err := s.cron.AddFunc(job.spec, func() {
			if err := s.RunJob(ctx, name); err != nil {
				log.Errorf("[scheduler] %s failed: %v", name, err)
			}
		})
		if err != nil {
			for _, e := range s.entries {
				s.cron.Remove(e.id)
			}
			s.entries = nil
			return fmt.Errorf("register %s (%q): %w", name, job.spec, err)
		}
		s.entries = append(s.entries, registration{id: id, name: name, spec: job.spec})
	}

	s.startup = time.AfterFunc(s.schedule.StartupDelay, func() {
		if err := s.TriggerRefresh(ctx); err != nil {
			log.Errorf("[scheduler] startup board refresh failed: %v", err)
		}
	})

	s.cron.Start()
	s.state = StateRunning
	log.Infof("[scheduler] started %d jobs: reminders %q, board %q, sweep %q",
		len(jobs), s.schedule.Reminders, s.schedule.Board, s.schedule.Sweep)
	return nil
}

// Stop removes every registration and the pending startup refresh.
// Runs already in flight are not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startup != nil {
		s.startup.Stop()
		s.startup = nil
	}
	for _, e := range s.entries {
		s.cron.Remove(e.id)
	}
	s.entries = nil
	s.cron.Stop()
	s.state = StateStopped
	log.Info("[scheduler] stopped")
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TriggerRefresh runs the board refresh right away, in the caller's goroutine.
// Concurrent triggers are not serialized.
func (s *Scheduler) TriggerRefresh(ctx context.Context) error {
	return s.board.RefreshBoard(ctx)
}

// RunJob runs a job by name outside of its schedule.
func (s *Scheduler) RunJob(ctx context.Context, name string) error {
	switch name {
	case JobSendReminders:
		run, err := s.reminders.Execute(ctx)
		if err != nil {
			return err
		}
		log.Infof("[scheduler] %s scanned %d meetings, reminded %d", name, run.Scanned, run.Reminded)
		return nil
	case JobUpdateBoard:
		return s.TriggerRefresh(ctx)
	case JobSweepReminders:
		s.tracker.Sweep()
		return nil
	default:
		return fmt.Errorf("job %q: %w", name, domain.ErrNotFound)
	}
}

// Entries lists the registered jobs ordered by their next run.
func (s *Scheduler) Entries() []EntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]EntryInfo, 0, len(s.entries))
	for _, e := range s.entries {
		entry := s.cron.Entry(e.id)
		out = append(out, EntryInfo{Name: e.name, Spec: e.spec, Next: entry.Next, Prev: entry.Prev})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Next.Before(out[j].Next)
	})
	return out
}
