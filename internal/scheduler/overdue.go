package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"taskhub/internal/repository"
)

const sweepTimeout = 30 * time.Second

// OverdueSweeper periodically counts unfinished tasks past their due date
// and logs a summary. It sends nothing; notification transports are out of
// scope for this service.
type OverdueSweeper struct {
	tasks repository.TaskRepository
	cron  *cron.Cron
}

// NewOverdueSweeper creates a sweeper over the task repository.
func NewOverdueSweeper(tasks repository.TaskRepository) *OverdueSweeper {
	return &OverdueSweeper{
		tasks: tasks,
		cron:  cron.New(),
	}
}

// Start schedules the hourly sweep and runs one immediately.
func (s *OverdueSweeper) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

// Stop halts the schedule; a running sweep finishes on its own.
func (s *OverdueSweeper) Stop() {
	s.cron.Stop()
}

func (s *OverdueSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := s.tasks.CountOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("overdue sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("overdue sweep: %d unfinished task(s) past due date", count)
	}
}
