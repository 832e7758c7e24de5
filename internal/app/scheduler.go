package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Concluder переводит прошедшие встречи в concluded
type Concluder interface {
	ConcludeElapsed(ctx context.Context, now time.Time) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	concluder Concluder
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(concluder Concluder, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		concluder: concluder,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runConcludeTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

// runConcludeTask периодически закрывает прошедшие встречи
func (s *Scheduler) runConcludeTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.conclude(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.conclude(ctx)
		case <-s.stopChan:
			s.logger.Info("Conclude task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Conclude task cancelled")
			return
		}
	}
}

func (s *Scheduler) conclude(ctx context.Context) {
	count, err := s.concluder.ConcludeElapsed(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to conclude elapsed meetings", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("Elapsed meetings concluded", zap.Int("count", count))
	}
}
