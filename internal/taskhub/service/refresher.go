package service

import (
	"context"
	"log/slog"
	"time"
)

// RefresherService periodically refetches the task cache once it has gone
// stale.
type RefresherService struct {
	Tasks    *TaskService
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRefresherService creates a refresher. An interval of 0 or less
// defaults to one minute.
func NewRefresherService(tasks *TaskService, logger *slog.Logger, interval time.Duration) *RefresherService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &RefresherService{
		Tasks:    tasks,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to end it.
func (s *RefresherService) Start() {
	go s.run()
	s.Logger.Info("task refresher started", "interval", s.Interval)
}

// Stop ends the worker and waits for a refresh in progress to finish.
func (s *RefresherService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("task refresher stopped")
}

func (s *RefresherService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-s.stopCh:
			return
		}
	}
}

func (s *RefresherService) refresh() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ran, err := s.Tasks.RefreshIfStale(ctx)
	if err != nil {
		s.Logger.Debug("stale task refresh failed", "error", err)
		return
	}
	if ran {
		s.Logger.Debug("refreshed stale task cache")
	}
}
