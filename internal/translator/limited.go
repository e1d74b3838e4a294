package translator

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// LimitedService admits at most n concurrent calls into the wrapped engine.
// With n == 1 inference is fully serialized.
type LimitedService struct {
	next Service
	sem  *semaphore.Weighted
}

// Limited returns next unchanged when n <= 0.
func Limited(next Service, n int) Service {
	if n <= 0 {
		return next
	}
	return &LimitedService{next: next, sem: semaphore.NewWeighted(int64(n))}
}

func (s *LimitedService) Name() string {
	return s.next.Name()
}

func (s *LimitedService) Translate(ctx context.Context, req Request) (*Result, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errorf(s.Name(), "waiting for a free inference slot: %v", err)
	}
	defer s.sem.Release(1)
	return s.next.Translate(ctx, req)
}

func (s *LimitedService) IsAvailable(ctx context.Context) error {
	return s.next.IsAvailable(ctx)
}

func (s *LimitedService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return s.next.SupportedLanguages(ctx)
}
