package service

import (
	"context"
	"time"

	"studybud/internal/repository"
	"studybud/pkg/logger"
)

// RateLimitDecision is the outcome of counting one request.
type RateLimitDecision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the current window resets.
	RetryAfter time.Duration
}

type RateLimitService interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitDecision, error)
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		log:           log,
	}
}

// Allow counts the request first and then compares, so concurrent requests
// can never all squeeze under the limit.
func (s *rateLimitService) Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitDecision, error) {
	count, ttl, err := s.rateLimitRepo.Hit(ctx, key, window)
	if err != nil {
		return nil, err
	}

	return decide(count, ttl, limit), nil
}

func decide(count int64, ttl time.Duration, limit int) *RateLimitDecision {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitDecision{
		Allowed:    count <= int64(limit),
		Remaining:  int(remaining),
		RetryAfter: ttl,
	}
}
