package service

import (
	"context"

	"devconnector/internal/repository"
)

type HealthService interface {
	// Check pings the storage backend and returns its name.
	Check(ctx context.Context) (string, error)
}

type healthService struct {
	healthRepo repository.HealthRepository
}

func NewHealthService(healthRepo repository.HealthRepository) HealthService {
	return &healthService{healthRepo: healthRepo}
}

func (h *healthService) Check(ctx context.Context) (string, error) {
	return h.healthRepo.Name(), h.healthRepo.Ping(ctx)
}
