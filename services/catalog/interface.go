package catalog

import (
	"context"
	"errors"

	"clinicbooking/models"
)

// ErrNotFound is returned when no expert or service matches a slug.
var ErrNotFound = errors.New("not found")

// CatalogService exposes the read-only expert and service lookups.
type CatalogService interface {
	Experts(ctx context.Context) ([]models.Expert, error)
	Services(ctx context.Context) ([]models.Service, error)
	ExpertBySlug(ctx context.Context, slug string) (*models.Expert, error)
	ServiceBySlug(ctx context.Context, slug string) (*models.Service, error)
	// Invalidate drops the cached lists.
	Invalidate(ctx context.Context) error
}
