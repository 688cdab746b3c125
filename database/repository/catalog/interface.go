package catalogRepo

import (
	"context"

	"clinicbooking/models"
)

// CatalogRepository gives read access to experts and services, plus the
// inserts used when seeding an empty database.
type CatalogRepository interface {
	ListExperts(ctx context.Context) ([]models.Expert, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	CountExperts(ctx context.Context) (int64, error)
	CountServices(ctx context.Context) (int64, error)
	InsertExperts(ctx context.Context, experts []models.Expert) error
	InsertServices(ctx context.Context, services []models.Service) error
}
