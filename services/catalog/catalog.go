// File: services/catalog/catalog.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogRepo "clinicbooking/database/repository/catalog"
	"clinicbooking/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	expertsCacheKey  = "catalog:experts"
	servicesCacheKey = "catalog:services"
)

// DefaultCatalogService reads from the repository and keeps the lists in Redis.
// A nil Cache disables caching.
type DefaultCatalogService struct {
	Repo   catalogRepo.CatalogRepository
	Cache  *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func (s *DefaultCatalogService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// cached loads key from Redis into out. A miss or a broken entry returns false.
func (s *DefaultCatalogService) cached(ctx context.Context, key string, out interface{}) bool {
	if s.Cache == nil {
		return false
	}
	data, err := s.Cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger().Warn("catalog cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DefaultCatalogService) store(ctx context.Context, key string, value interface{}) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, data, s.TTL).Err(); err != nil {
		s.logger().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *DefaultCatalogService) Experts(ctx context.Context) ([]models.Expert, error) {
	var experts []models.Expert
	if s.cached(ctx, expertsCacheKey, &experts) {
		return experts, nil
	}
	experts, err := s.Repo.ListExperts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list experts: %w", err)
	}
	s.store(ctx, expertsCacheKey, experts)
	return experts, nil
}

func (s *DefaultCatalogService) Services(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if s.cached(ctx, servicesCacheKey, &services) {
		return services, nil
	}
	services, err := s.Repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	s.store(ctx, servicesCacheKey, services)
	return services, nil
}

func (s *DefaultCatalogService) ExpertBySlug(ctx context.Context, slug string) (*models.Expert, error) {
	experts, err := s.Experts(ctx)
	if err != nil {
		return nil, err
	}
	if e := models.FindExpertBySlug(experts, slug); e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("expert %q: %w", slug, ErrNotFound)
}

func (s *DefaultCatalogService) ServiceBySlug(ctx context.Context, slug string) (*models.Service, error) {
	services, err := s.Services(ctx)
	if err != nil {
		return nil, err
	}
	if svc := models.FindServiceBySlug(services, slug); svc != nil {
		return svc, nil
	}
	return nil, fmt.Errorf("service %q: %w", slug, ErrNotFound)
}

func (s *DefaultCatalogService) Invalidate(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Del(ctx, expertsCacheKey, servicesCacheKey).Err()
}
