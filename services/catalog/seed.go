package catalog

import (
	"context"
	"fmt"
	"os"

	catalogRepo "clinicbooking/database/repository/catalog"
	"clinicbooking/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SeedFile is the layout of the catalog seed YAML.
type SeedFile struct {
	Experts  []models.Expert  `yaml:"experts"`
	Services []models.Service `yaml:"services"`
}

// LoadSeedFile parses a catalog seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	for _, e := range seed.Experts {
		if e.ID == "" || e.Slug == "" {
			return nil, fmt.Errorf("seed file %s: expert %q needs both id and slug", path, e.Name)
		}
	}
	for _, s := range seed.Services {
		if s.ID == "" || s.Slug == "" {
			return nil, fmt.Errorf("seed file %s: service %q needs both id and slug", path, s.Name)
		}
	}
	return &seed, nil
}

// Seed inserts the seed entries into each collection that is still empty.
func Seed(ctx context.Context, repo catalogRepo.CatalogRepository, seed *SeedFile, logger *zap.Logger) error {
	n, err := repo.CountExperts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count experts: %w", err)
	}
	if n == 0 {
		if err := repo.InsertExperts(ctx, seed.Experts); err != nil {
			return err
		}
		logger.Info("seeded experts", zap.Int("count", len(seed.Experts)))
	}

	n, err = repo.CountServices(ctx)
	if err != nil {
		return fmt.Errorf("failed to count services: %w", err)
	}
	if n == 0 {
		if err := repo.InsertServices(ctx, seed.Services); err != nil {
			return err
		}
		logger.Info("seeded services", zap.Int("count", len(seed.Services)))
	}
	return nil
}
