package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"travelbook/internal/models"

	"github.com/google/uuid"
)

// MemoryTravelPackageRepository is an in-memory implementation of TravelPackageRepository.
type MemoryTravelPackageRepository struct {
	packages map[string]models.TravelPackage
	mu       sync.RWMutex
}

// NewMemoryTravelPackageRepository creates a new instance of MemoryTravelPackageRepository.
func NewMemoryTravelPackageRepository() *MemoryTravelPackageRepository {
	return &MemoryTravelPackageRepository{
		packages: make(map[string]models.TravelPackage),
	}
}

// Create adds a new travel package.
func (r *MemoryTravelPackageRepository) Create(_ context.Context, pkg *models.TravelPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	if _, exists := r.packages[pkg.ID]; exists {
		return fmt.Errorf("travel package %s already exists: %w", pkg.ID, ErrDuplicateKey)
	}
	now := time.Now()
	pkg.CreatedAt, pkg.UpdatedAt = now, now
	r.packages[pkg.ID] = *pkg
	return nil
}

// GetAll returns all travel packages, oldest first.
func (r *MemoryTravelPackageRepository) GetAll(_ context.Context) ([]models.TravelPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.TravelPackage, 0, len(r.packages))
	for _, p := range r.packages {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// GetByID returns a travel package by its ID.
func (r *MemoryTravelPackageRepository) GetByID(_ context.Context, id string) (*models.TravelPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pkg, ok := r.packages[id]
	if !ok {
		return nil, fmt.Errorf("travel package with ID %s not found: %w", id, ErrNotFound)
	}
	return &pkg, nil
}

// GetByIDs returns the travel packages whose IDs are in ids.
func (r *MemoryTravelPackageRepository) GetByIDs(_ context.Context, ids []string) ([]models.TravelPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.TravelPackage
	for _, id := range ids {
		if p, ok := r.packages[id]; ok {
			list = append(list, p)
		}
	}
	return list, nil
}

// GetByDestination returns the travel package for a destination.
func (r *MemoryTravelPackageRepository) GetByDestination(_ context.Context, destination string) (*models.TravelPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.packages {
		if p.Destination == destination {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("travel package for %s not found: %w", destination, ErrNotFound)
}
