package repositories

import (
	"context"
	"errors"
	"fmt"

	"travelbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTravelPackageRepository is a GORM implementation of TravelPackageRepository.
type GORMTravelPackageRepository struct {
	db *gorm.DB
}

// NewGORMTravelPackageRepository creates a new instance of GORMTravelPackageRepository.
func NewGORMTravelPackageRepository(db *gorm.DB) *GORMTravelPackageRepository {
	return &GORMTravelPackageRepository{
		db: db,
	}
}

// Create creates a new travel package in the database.
func (r *GORMTravelPackageRepository) Create(ctx context.Context, pkg *models.TravelPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("travel package %s already exists: %w", pkg.ID, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create travel package: %w", err)
	}
	return nil
}

// GetAll retrieves all travel packages from the database.
func (r *GORMTravelPackageRepository) GetAll(ctx context.Context) ([]models.TravelPackage, error) {
	var pkgs []models.TravelPackage
	if err := r.db.WithContext(ctx).Order("created_at").Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all travel packages: %w", err)
	}
	return pkgs, nil
}

// GetByID retrieves a single travel package by its ID from the database.
func (r *GORMTravelPackageRepository) GetByID(ctx context.Context, id string) (*models.TravelPackage, error) {
	var pkg models.TravelPackage
	if err := r.db.WithContext(ctx).First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("travel package with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get travel package by ID %s: %w", id, err)
	}
	return &pkg, nil
}

// GetByIDs retrieves every travel package whose ID is in ids. Missing IDs are skipped.
func (r *GORMTravelPackageRepository) GetByIDs(ctx context.Context, ids []string) ([]models.TravelPackage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pkgs []models.TravelPackage
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("failed to get travel packages by IDs: %w", err)
	}
	return pkgs, nil
}

// GetByDestination retrieves the travel package for a destination.
func (r *GORMTravelPackageRepository) GetByDestination(ctx context.Context, destination string) (*models.TravelPackage, error) {
	var pkg models.TravelPackage
	if err := r.db.WithContext(ctx).First(&pkg, "destination = ?", destination).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("travel package for %s not found: %w", destination, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get travel package by destination %s: %w", destination, err)
	}
	return &pkg, nil
}
