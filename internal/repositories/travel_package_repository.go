package repositories

import (
	"context"

	"travelbook/internal/models"
)

// TravelPackageRepository defines the interface for travel package data access.
type TravelPackageRepository interface {
	Create(ctx context.Context, pkg *models.TravelPackage) error
	GetAll(ctx context.Context) ([]models.TravelPackage, error)
	GetByID(ctx context.Context, id string) (*models.TravelPackage, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.TravelPackage, error)
	GetByDestination(ctx context.Context, destination string) (*models.TravelPackage, error)
}
