package services

import (
	"context"
	"errors"
	"strings"

	"travelbook/internal/apperrors"
	"travelbook/internal/models"
	"travelbook/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const msgPackageNotFound = "Travel package not found"

// TravelPackageService handles business logic related to travel packages.
type TravelPackageService struct {
	repo     repositories.TravelPackageRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTravelPackageService creates a new TravelPackageService.
func NewTravelPackageService(repo repositories.TravelPackageRepository, validate *validator.Validate, logger *zap.Logger) *TravelPackageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TravelPackageService{
		repo:     repo,
		validate: validate,
		logger:   logger,
	}
}

// Create validates and stores a new package. Only one package per destination is allowed.
func (s *TravelPackageService) Create(ctx context.Context, pkg *models.TravelPackage) (*models.TravelPackage, error) {
	pkg.Title = strings.TrimSpace(pkg.Title)
	pkg.Destination = strings.TrimSpace(pkg.Destination)
	pkg.Description = strings.TrimSpace(pkg.Description)

	if err := s.validate.Struct(pkg); err != nil {
		if hasRequiredFailure(err) {
			return nil, validationError(err, msgAllFieldsRequired)
		}
		return nil, validationError(err, "Invalid travel package details")
	}

	_, err := s.repo.GetByDestination(ctx, pkg.Destination)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("Package already exists")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.Conflict("Package already exists")
		}
		return nil, apperrors.Wrap(err, apperrors.KindInternal, "Unable to create package, try again")
	}

	s.logger.Info("travel package created", zap.String("package_id", pkg.ID), zap.String("destination", pkg.Destination))
	return pkg, nil
}

// List returns every travel package.
func (s *TravelPackageService) List(ctx context.Context) ([]models.TravelPackage, error) {
	pkgs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if pkgs == nil {
		pkgs = []models.TravelPackage{}
	}
	return pkgs, nil
}

// Get returns a single travel package.
func (s *TravelPackageService) Get(ctx context.Context, id string) (*models.TravelPackage, error) {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgPackageNotFound)
		}
		return nil, apperrors.Internal(err)
	}
	return pkg, nil
}
