package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const travelPackagesCollection = "travel_packages"

// MongoTravelPackageRepository is a MongoDB implementation of TravelPackageRepository.
type MongoTravelPackageRepository struct {
	coll *mongo.Collection
}

// NewMongoTravelPackageRepository creates a new instance of MongoTravelPackageRepository.
func NewMongoTravelPackageRepository(db *mongo.Database) *MongoTravelPackageRepository {
	return &MongoTravelPackageRepository{
		coll: db.Collection(travelPackagesCollection),
	}
}

// EnsureIndexes creates the destination lookup index.
func (r *MongoTravelPackageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "destination", Value: 1}},
		Options: options.Index().SetName("destination"),
	})
	if err != nil {
		return fmt.Errorf("failed to create travel package indexes: %w", err)
	}
	return nil
}

// Create inserts a new travel package document.
func (r *MongoTravelPackageRepository) Create(ctx context.Context, pkg *models.TravelPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	pkg.CreatedAt, pkg.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, pkg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("travel package %s already exists: %w", pkg.ID, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create travel package: %w", err)
	}
	return nil
}

// GetAll retrieves all travel packages, oldest first.
func (r *MongoTravelPackageRepository) GetAll(ctx context.Context) ([]models.TravelPackage, error) {
	return r.find(ctx, bson.M{})
}

// GetByIDs retrieves every travel package whose ID is in ids.
func (r *MongoTravelPackageRepository) GetByIDs(ctx context.Context, ids []string) ([]models.TravelPackage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoTravelPackageRepository) find(ctx context.Context, filter bson.M) ([]models.TravelPackage, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find travel packages: %w", err)
	}
	var pkgs []models.TravelPackage
	if err := cur.All(ctx, &pkgs); err != nil {
		return nil, fmt.Errorf("failed to decode travel packages: %w", err)
	}
	return pkgs, nil
}

// GetByID retrieves a single travel package by its ID.
func (r *MongoTravelPackageRepository) GetByID(ctx context.Context, id string) (*models.TravelPackage, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByDestination retrieves the travel package for a destination.
func (r *MongoTravelPackageRepository) GetByDestination(ctx context.Context, destination string) (*models.TravelPackage, error) {
	return r.findOne(ctx, bson.M{"destination": destination})
}

func (r *MongoTravelPackageRepository) findOne(ctx context.Context, filter bson.M) (*models.TravelPackage, error) {
	var pkg models.TravelPackage
	if err := r.coll.FindOne(ctx, filter).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("travel package not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get travel package: %w", err)
	}
	return &pkg, nil
}
