package models

import "time"

// ItineraryDay describes one day of a travel package.
type ItineraryDay struct {
	Day         int    `json:"day" bson:"day" validate:"required,gt=0"`
	Description string `json:"description" bson:"description" validate:"required"`
}

// TravelPackage is a bookable trip in the catalog.
type TravelPackage struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Title       string         `json:"title" gorm:"type:varchar(200);not null" bson:"title" validate:"required"`
	ImageURL    string         `json:"image_url" gorm:"type:varchar(500);not null" bson:"image_url" validate:"required,url"`
	Destination string         `json:"destination" gorm:"index;type:varchar(200);not null" bson:"destination" validate:"required"`
	Price       float64        `json:"price" bson:"price" validate:"gte=0"`
	Duration    int            `json:"duration" bson:"duration" validate:"required,gt=0"`
	Ratings     float64        `json:"ratings" bson:"ratings" validate:"gte=0,lte=5"`
	Description string         `json:"description" gorm:"type:text;not null" bson:"description" validate:"required"`
	StartDate   time.Time      `json:"start_date" bson:"start_date" validate:"required"`
	EndDate     time.Time      `json:"end_date" bson:"end_date" validate:"required,gtefield=StartDate"`
	Itinerary   []ItineraryDay `json:"itinerary" gorm:"serializer:json" bson:"itinerary" validate:"required,min=1,dive"`
	Inclusions  []string       `json:"inclusions" gorm:"serializer:json" bson:"inclusions" validate:"required,min=1"`
	Exclusions  []string       `json:"exclusions" gorm:"serializer:json" bson:"exclusions" validate:"required,min=1"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updated_at"`
}

// Summary is the subset of a package embedded in booking listings.
func (p *TravelPackage) Summary() PackageSummary {
	return PackageSummary{
		ID:          p.ID,
		Title:       p.Title,
		Destination: p.Destination,
		Price:       p.Price,
	}
}

// PackageSummary is a short reference to a travel package.
type PackageSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Destination string  `json:"destination"`
	Price       float64 `json:"price"`
}
