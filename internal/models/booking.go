package models

import "time"

// BookingStatusPending is the status every booking is created with.
const BookingStatusPending = "pending"

// Traveler is one person travelling under a booking.
type Traveler struct {
	Name   string `json:"name" bson:"name" validate:"required"`
	Age    int    `json:"age" bson:"age" validate:"gte=0"`
	Gender string `json:"gender" bson:"gender" validate:"required,oneof=male female other"`
}

// Booking is a user's reservation of a travel package.
type Booking struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID          string     `json:"user" gorm:"index;type:varchar(36);not null" bson:"user_id"`
	TravelPackageID string     `json:"travelPackage" gorm:"index;type:varchar(36);not null" bson:"travel_package_id"`
	BookingDate     time.Time  `json:"bookingDate" bson:"booking_date"`
	TravelDate      time.Time  `json:"travelDate" bson:"travel_date" validate:"required"`
	TravelerDetails []Traveler `json:"travelerDetails" gorm:"serializer:json" bson:"traveler_details" validate:"required,min=1,dive"`
	TotalTravelers  int        `json:"totalTravelers" bson:"total_travelers" validate:"required,gte=1"`
	Status          string     `json:"status" gorm:"type:varchar(20);not null;default:pending" bson:"status"`
	CreatedAt       time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updated_at"`
}

// BookingWithPackage is a booking listed together with its package summary.
type BookingWithPackage struct {
	Booking
	Package *PackageSummary `json:"package,omitempty"`
}
