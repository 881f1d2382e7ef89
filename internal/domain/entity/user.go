package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification roles. A "request" notification asks the ride owner for a
// decision; an "info" notification only reports one.
const (
	RoleRequest = "request"
	RoleInfo    = "info"
)

// UserAccount is one document in the users collection. Created on first
// role selection after external authentication; never hard-deleted.
type UserAccount struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	BaseID          string             `bson:"baseID" json:"baseID"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email           string             `bson:"email" json:"email"`
	PhNum           string             `bson:"phNum" json:"phNum"`
	ProfileImageURL string             `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	NuRides         int                `bson:"nuRides" json:"nuRides"`
	NuPickups       int                `bson:"nuPickups" json:"nuPickups"`
	Vehicles        []Vehicle          `bson:"vehicles,omitempty" json:"vehicles,omitempty"`
	Notifications   []Notification     `bson:"notifications,omitempty" json:"notifications,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Vehicle is a registration owned by exactly one account, upserted by
// registration number.
type Vehicle struct {
	RegNum string `bson:"regNum" json:"regNum"`
	Name   string `bson:"name" json:"name"`
}

// Notification is embedded in the recipient account. It is mutated only
// through the decide and delete operations.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	RideID      string             `bson:"rideId" json:"rideId"`
	Start       GeoPoint           `bson:"start" json:"start"`
	End         GeoPoint           `bson:"end" json:"end"`
	Role        string             `bson:"role" json:"role"`
	RequesterID string             `bson:"requesterId" json:"requesterId"`
	Message     string             `bson:"message" json:"message"`
	Accepted    bool               `bson:"accepted" json:"accepted"`
	Declined    bool               `bson:"declined" json:"declined"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
