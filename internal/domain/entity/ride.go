package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle kinds accepted on a ride posting.
const (
	VehicleCar  = "Car"
	VehicleBike = "Bike"
)

// Geo endpoint selectors for the nearby query.
const (
	LocStart = "start"
	LocEnd   = "end"
)

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lng returns the longitude, or 0 when the point is malformed.
func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Lat returns the latitude, or 0 when the point is malformed.
func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[1]
}

// OwnerSummary identifies the ride owner inside the owner document and is
// denormalized into notifications.
type OwnerSummary struct {
	Name            string `bson:"name" json:"name"`
	ProfileImageURL string `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	BaseID          string `bson:"baseID" json:"baseID"`
}

// RideOwnerDoc is one document in the rides collection: one per distinct
// ride owner, holding every posting that owner has made.
type RideOwnerDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Owner OwnerSummary       `bson:"userData" json:"userData"`
	Rides []RidePosting      `bson:"ride" json:"ride"`
}

// RidePosting is a single ride offer embedded in its owner document.
// NuSeats is decremented each time a seat is reserved; IsRideActive is the
// soft-delete flag.
type RidePosting struct {
	RideID       string        `bson:"rideId" json:"rideId"`
	TypeOfVeh    string        `bson:"typeOfVeh" json:"typeOfVeh"`
	NuSeats      int           `bson:"nuSeats" json:"nuSeats"`
	Start        GeoPoint      `bson:"start" json:"start"`
	End          GeoPoint      `bson:"end" json:"end"`
	Time         time.Time     `bson:"time" json:"time"`
	Requests     []SeatRequest `bson:"requests,omitempty" json:"requests,omitempty"`
	IsRideActive bool          `bson:"isRideActive" json:"isRideActive"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
}

// SeatRequest is a passenger's claim on one seat. A requester may hold at
// most one request per posting, keyed by phone number.
type SeatRequest struct {
	Name            string `bson:"name" json:"name"`
	PhNum           string `bson:"phNum" json:"phNum"`
	ProfileImageURL string `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	RequesterID     string `bson:"requesterId" json:"requesterId"`
	Accepted        bool   `bson:"accepted" json:"accepted"`
	Declined        bool   `bson:"declined" json:"declined"`
}

// FindPosting returns the posting with the given ride id, or nil.
func (d *RideOwnerDoc) FindPosting(rideID string) *RidePosting {
	for i := range d.Rides {
		if d.Rides[i].RideID == rideID {
			return &d.Rides[i]
		}
	}
	return nil
}

// FindRequest locates a seat request by requester id, falling back to the
// requester name when no id matches. The name fallback exists because
// older clients posted requests without an id.
func (p *RidePosting) FindRequest(requesterID, name string) *SeatRequest {
	for i := range p.Requests {
		if requesterID != "" && p.Requests[i].RequesterID == requesterID {
			return &p.Requests[i]
		}
	}
	for i := range p.Requests {
		if name != "" && p.Requests[i].Name == name {
			return &p.Requests[i]
		}
	}
	return nil
}
