package repository

import (
	"context"

	"carpool-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RideRepository defines the interface for ride ledger storage operations
type RideRepository interface {
	// AppendPosting finds the owner document by owner name or creates it,
	// then appends the posting to its list.
	AppendPosting(ctx context.Context, owner entity.OwnerSummary, p entity.RidePosting) (*entity.RideOwnerDoc, error)
	// ListActive returns owner documents with their posting lists filtered
	// to active postings; owners with no active posting are excluded.
	ListActive(ctx context.Context) ([]entity.RideOwnerDoc, error)
	FindByOwnerBaseID(ctx context.Context, baseID string) (*entity.RideOwnerDoc, error)
	FindByRideID(ctx context.Context, rideID string) (*entity.RideOwnerDoc, error)
	SetPostingActive(ctx context.Context, rideID string, active bool) (*entity.RideOwnerDoc, error)

	// NearAggregate is the primary geo strategy: one radius-aware
	// aggregation matching on the chosen endpoint, filtered to active
	// postings and grouped per owner.
	NearAggregate(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]entity.RideOwnerDoc, error)
	// CandidateIDsNear is the first leg of the fallback strategy: ids of
	// owner documents where any posting matches the proximity predicate.
	CandidateIDsNear(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.RideOwnerDoc, error)

	// ReserveSeat decrements the seat count and appends the request in one
	// conditional write; it fails when the posting is gone, inactive, or
	// out of seats at write time.
	ReserveSeat(ctx context.Context, rideID string, req entity.SeatRequest) error
	SetRequestDecision(ctx context.Context, rideID, requesterID, requesterName string, accepted, declined bool) error
}
