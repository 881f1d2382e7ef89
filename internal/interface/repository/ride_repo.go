package repository

import (
	"context"
	"fmt"
	"time"

	"carpool-service/internal/domain/entity"
	"carpool-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// earthRadiusKm converts kilometers to radians for $centerSphere. The same
// radius feeds the application-side haversine filter so both geo paths
// agree on what "within R km" means.
const earthRadiusKm = 6371.0

// MongoRideRepository implements the RideRepository interface
type MongoRideRepository struct {
	collection *mongo.Collection
}

// NewMongoRideRepository creates a new MongoDB ride ledger repository
func NewMongoRideRepository(db *mongo.Database) repository.RideRepository {
	collection := db.Collection("rides")

	ctx := context.Background()

	// The geo indexes live on the embedded array paths. Queries that
	// address the points through a different key path than the index
	// declaration can come back empty, which is why the service layer
	// keeps a fallback strategy on top of NearAggregate.
	startGeoIndex := mongo.IndexModel{
		Keys: bson.M{"ride.start": "2dsphere"},
	}

	endGeoIndex := mongo.IndexModel{
		Keys: bson.M{"ride.end": "2dsphere"},
	}

	rideIDIndex := mongo.IndexModel{
		Keys:    bson.M{"ride.rideId": 1},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}

	ownerNameIndex := mongo.IndexModel{
		Keys:    bson.M{"userData.name": 1},
		Options: options.Index().SetUnique(true),
	}

	activeTimeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "ride.isRideActive", Value: 1},
			{Key: "ride.time", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		startGeoIndex,
		endGeoIndex,
		rideIDIndex,
		ownerNameIndex,
		activeTimeIndex,
	})

	return &MongoRideRepository{
		collection: collection,
	}
}

// AppendPosting finds the owner document by owner name or creates it, then
// appends the posting. The atomicity of concurrent posts by the same owner
// rests entirely on findOneAndUpdate with upsert.
func (r *MongoRideRepository) AppendPosting(ctx context.Context, owner entity.OwnerSummary, p entity.RidePosting) (*entity.RideOwnerDoc, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc entity.RideOwnerDoc
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"userData.name": owner.Name},
		bson.M{
			"$setOnInsert": bson.M{"userData": owner},
			"$push":        bson.M{"ride": p},
		},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to append posting: %w", err)
	}
	return &doc, nil
}

// ListActive returns every owner document with its posting list filtered
// to active postings, excluding owners left with none.
func (r *MongoRideRepository) ListActive(ctx context.Context) ([]entity.RideOwnerDoc, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.M{
			"ride": bson.M{"$filter": bson.M{
				"input": "$ride",
				"as":    "r",
				"cond":  bson.M{"$eq": bson.A{"$$r.isRideActive", true}},
			}},
		}}},
		bson.D{{Key: "$match", Value: bson.M{"ride": bson.M{"$ne": bson.A{}}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []entity.RideOwnerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByOwnerBaseID returns one owner's full ledger, active and inactive.
func (r *MongoRideRepository) FindByOwnerBaseID(ctx context.Context, baseID string) (*entity.RideOwnerDoc, error) {
	var doc entity.RideOwnerDoc
	err := r.collection.FindOne(ctx, bson.M{"userData.baseID": baseID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrRideNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByRideID returns the owner document containing the given posting.
func (r *MongoRideRepository) FindByRideID(ctx context.Context, rideID string) (*entity.RideOwnerDoc, error) {
	var doc entity.RideOwnerDoc
	err := r.collection.FindOne(ctx, bson.M{"ride.rideId": rideID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrRideNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// SetPostingActive toggles the soft-delete flag on exactly one posting.
func (r *MongoRideRepository) SetPostingActive(ctx context.Context, rideID string, active bool) (*entity.RideOwnerDoc, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc entity.RideOwnerDoc
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"ride.rideId": rideID},
		bson.M{"$set": bson.M{"ride.$.isRideActive": active}},
		opts,
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrRideNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// NearAggregate is the primary geo strategy: match owner documents inside
// the radius, unwind, keep active postings inside the radius, sort by
// scheduled time, and regroup per owner.
func (r *MongoRideRepository) NearAggregate(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]entity.RideOwnerDoc, error) {
	locField := "ride." + locType
	within := bson.M{"$geoWithin": bson.M{
		"$centerSphere": bson.A{
			bson.A{point.Lng(), point.Lat()},
			maxDistKm / earthRadiusKm,
		},
	}}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{locField: within}}},
		bson.D{{Key: "$unwind", Value: "$ride"}},
		bson.D{{Key: "$match", Value: bson.M{
			"ride.isRideActive": true,
			locField:            within,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "ride.time", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$_id",
			"userData": bson.M{"$first": "$userData"},
			"ride":     bson.M{"$push": "$ride"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []entity.RideOwnerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CandidateIDsNear returns ids of owner documents where any posting
// matches the proximity predicate. First leg of the fallback strategy.
func (r *MongoRideRepository) CandidateIDsNear(ctx context.Context, point entity.GeoPoint, maxDistKm float64, locType string) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"ride." + locType: bson.M{"$geoWithin": bson.M{
			"$centerSphere": bson.A{
				bson.A{point.Lng(), point.Lat()},
				maxDistKm / earthRadiusKm,
			},
		}},
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		ids = append(ids, row.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindByID fetches one owner document in full. Second leg of the fallback
// strategy; called once per candidate id.
func (r *MongoRideRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.RideOwnerDoc, error) {
	var doc entity.RideOwnerDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrRideNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// ReserveSeat decrements the seat count and appends the request in one
// conditional write. The nuSeats > 0 guard in the filter keeps two
// concurrent reservations from overselling the last seat.
func (r *MongoRideRepository) ReserveSeat(ctx context.Context, rideID string, req entity.SeatRequest) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"ride": bson.M{"$elemMatch": bson.M{
			"rideId":       rideID,
			"isRideActive": true,
			"nuSeats":      bson.M{"$gt": 0},
		}}},
		bson.M{
			"$inc":  bson.M{"ride.$.nuSeats": -1},
			"$push": bson.M{"ride.$.requests": req},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to reserve seat: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrRideFull
	}
	return nil
}

// SetRequestDecision flips the accepted/declined flags on the seat request
// matching the requester id, or the requester name when no id matches.
func (r *MongoRideRepository) SetRequestDecision(ctx context.Context, rideID, requesterID, requesterName string, accepted, declined bool) error {
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"r.rideId": rideID},
			bson.M{"$or": []bson.M{
				{"q.requesterId": requesterID},
				{"q.name": requesterName},
			}},
		},
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"ride.rideId": rideID},
		bson.M{"$set": bson.M{
			"ride.$[r].requests.$[q].accepted": accepted,
			"ride.$[r].requests.$[q].declined": declined,
		}},
		options.Update().SetArrayFilters(arrayFilters),
	)
	if err != nil {
		return fmt.Errorf("failed to set request decision: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrRideNotFound
	}
	return nil
}
