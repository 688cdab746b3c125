package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"clinicbooking/database"
	"clinicbooking/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new BookingRepository backed by the "bookings" collection.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.DB().Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

// Insert assigns an ID and creation time, inserts the document and reads it back.
func (r *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	var stored models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": booking.ID}).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to read back booking %s: %w", booking.ID, err)
	}
	return &stored, nil
}
