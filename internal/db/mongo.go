package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used across the service.
const (
	CottagesCollection        = "cottages"
	PackagesCollection        = "packages"
	BookingsCollection        = "bookings"
	AvailabilityCollection    = "availability"
	SafariBookingsCollection  = "safari_bookings"
	SafariInquiriesCollection = "safari_inquiries"
)

// ConnectDB initializes and returns a MongoDB client and database instance.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the primary node
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	fmt.Println("Successfully connected to MongoDB!")

	return client, db, nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	fmt.Println("MongoDB connection closed.")
	return nil
}

// EnsureIndexes creates the indexes the booking flow depends on. The unique
// (cottage_id, date) index on availability is what arbitrates concurrent
// reservations: the second writer for a day gets a duplicate key error.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	availability := db.Collection(AvailabilityCollection)
	_, err := availability.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cottage_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("cottage_date_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create availability index: %w", err)
	}

	bookings := db.Collection(BookingsCollection)
	_, err = bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("status_created_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create bookings index: %w", err)
	}

	safaris := db.Collection(SafariBookingsCollection)
	_, err = safaris.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetName("booking_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create safari_bookings index: %w", err)
	}
	return nil
}
