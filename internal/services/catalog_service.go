package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/config"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/db"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
)

// ICatalogService exposes read-only access to cottage and package records.
type ICatalogService interface {
	GetCottage(ctx context.Context, id primitive.ObjectID) (*models.Cottage, error)
	GetPackage(ctx context.Context, id primitive.ObjectID) (*models.Package, error)
	ListActiveCottages(ctx context.Context) ([]models.Cottage, error)
	ListActivePackages(ctx context.Context) ([]models.Package, error)
}

const (
	cottagesCacheKey = "catalog:cottages:active"
	packagesCacheKey = "catalog:packages:active"
)

// catalogService implements ICatalogService. Listings are cached in Redis;
// get-by-id always goes to the store because it must return inactive records
// too (cost lookups still work after a cottage is deactivated).
type catalogService struct {
	db  *mongo.Database
	cfg *config.Config
	rdb *redis.Client
}

// NewCatalogService creates a new CatalogService. rdb may be nil, which
// disables caching.
func NewCatalogService(db *mongo.Database, cfg *config.Config, rdb *redis.Client) ICatalogService {
	return &catalogService{db: db, cfg: cfg, rdb: rdb}
}

func (s *catalogService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// GetCottage returns a cottage by id, active or not.
func (s *catalogService) GetCottage(ctx context.Context, id primitive.ObjectID) (*models.Cottage, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var cottage models.Cottage
	err := s.db.Collection(db.CottagesCollection).FindOne(opCtx, bson.M{"_id": id}).Decode(&cottage)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("cottage %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding cottage %s: %w", id.Hex(), err)
	}
	return &cottage, nil
}

// GetPackage returns a package by id, active or not.
func (s *catalogService) GetPackage(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var pkg models.Package
	err := s.db.Collection(db.PackagesCollection).FindOne(opCtx, bson.M{"_id": id}).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("package %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding package %s: %w", id.Hex(), err)
	}
	return &pkg, nil
}

// ListActiveCottages returns active cottages, name order, cache-first.
func (s *catalogService) ListActiveCottages(ctx context.Context) ([]models.Cottage, error) {
	var cottages []models.Cottage
	if s.cacheGet(ctx, cottagesCacheKey, &cottages) {
		return cottages, nil
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.db.Collection(db.CottagesCollection).Find(opCtx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cottages: %w", err)
	}
	defer cursor.Close(opCtx)
	if err = cursor.All(opCtx, &cottages); err != nil {
		return nil, fmt.Errorf("failed to decode cottages: %w", err)
	}

	s.cacheSet(ctx, cottagesCacheKey, cottages)
	return cottages, nil
}

// ListActivePackages returns active packages, cheapest first, cache-first.
func (s *catalogService) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	if s.cacheGet(ctx, packagesCacheKey, &packages) {
		return packages, nil
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := s.db.Collection(db.PackagesCollection).Find(opCtx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(opCtx)
	if err = cursor.All(opCtx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}

	s.cacheSet(ctx, packagesCacheKey, packages)
	return packages, nil
}

// cacheGet loads a cached listing. Cache failures only cost the cache.
func (s *catalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}
	data, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: catalog cache read for %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		log.Printf("WARN: stale catalog cache entry for %s dropped: %v", key, err)
		s.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (s *catalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cfg.CatalogCacheTTL).Err(); err != nil {
		log.Printf("WARN: catalog cache write for %s failed: %v", key, err)
	}
}
