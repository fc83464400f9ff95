package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eshop_back_end/internal/models"
)

const categoriesCacheKey = "categories:all"

type CategoryService struct {
	db    *mongo.Database
	redis *redis.Client
}

func NewCategoryService(db *mongo.Database, rdb *redis.Client) *CategoryService {
	return &CategoryService{db: db, redis: rdb}
}

func (s *CategoryService) coll() *mongo.Collection {
	return s.db.Collection("categories")
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	// Cache Redis une heure, invalidé à chaque écriture
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, categoriesCacheKey).Result(); err == nil && val != "" {
			var cached []models.Category
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	cursor, err := s.coll().Find(ctx, bson.M{})
	if err != nil {
		return nil, models.NewInternalError("Failed to fetch categories", err.Error())
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, models.NewInternalError("Failed to decode categories", err.Error())
	}

	if s.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			s.redis.Set(ctx, categoriesCacheKey, data, time.Hour)
		}
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError(
			fmt.Sprintf("Category with ID %s was not found", id.Hex()), nil)
	}
	if err != nil {
		return nil, models.NewInternalError("Failed to fetch category", err.Error())
	}
	return &category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	if category.Name == "" {
		return nil, models.NewBadRequestError("Category name is required", nil)
	}

	category.ID = primitive.NewObjectID()
	if _, err := s.coll().InsertOne(ctx, category); err != nil {
		return nil, models.NewInternalError("Failed to create category", err.Error())
	}
	s.invalidateCache(ctx)
	return &category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Category
	err := s.coll().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError(
			fmt.Sprintf("Category with ID %s was not found", id.Hex()), nil)
	}
	if err != nil {
		return nil, models.NewInternalError("Failed to update category", err.Error())
	}
	s.invalidateCache(ctx)
	return &updated, nil
}

// DeleteCategory supprime la catégorie seule : pas de cascade sur les
// produits, l'intégrité référentielle reste à la charge du catalogue.
func (s *CategoryService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.NewInternalError("Failed to delete category", err.Error())
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError(
			fmt.Sprintf("Category with ID %s was not found", id.Hex()), nil)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *CategoryService) invalidateCache(ctx context.Context) {
	if s.redis != nil {
		s.redis.Del(ctx, categoriesCacheKey)
	}
}
