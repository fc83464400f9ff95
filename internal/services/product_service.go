package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eshop_back_end/internal/models"
)

// ProductFilter porte les filtres de GET /products construits à la frontière.
type ProductFilter struct {
	CategoryID *primitive.ObjectID
	MinPrice   *float64
	MaxPrice   *float64
	IsFeatured *bool
}

type ProductService struct {
	db     *mongo.Database
	redis  *redis.Client
	search *SearchService
	images *ImageService
}

func NewProductService(db *mongo.Database, rdb *redis.Client, search *SearchService, images *ImageService) *ProductService {
	return &ProductService{db: db, redis: rdb, search: search, images: images}
}

func (s *ProductService) coll() *mongo.Collection {
	return s.db.Collection("products")
}

func (s *ProductService) GetProducts(ctx context.Context, filter ProductFilter, page, limit int64) ([]models.Product, int64, error) {
	query := filter.toBSON()

	opts := options.Find().
		SetSort(bson.D{{Key: "dateCreated", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, models.NewInternalError("Failed to fetch products", err.Error())
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, models.NewInternalError("Failed to decode products", err.Error())
	}

	total, err := s.coll().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, models.NewInternalError("Failed to count products", err.Error())
	}
	return products, total, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, *models.Category, error) {
	var product models.Product
	err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, models.NewNotFoundError(
			fmt.Sprintf("Product with id: %s was not found", id.Hex()), nil)
	}
	if err != nil {
		return nil, nil, models.NewInternalError("Failed to fetch product", err.Error())
	}

	// Résolution de la catégorie (best effort, référence possiblement vide)
	var category *models.Category
	if !product.CategoryID.IsZero() {
		var cat models.Category
		if err := s.db.Collection("categories").
			FindOne(ctx, bson.M{"_id": product.CategoryID}).Decode(&cat); err == nil {
			category = &cat
		}
	}
	return &product, category, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	if err := s.checkCategoryExists(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	product.ID = primitive.NewObjectID()
	product.DateCreated = time.Now()

	if _, err := s.coll().InsertOne(ctx, product); err != nil {
		return nil, models.NewInternalError("Failed to create new product", err.Error())
	}

	// Indexation Elasticsearch hors chemin critique
	if s.search != nil {
		go s.search.IndexProduct(product)
	}
	s.invalidateCache(ctx)

	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.Product, error) {
	if rawCategory, ok := patch["category"]; ok {
		categoryID, ok := rawCategory.(primitive.ObjectID)
		if !ok {
			return nil, models.NewBadRequestError("Invalid category reference", nil)
		}
		if err := s.checkCategoryExists(ctx, categoryID); err != nil {
			return nil, err
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := s.coll().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError(
			fmt.Sprintf("Product with id: %s was not found", id.Hex()), nil)
	}
	if err != nil {
		return nil, models.NewInternalError("Failed to update product", err.Error())
	}

	if s.search != nil {
		go s.search.IndexProduct(updated)
	}
	s.invalidateCache(ctx)

	return &updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	var product models.Product
	err := s.coll().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewNotFoundError(
			fmt.Sprintf("Product with id: %s was not found", id.Hex()), nil)
	}
	if err != nil {
		return models.NewInternalError("Failed to delete product", err.Error())
	}

	// Nettoyage MinIO best effort : une image orpheline ne bloque pas la suppression
	if s.images != nil {
		for _, imageURL := range append(product.Images, product.Image) {
			if imageURL == "" {
				continue
			}
			if err := s.images.Delete(ctx, imageURL); err != nil {
				log.Printf("⚠️ Suppression image MinIO échouée (%s): %v", imageURL, err)
			}
		}
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *ProductService) CountProducts(ctx context.Context, filter ProductFilter) (int64, error) {
	count, err := s.coll().CountDocuments(ctx, filter.toBSON())
	if err != nil {
		return 0, models.NewInternalError("Failed to get product count", err.Error())
	}
	return count, nil
}

func (s *ProductService) GetFeaturedProducts(ctx context.Context, page, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSkip((page - 1) * limit).SetLimit(limit)
	cursor, err := s.coll().Find(ctx, bson.M{"isFeatured": true}, opts)
	if err != nil {
		return nil, models.NewInternalError("Failed to get featured products", err.Error())
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, models.NewInternalError("Failed to decode featured products", err.Error())
	}
	return products, nil
}

// SearchProducts interroge Elasticsearch en priorité, avec fallback Mongo
// (regex, non optimal mais suffisant quand l'index est vide ou ES absent).
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]map[string]any, error) {
	if s.search != nil {
		results, err := s.search.Search(query)
		if err == nil && len(results) > 0 {
			return results, nil
		}
		if err != nil {
			log.Printf("⚠️ Recherche Elastic en échec, fallback Mongo: %v", err)
		}
	}

	cursor, err := s.coll().Find(ctx, searchFallbackQuery(query))
	if err != nil {
		return nil, models.NewInternalError("Failed to search products", err.Error())
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, models.NewInternalError("Failed to decode search results", err.Error())
	}

	results := make([]map[string]any, 0, len(products))
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err == nil {
			results = append(results, m)
		}
	}
	return results, nil
}

// AttachImage stocke l'image principale et persiste son URL.
func (s *ProductService) AttachImage(ctx context.Context, id primitive.ObjectID, imageURL string) (*models.Product, error) {
	return s.UpdateProduct(ctx, id, bson.M{"image": imageURL})
}

// AttachGallery remplace la galerie d'images du produit.
func (s *ProductService) AttachGallery(ctx context.Context, id primitive.ObjectID, imageURLs []string) (*models.Product, error) {
	return s.UpdateProduct(ctx, id, bson.M{"images": imageURLs})
}

// searchFallbackQuery construit le filtre $regex du fallback Mongo. La
// requête utilisateur est échappée : une entrée comme "(" reste un littéral
// à chercher, pas un motif invalide qui ferait échouer la requête.
func searchFallbackQuery(query string) bson.M {
	pattern := regexp.QuoteMeta(query)
	return bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": pattern, "$options": "i"}},
	}}
}

func (s *ProductService) checkCategoryExists(ctx context.Context, categoryID primitive.ObjectID) error {
	if categoryID.IsZero() {
		return models.NewBadRequestError("Product category is required", nil)
	}
	err := s.db.Collection("categories").FindOne(ctx, bson.M{"_id": categoryID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewBadRequestError(
			fmt.Sprintf("Category with ID %s does not exist", categoryID.Hex()), nil)
	}
	if err != nil {
		return models.NewInternalError("Failed to check category", err.Error())
	}
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, "products:all").Err(); err != nil {
		log.Printf("⚠️ Invalidation cache produits échouée: %v", err)
	}
}

func (f ProductFilter) toBSON() bson.M {
	query := bson.M{}
	if f.CategoryID != nil {
		query["category"] = *f.CategoryID
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if f.IsFeatured != nil {
		query["isFeatured"] = *f.IsFeatured
	}
	return query
}
