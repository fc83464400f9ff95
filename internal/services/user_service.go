package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/utils"
)

// UserFilter porte le filtre role de GET /users ("admin" / "non-admin").
type UserFilter struct {
	IsAdmin *bool
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Address2 string
	City     string
	Zip      string
	Country  string
	Phone    string
	IsAdmin  bool
	Avatar   string
}

type UserService struct {
	db *mongo.Database
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{db: db}
}

func (s *UserService) coll() *mongo.Collection {
	return s.db.Collection("users")
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	// email unique
	err := s.coll().FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		return nil, models.NewBadRequestError(
			"The email address is already in use. Please use a different email.", nil)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewInternalError("Failed to create new user", err.Error())
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, models.NewInternalError("Failed to hash password", err.Error())
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Address:      input.Address,
		Address2:     input.Address2,
		City:         input.City,
		Zip:          input.Zip,
		Country:      input.Country,
		Phone:        input.Phone,
		IsAdmin:      input.IsAdmin,
		Avatar:       input.Avatar,
	}
	if _, err := s.coll().InsertOne(ctx, user); err != nil {
		return nil, models.NewInternalError("Failed to create new user", err.Error())
	}
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError(
			fmt.Sprintf("User with ID %s was not found", id.Hex()), nil)
	}
	if err != nil {
		return nil, models.NewInternalError("Failed to fetch user", err.Error())
	}
	return &user, nil
}

func (s *UserService) GetUsers(ctx context.Context, filter UserFilter, page, limit int64) ([]models.User, int64, error) {
	query := bson.M{}
	if filter.IsAdmin != nil {
		query["isAdmin"] = *filter.IsAdmin
	}

	opts := options.Find().SetSkip((page - 1) * limit).SetLimit(limit)
	cursor, err := s.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, models.NewInternalError("Failed to fetch users", err.Error())
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, models.NewInternalError("Failed to decode users", err.Error())
	}

	total, err := s.coll().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, models.NewInternalError("Failed to count users", err.Error())
	}
	return users, total, nil
}

// UpdateUser applique un patch partiel ; un champ password présent est
// re-hashé avant persistance, jamais stocké en clair.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error) {
	if rawPassword, ok := patch["password"]; ok {
		password, _ := rawPassword.(string)
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, models.NewInternalError("Failed to hash password", err.Error())
		}
		delete(patch, "password")
		patch["passwordHash"] = hash
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := s.coll().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError(
			fmt.Sprintf("User with ID %s was not found and could not be updated", id.Hex()), nil)
	}
	if err != nil {
		return nil, models.NewInternalError("Failed to update user", err.Error())
	}
	return &updated, nil
}

// DeleteUser supprime le compte sans cascade : les commandes passées gardent
// une référence utilisateur possiblement orpheline.
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.NewInternalError("Failed to delete user", err.Error())
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError(
			fmt.Sprintf("User with ID %s was not found and could not be deleted", id.Hex()), nil)
	}
	return nil
}

func (s *UserService) CountUsers(ctx context.Context, filter UserFilter) (int64, error) {
	query := bson.M{}
	if filter.IsAdmin != nil {
		query["isAdmin"] = *filter.IsAdmin
	}
	count, err := s.coll().CountDocuments(ctx, query)
	if err != nil {
		return 0, models.NewInternalError("Failed to get user count", err.Error())
	}
	return count, nil
}
