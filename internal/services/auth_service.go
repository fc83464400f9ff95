package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eshop_back_end/internal/cache"
	"eshop_back_end/internal/models"
	"eshop_back_end/internal/utils"
)

type AuthService struct {
	db        *mongo.Database
	blacklist *cache.TokenBlacklist
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(db *mongo.Database, blacklist *cache.TokenBlacklist, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{db: db, blacklist: blacklist, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login vérifie les identifiants et signe un JWT. Même message pour email
// inconnu et mauvais mot de passe : pas d'énumération de comptes.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil, models.NewUnauthorizedError("Invalid email or password", nil)
	}
	if err != nil {
		return "", nil, models.NewInternalError("Failed to log in", err.Error())
	}

	if !utils.VerifyPassword(password, user.PasswordHash) {
		return "", nil, models.NewUnauthorizedError("Invalid email or password", nil)
	}

	token, err := utils.GenerateJWT(user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, models.NewInternalError("Failed to sign token", err.Error())
	}
	return token, &user, nil
}

// Logout blackliste le token dans Redis pour sa durée de vie restante :
// inutile de le garder plus longtemps, il expire de lui-même ensuite.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.VerifyJWT(token, s.jwtSecret)
	if err != nil {
		return models.NewUnauthorizedError("Invalid token", nil)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return models.NewUnauthorizedError("Invalid token", nil)
	}

	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Add(ctx, token, ttl); err != nil {
		return models.NewInternalError("Failed to log out", err.Error())
	}
	return nil
}
