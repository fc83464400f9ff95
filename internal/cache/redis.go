package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist révoque les JWT avant expiration : clé posée avec un TTL
// égal à la durée de vie restante du token, existence vérifiée à chaque
// requête authentifiée.
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	return b.rdb.Set(ctx, key, "revoked", ttl).Err()
}

func (b *TokenBlacklist) Contains(ctx context.Context, token string) bool {
	key := fmt.Sprintf("blacklist:%s", token)
	exists, err := b.rdb.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Erreur vérification blacklist: %v", err)
		return false
	}
	return exists > 0
}
