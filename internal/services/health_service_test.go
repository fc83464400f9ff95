package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// En mode dégradé, database.Connect laisse les clients MinIO et Elastic à
// nil : le health check profond doit les signaler down, pas paniquer.
func TestHealthCheckDeepWithMissingOptionalClients(t *testing.T) {
	ctx := context.Background()

	mongoClient, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://localhost:1").
		SetServerSelectionTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer mongoClient.Disconnect(ctx)

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	defer rdb.Close()

	service := NewHealthService(mongoClient, rdb, nil, nil, "eshop-images")

	health := service.Check(ctx, true)

	require.Len(t, health.ConnectedServices, 4)
	byName := map[string]ServiceHealth{}
	for _, dep := range health.ConnectedServices {
		byName[dep.ServiceName] = dep
	}

	assert.False(t, byName["MinIO"].IsUp)
	assert.Equal(t, "Service is not working", byName["MinIO"].StatusMessage)
	assert.False(t, byName["Elasticsearch"].IsUp)
	assert.Equal(t, "Service is not working", byName["Elasticsearch"].StatusMessage)
}

func TestHealthCheckShallowSkipsDependencies(t *testing.T) {
	service := NewHealthService(nil, nil, nil, nil, "")

	health := service.Check(context.Background(), false)

	assert.True(t, health.IsUp)
	assert.Empty(t, health.ConnectedServices)
}
