package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"eshop_back_end/internal/config"
)

// Connections regroupe les clients d'infrastructure, construits une fois au
// démarrage et injectés explicitement partout.
type Connections struct {
	Mongo         *mongo.Client
	DB            *mongo.Database
	Redis         *redis.Client
	Elastic       *elasticsearch.Client
	MinIO         *minio.Client
	MinIOBucket   string
	MinIOEndpoint string
}

// Connect ouvre toutes les connexions. Mongo et Redis sont bloquants : sans
// eux le service ne peut pas fonctionner. Elastic et MinIO sont best effort,
// la recherche et les images se dégradent proprement.
func Connect(ctx context.Context) (*Connections, error) {
	conns := &Connections{}

	// ─── MongoDB ───
	mongoURI := config.Get("MONGO_URI", "mongodb://localhost:27017")
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	conns.Mongo = mongoClient
	conns.DB = mongoClient.Database(config.Get("MONGO_DB", "eshop"))
	log.Println("✅ Connecté à MongoDB")

	// ─── Redis ───
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Get("REDIS_ADDR", "localhost:6379"),
		Password: config.Get("REDIS_PASSWORD", ""),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connexion Redis: %w", err)
	}
	conns.Redis = rdb
	log.Println("✅ Connecté à Redis")

	// ─── Elasticsearch ───
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{config.Get("ELASTIC_URL", "http://localhost:9200")},
	})
	if err != nil {
		log.Printf("⚠️ Client Elasticsearch indisponible: %v", err)
	} else {
		conns.Elastic = esClient
		log.Println("✅ Client Elasticsearch initialisé")
	}

	// ─── MinIO ───
	endpoint := config.Get("MINIO_ENDPOINT", "localhost:9000")
	useSSL, _ := strconv.ParseBool(config.Get("MINIO_USE_SSL", "false"))
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Get("MINIO_ACCESS_KEY", ""), config.Get("MINIO_SECRET_KEY", ""), ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Printf("⚠️ Client MinIO indisponible: %v", err)
	} else {
		conns.MinIO = minioClient
		conns.MinIOBucket = config.Get("MINIO_BUCKET", "eshop-images")
		conns.MinIOEndpoint = endpoint
		if err := ensureBucket(ctx, minioClient, conns.MinIOBucket); err != nil {
			log.Printf("⚠️ Vérification bucket MinIO: %v", err)
		}
	}

	return conns, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
		log.Printf("🪣 Bucket MinIO %s créé", bucket)
	}
	return nil
}

// Close ferme proprement ce qui se ferme.
func (c *Connections) Close(ctx context.Context) {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️ Fermeture Redis: %v", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Printf("⚠️ Déconnexion MongoDB: %v", err)
		}
	}
}
