package services

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type ServiceHealth struct {
	ServiceName       string          `json:"serviceName"`
	CheckDate         string          `json:"checkDate"`
	IsUp              bool            `json:"isUp"`
	StatusMessage     string          `json:"statusMessage"`
	ConnectedServices []ServiceHealth `json:"connectedServices,omitempty"`
}

// HealthService : simple fan-out de pings de vivacité vers les dépendances.
type HealthService struct {
	mongo   *mongo.Client
	redis   *redis.Client
	minio   *minio.Client
	elastic *elasticsearch.Client
	bucket  string
}

func NewHealthService(mongoClient *mongo.Client, rdb *redis.Client, minioClient *minio.Client, elastic *elasticsearch.Client, bucket string) *HealthService {
	return &HealthService{mongo: mongoClient, redis: rdb, minio: minioClient, elastic: elastic, bucket: bucket}
}

func (s *HealthService) Check(ctx context.Context, deep bool) ServiceHealth {
	health := ServiceHealth{
		ServiceName:   "eshop-backend",
		CheckDate:     time.Now().Format(time.RFC3339),
		IsUp:          true,
		StatusMessage: "Service is working",
	}
	if !deep {
		return health
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health.ConnectedServices = []ServiceHealth{
		s.checkService("MongoDB", func() error {
			return s.mongo.Ping(ctx, readpref.Primary())
		}),
		s.checkService("Redis", func() error {
			return s.redis.Ping(ctx).Err()
		}),
		// MinIO et Elastic peuvent être absents en mode dégradé : signalés
		// down plutôt que de faire paniquer le fan-out
		s.checkService("MinIO", func() error {
			if s.minio == nil {
				return errors.New("client MinIO non initialisé")
			}
			_, err := s.minio.BucketExists(ctx, s.bucket)
			return err
		}),
		s.checkService("Elasticsearch", func() error {
			if s.elastic == nil {
				return errors.New("client Elasticsearch non initialisé")
			}
			res, err := s.elastic.Info()
			if err != nil {
				return err
			}
			defer res.Body.Close()
			return nil
		}),
	}
	return health
}

func (s *HealthService) checkService(name string, ping func() error) ServiceHealth {
	health := ServiceHealth{
		ServiceName: name,
		CheckDate:   time.Now().Format(time.RFC3339),
	}
	if err := ping(); err != nil {
		health.StatusMessage = "Service is not working"
		return health
	}
	health.IsUp = true
	health.StatusMessage = "Service is working"
	return health
}
