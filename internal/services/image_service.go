package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ImageService est la capacité « stocke des octets, rend une URL ; supprime
// par clé » au-dessus de MinIO.
type ImageService struct {
	client   *minio.Client
	bucket   string
	endpoint string
}

func NewImageService(client *minio.Client, bucket, endpoint string) *ImageService {
	return &ImageService{client: client, bucket: bucket, endpoint: endpoint}
}

// Upload stocke le fichier sous une clé unique et renvoie son URL publique.
func (s *ImageService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := fmt.Sprintf("uploads/%s-%s", uuid.NewString(), file.Filename)
	_, err = s.client.PutObject(ctx, s.bucket, key, f, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", s.endpoint, s.bucket, key), nil
}

// UploadAll stocke une liste de fichiers et renvoie les URLs dans l'ordre.
func (s *ImageService) UploadAll(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Delete retire l'objet correspondant à une URL renvoyée par Upload.
func (s *ImageService) Delete(ctx context.Context, imageURL string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("MinIO non initialisé")
	}

	key := s.extractKey(imageURL)
	if key == "" {
		return fmt.Errorf("URL d'image invalide: %s", imageURL)
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *ImageService) extractKey(imageURL string) string {
	prefix := fmt.Sprintf("http://%s/%s/", s.endpoint, s.bucket)
	if !strings.HasPrefix(imageURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(imageURL, prefix)
}
