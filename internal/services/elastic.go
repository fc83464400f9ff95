package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"eshop_back_end/internal/models"
)

const productsIndex = "products"

// SearchService indexe les produits dans Elasticsearch et sert la recherche
// plein texte de GET /products/search.
type SearchService struct {
	client *elasticsearch.Client
}

func NewSearchService(client *elasticsearch.Client) *SearchService {
	return &SearchService{client: client}
}

// IndexProduct pousse un produit dans l'index. Appelé en goroutine à la
// création/mise à jour : un échec d'indexation ne bloque jamais l'écriture.
func (s *SearchService) IndexProduct(p models.Product) {
	if s == nil || s.client == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("❌ Erreur sérialisation produit pour Elastic: %v", err)
		return
	}

	req := esapi.IndexRequest{
		Index:      productsIndex,
		DocumentID: p.ID.Hex(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(context.Background(), s.client)
	if err != nil {
		log.Printf("❌ Erreur envoi Elastic: %v", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Name, res.String())
	}
}

// Search interroge l'index sur nom, description et marque.
func (s *SearchService) Search(query string) ([]map[string]any, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	q := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"name", "description", "brand"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productsIndex},
		Body:  &buf,
	}
	res, err := req.Do(context.Background(), s.client)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("index non trouvé ou vide")
	}

	var r map[string]any
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %v", err)
	}

	hitsData, ok := r["hits"].(map[string]any)
	if !ok {
		return nil, errors.New("réponse Elastic invalide (pas de hits)")
	}
	hitsArray, _ := hitsData["hits"].([]any)

	results := make([]map[string]any, 0, len(hitsArray))
	for _, hit := range hitsArray {
		hitMap, _ := hit.(map[string]any)
		if source, ok := hitMap["_source"].(map[string]any); ok {
			results = append(results, source)
		}
	}
	return results, nil
}
