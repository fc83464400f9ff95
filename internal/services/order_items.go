package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/store"
)

// OrderItemService possède les lignes de commande. Un order item référence un
// produit, appartient à une seule commande, et n'est créé/détruit qu'à travers
// les flux de commande.
type OrderItemService struct {
	items store.OrderItemStore
}

func NewOrderItemService(items store.OrderItemStore) *OrderItemService {
	return &OrderItemService{items: items}
}

// CreateItems persiste un order item par ligne dans le scope transactionnel
// du caller et renvoie les identifiants créés, dans l'ordre des lignes.
// Le caller doit avoir validé les références produit au préalable.
func (s *OrderItemService) CreateItems(ctx context.Context, lines []store.OrderLine) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(lines))
	for _, line := range lines {
		id, err := s.items.Insert(ctx, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteItems supprime les order items en masse (suppression ou remplacement
// d'une commande).
func (s *OrderItemService) DeleteItems(ctx context.Context, ids []primitive.ObjectID) error {
	return s.items.Delete(ctx, ids)
}
