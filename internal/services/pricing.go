package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/store"
)

// PricingCalculator dérive les totaux depuis les prix produits stockés
// côté serveur — jamais depuis un montant fourni par le client.
type PricingCalculator struct {
	items    store.OrderItemStore
	products store.ProductStore
}

func NewPricingCalculator(items store.OrderItemStore, products store.ProductStore) *PricingCalculator {
	return &PricingCalculator{items: items, products: products}
}

// ComputeTotal résout chaque item et le prix courant de son produit dans le
// scope transactionnel : le prix utilisé est celui visible dans la
// transaction au moment de la création, le total est donc reproductible
// depuis l'état persisté au commit.
func (p *PricingCalculator) ComputeTotal(ctx context.Context, itemIDs []primitive.ObjectID) (float64, error) {
	var total float64
	for _, itemID := range itemIDs {
		item, err := p.items.FindByID(ctx, itemID)
		if err != nil {
			return 0, err
		}
		if item == nil {
			return 0, models.NewNotFoundError("Order item not found", map[string]any{
				"orderItemId": itemID.Hex(),
			})
		}

		product, err := p.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, models.NewNotFoundError("Order item product not found", map[string]any{
				"orderItemId": itemID.Hex(),
				"productId":   item.ProductID.Hex(),
			})
		}

		total += product.Price * float64(item.Quantity)
	}
	return total, nil
}
