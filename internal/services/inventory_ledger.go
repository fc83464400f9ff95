package services

import (
	"context"
	"fmt"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/store"
)

// InventoryLedger possède les compteurs de stock : validation en lecture pure
// avant écriture, décrément conditionnel dans la transaction de commande.
type InventoryLedger struct {
	products store.ProductStore
}

func NewInventoryLedger(products store.ProductStore) *InventoryLedger {
	return &InventoryLedger{products: products}
}

// ValidateStock vérifie chaque ligne sans aucun effet de bord. Doit être
// appelée avant toute écriture de la commande.
func (l *InventoryLedger) ValidateStock(ctx context.Context, lines []store.OrderLine) error {
	for _, line := range lines {
		product, err := l.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return models.NewNotFoundError("Product not found", map[string]any{
				"productId": line.ProductID.Hex(),
			})
		}
		if product.CountInStock < line.Quantity {
			return models.NewBadRequestError("Not enough stock for product", map[string]any{
				"productId":      line.ProductID.Hex(),
				"availableStock": product.CountInStock,
			})
		}
	}
	return nil
}

// DecrementStock retire les quantités dans le scope transactionnel du caller.
// Le décrément reste conditionnel : valider puis décrémenter n'est pas
// race-free entre deux transactions, seulement à l'intérieur d'une même
// transaction. Un stock devenu insuffisant entre-temps fait échouer la ligne
// (et donc la transaction entière).
func (l *InventoryLedger) DecrementStock(ctx context.Context, lines []store.OrderLine) error {
	for _, line := range lines {
		ok, err := l.products.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		// Relecture pour distinguer produit absent et stock insuffisant
		product, err := l.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return models.NewNotFoundError(
				fmt.Sprintf("Product with ID %s not found", line.ProductID.Hex()), nil)
		}
		return models.NewBadRequestError("Not enough stock for product", map[string]any{
			"productId":      line.ProductID.Hex(),
			"availableStock": product.CountInStock,
		})
	}
	return nil
}
