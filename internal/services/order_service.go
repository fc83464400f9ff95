package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/store"
)

// CreateOrderInput est la requête de création déjà validée à la frontière
// HTTP : le service ne revoit jamais un body brut.
type CreateOrderInput struct {
	Items            []store.OrderLine
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
}

// UpdateOrderInput est un patch partiel ; les champs nil sont inchangés.
// Items non-nil déclenche le remplacement complet des lignes.
type UpdateOrderInput struct {
	Items            []store.OrderLine
	Status           *string
	ShippingAddress1 *string
	ShippingAddress2 *string
	City             *string
	Zip              *string
	Country          *string
	Phone            *string
}

// OrderService orchestre la création/mutation/suppression de commandes dans
// une unité de travail unique : validation de stock, création des items,
// calcul du total, persistance de la commande, décrément du stock — tout
// committe ou tout s'annule.
type OrderService struct {
	uow     store.UnitOfWork
	orders  store.OrderStore
	users   store.UserStore
	ledger  *InventoryLedger
	items   *OrderItemService
	pricing *PricingCalculator
}

func NewOrderService(
	uow store.UnitOfWork,
	orders store.OrderStore,
	users store.UserStore,
	ledger *InventoryLedger,
	items *OrderItemService,
	pricing *PricingCalculator,
) *OrderService {
	return &OrderService{
		uow:     uow,
		orders:  orders,
		users:   users,
		ledger:  ledger,
		items:   items,
		pricing: pricing,
	}
}

// CreateOrder exécute le workflow complet dans une seule transaction.
// Tout échec entre la validation et le décrément annule l'ensemble des
// écritures : pas de commande partielle, pas d'items orphelins, pas de
// décrément partiel observable.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput, userID primitive.ObjectID) (*models.OrderDetail, error) {
	var created models.Order

	err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.ledger.ValidateStock(ctx, input.Items); err != nil {
			return err
		}

		itemIDs, err := s.items.CreateItems(ctx, input.Items)
		if err != nil {
			return err
		}

		totalPrice, err := s.pricing.ComputeTotal(ctx, itemIDs)
		if err != nil {
			return err
		}

		order := models.Order{
			ID:               primitive.NewObjectID(),
			OrderItemIDs:     itemIDs,
			ShippingAddress1: input.ShippingAddress1,
			ShippingAddress2: input.ShippingAddress2,
			City:             input.City,
			Zip:              input.Zip,
			Country:          input.Country,
			Phone:            input.Phone,
			Status:           models.StatusPending,
			TotalPrice:       totalPrice,
			UserID:           userID,
			DateOrdered:      time.Now(),
		}
		if err := s.orders.Insert(ctx, order); err != nil {
			return err
		}

		if err := s.ledger.DecrementStock(ctx, input.Items); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, asAPIError(err, "Failed to create order")
	}

	return s.populateOrder(ctx, created)
}

// UpdateOrder applique un patch partiel dans le même protocole
// transactionnel. Un remplacement d'items re-valide et re-décrémente le stock
// pour les nouvelles lignes ; le stock des anciennes lignes n'est PAS
// restauré (comportement historique conservé). Les anciens
// documents items, possédés exclusivement par la commande, sont supprimés et
// le total recalculé depuis les nouvelles lignes.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID primitive.ObjectID, input UpdateOrderInput) (*models.OrderDetail, error) {
	var updated models.Order

	err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return models.NewNotFoundError(
				fmt.Sprintf("Order with ID %s not found", orderID.Hex()), nil)
		}

		if input.Items != nil {
			if err := s.ledger.ValidateStock(ctx, input.Items); err != nil {
				return err
			}

			newItemIDs, err := s.items.CreateItems(ctx, input.Items)
			if err != nil {
				return err
			}

			totalPrice, err := s.pricing.ComputeTotal(ctx, newItemIDs)
			if err != nil {
				return err
			}

			replacedIDs := order.OrderItemIDs
			order.OrderItemIDs = newItemIDs
			order.TotalPrice = totalPrice

			if err := s.items.DeleteItems(ctx, replacedIDs); err != nil {
				return err
			}
			if err := s.ledger.DecrementStock(ctx, input.Items); err != nil {
				return err
			}
		}

		applyOrderPatch(order, input)

		if err := s.orders.Replace(ctx, *order); err != nil {
			return err
		}
		updated = *order
		return nil
	})
	if err != nil {
		return nil, asAPIError(err, fmt.Sprintf("Failed to update order with ID %s", orderID.Hex()))
	}

	return s.populateOrder(ctx, updated)
}

// DeleteOrder supprime la commande et ses order items dans une même unité de
// travail. Le stock des produits n'est pas restauré.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID primitive.ObjectID) error {
	err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return models.NewNotFoundError(
				fmt.Sprintf("Order with ID %s not found", orderID.Hex()), nil)
		}

		if err := s.items.DeleteItems(ctx, order.OrderItemIDs); err != nil {
			return err
		}
		return s.orders.Delete(ctx, orderID)
	})
	if err != nil {
		return asAPIError(err, fmt.Sprintf("Failed to delete order with ID %s", orderID.Hex()))
	}
	return nil
}

// GetOrders — lecture simple paginée, items et utilisateur résolus.
func (s *OrderService) GetOrders(ctx context.Context, filter store.OrderFilter, page, limit int64) ([]models.OrderDetail, int64, error) {
	orders, err := s.orders.Find(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, asAPIError(err, "Failed to fetch orders")
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, 0, asAPIError(err, "Failed to count orders")
	}

	details := make([]models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail, err := s.populateOrder(ctx, order)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *detail)
	}
	return details, total, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID primitive.ObjectID) (*models.OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, asAPIError(err, fmt.Sprintf("Failed to fetch order with ID %s", orderID.Hex()))
	}
	if order == nil {
		return nil, models.NewNotFoundError(
			fmt.Sprintf("Order with ID %s was not found", orderID.Hex()),
			map[string]any{"orderId": orderID.Hex()})
	}
	return s.populateOrder(ctx, *order)
}

// CalculateTotalSales agrège totalPrice sur toutes les commandes.
// Zéro commande → 0, jamais une erreur.
func (s *OrderService) CalculateTotalSales(ctx context.Context) (float64, error) {
	total, err := s.orders.SumTotalPrice(ctx)
	if err != nil {
		return 0, asAPIError(err, "Failed to calculate total sales")
	}
	return total, nil
}

// populateOrder dénormalise une commande pour la réponse API : chaque item
// résolu en {produit: id/nom/prix, quantité}, utilisateur résolu si présent
// (référence potentiellement orpheline après suppression du compte).
func (s *OrderService) populateOrder(ctx context.Context, order models.Order) (*models.OrderDetail, error) {
	detail := &models.OrderDetail{
		ID:               order.ID,
		OrderItems:       make([]models.OrderItemDetail, 0, len(order.OrderItemIDs)),
		ShippingAddress1: order.ShippingAddress1,
		ShippingAddress2: order.ShippingAddress2,
		City:             order.City,
		Zip:              order.Zip,
		Country:          order.Country,
		Phone:            order.Phone,
		Status:           order.Status,
		TotalPrice:       order.TotalPrice,
		DateOrdered:      order.DateOrdered,
	}

	for _, itemID := range order.OrderItemIDs {
		item, err := s.items.items.FindByID(ctx, itemID)
		if err != nil {
			return nil, asAPIError(err, "Failed to resolve order items")
		}
		if item == nil {
			continue
		}
		itemDetail := models.OrderItemDetail{ID: item.ID, Quantity: item.Quantity}

		product, err := s.pricing.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, asAPIError(err, "Failed to resolve order item product")
		}
		if product != nil {
			itemDetail.Product = models.ProductSummary{
				ID:    product.ID,
				Name:  product.Name,
				Price: product.Price,
			}
		} else {
			itemDetail.Product = models.ProductSummary{ID: item.ProductID}
		}
		detail.OrderItems = append(detail.OrderItems, itemDetail)
	}

	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return nil, asAPIError(err, "Failed to resolve order user")
	}
	detail.User = user

	return detail, nil
}

func applyOrderPatch(order *models.Order, input UpdateOrderInput) {
	if input.Status != nil {
		order.Status = *input.Status
	}
	if input.ShippingAddress1 != nil {
		order.ShippingAddress1 = *input.ShippingAddress1
	}
	if input.ShippingAddress2 != nil {
		order.ShippingAddress2 = *input.ShippingAddress2
	}
	if input.City != nil {
		order.City = *input.City
	}
	if input.Zip != nil {
		order.Zip = *input.Zip
	}
	if input.Country != nil {
		order.Country = *input.Country
	}
	if input.Phone != nil {
		order.Phone = *input.Phone
	}
}

// asAPIError préserve le statut des erreurs métier (404/400) et enveloppe
// tout le reste — erreurs store, abort de transaction — en 500 avec un
// identifiant généré. Le client ne voit jamais une commande à moitié écrite.
func asAPIError(err error, message string) error {
	var apiErr *models.ErrorResponse
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return models.NewInternalError(message, err.Error())
}
