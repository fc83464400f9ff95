package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
)

// OrderLine est une ligne {produit, quantité} telle que reçue à la création
// ou à la mise à jour d'une commande.
type OrderLine struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// UnitOfWork délimite la frontière atomique d'une commande : tout ce qui est
// écrit via le contexte passé à fn est committé ou annulé d'un bloc.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Les stores renvoient (nil, nil) quand le document n'existe pas ;
// la traduction en erreur 404 appartient aux services.

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)

	// DecrementStock retire quantity du stock à condition qu'il reste
	// suffisant. Renvoie false (sans erreur) si le stock est insuffisant ou
	// le produit absent : le compteur ne passe jamais sous zéro.
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error)
}

type OrderItemStore interface {
	Insert(ctx context.Context, item models.OrderItem) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.OrderItem, error)
	Delete(ctx context.Context, ids []primitive.ObjectID) error
}

// OrderFilter porte les filtres de GET /orders (statut et/ou utilisateur).
type OrderFilter struct {
	Status string
	UserID *primitive.ObjectID
}

type OrderStore interface {
	Insert(ctx context.Context, order models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Replace(ctx context.Context, order models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter OrderFilter, page, limit int64) ([]models.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// SumTotalPrice agrège totalPrice sur toutes les commandes ; 0 si aucune.
	SumTotalPrice(ctx context.Context) (float64, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
