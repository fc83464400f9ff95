package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusPending est le seul statut posé par le backend à la création.
// Les transitions suivantes arrivent uniquement via PUT /orders/:id.
const StatusPending = "Pending"

type Order struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderItemIDs     []primitive.ObjectID `bson:"orderItems" json:"orderItems"`
	ShippingAddress1 string               `bson:"shippingAddress1" json:"shippingAddress1"`
	ShippingAddress2 string               `bson:"shippingAddress2,omitempty" json:"shippingAddress2,omitempty"`
	City             string               `bson:"city" json:"city"`
	Zip              string               `bson:"zip" json:"zip"`
	Country          string               `bson:"country" json:"country"`
	Phone            string               `bson:"phone" json:"phone"`
	Status           string               `bson:"status" json:"status"`
	TotalPrice       float64              `bson:"totalPrice" json:"totalPrice"`
	UserID           primitive.ObjectID   `bson:"user" json:"user"`
	DateOrdered      time.Time            `bson:"dateOrdered" json:"dateOrdered"`
}

// OrderItem appartient à exactement une commande, jamais partagé.
type OrderItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// OrderItemDetail est l'order item « populé » pour les réponses API.
type OrderItemDetail struct {
	ID       primitive.ObjectID `json:"id"`
	Product  ProductSummary     `json:"product"`
	Quantity int                `json:"quantity"`
}

// OrderDetail est la commande dénormalisée renvoyée par l'API :
// items résolus en nom/prix produit, utilisateur résolu.
type OrderDetail struct {
	ID               primitive.ObjectID `json:"id"`
	OrderItems       []OrderItemDetail  `json:"orderItems"`
	ShippingAddress1 string             `json:"shippingAddress1"`
	ShippingAddress2 string             `json:"shippingAddress2,omitempty"`
	City             string             `json:"city"`
	Zip              string             `json:"zip"`
	Country          string             `json:"country"`
	Phone            string             `json:"phone"`
	Status           string             `json:"status"`
	TotalPrice       float64            `json:"totalPrice"`
	User             *User              `json:"user,omitempty"`
	DateOrdered      time.Time          `json:"dateOrdered"`
}
