package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Address2     string             `bson:"address2,omitempty" json:"address2,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	Zip          string             `bson:"zip,omitempty" json:"zip,omitempty"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	Phone        string             `bson:"phone" json:"phone"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
