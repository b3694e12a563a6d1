package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Item es una línea del carrito o de la lista de deseos. ProductID es una
// referencia débil a un Product: nada impide que quede colgando al borrar el
// producto. Quantity solo aplica al carrito.
type Item struct {
	ObjectID  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID        string             `json:"id,omitempty" bson:"id,omitempty"`
	ProductID string             `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity,omitempty" bson:"quantity,omitempty"`
}

// InsertResult refleja el resumen de inserción que se retorna al cliente.
type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

// User es un registro de cliente. El admin escribe lo que recolecta, así que
// solo los campos comunes tienen tipo.
type User struct {
	ObjectID primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID       string             `json:"id,omitempty" bson:"id,omitempty"`
	Name     string             `json:"name,omitempty" bson:"name,omitempty"`
	Email    string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone    string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role     string             `json:"role,omitempty" bson:"role,omitempty"`
}
