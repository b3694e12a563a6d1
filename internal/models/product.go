package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-api/internal/identifier"
)

// Categorías disponibles en el admin de la tienda.
var Categories = []string{
	"printers",
	"computers",
	"laptops",
	"monitors",
	"accessories",
	"storage",
	"toners",
}

// IsKnownCategory indica si c es una de Categories.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// CreatedAtLayout es el formato de fecha que el admin escribe en createdAt.
const CreatedAtLayout = "2006-01-02"

// Spec es una fila etiqueta/valor de la ficha técnica de un producto.
type Spec struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// Product es un producto del catálogo. Lleva el ObjectID nativo y,
// opcionalmente, un id asignado por la aplicación.
type Product struct {
	ObjectID      primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID            string             `json:"id,omitempty" bson:"id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Price         float64            `json:"price" bson:"price"`
	OriginalPrice *float64           `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	Category      string             `json:"category" bson:"category"`
	Stock         int                `json:"stock" bson:"stock"`
	Images        []string           `json:"images" bson:"images"`
	Specs         []Spec             `json:"specs" bson:"specs"`
	Featured      bool               `json:"featured" bson:"featured"`
	Rating        float64            `json:"rating" bson:"rating"`
	Reviews       int                `json:"reviews" bson:"reviews"`
	CreatedAt     string             `json:"createdAt" bson:"createdAt"`
}

// ApplyDefaults completa los valores por defecto de un producto nuevo.
func (p *Product) ApplyDefaults(now time.Time) {
	if p.CreatedAt == "" {
		p.CreatedAt = now.UTC().Format(CreatedAtLayout)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Specs == nil {
		p.Specs = []Spec{}
	}
}

// Keys retorna cada string con que un documento dependiente puede referenciar
// a p: el id nativo en hex y el id de aplicación si lo tiene.
func (p *Product) Keys() []string {
	keys := make([]string, 0, 2)
	if !p.ObjectID.IsZero() {
		keys = append(keys, p.ObjectID.Hex())
	}
	if p.ID != "" {
		keys = append(keys, p.ID)
	}
	return keys
}

// Identifier retorna el id más adecuado para identificar el producto.
func (p *Product) Identifier() identifier.ID {
	if p.ID != "" {
		return identifier.Parse(p.ID)
	}
	return identifier.FromObjectID(p.ObjectID)
}
