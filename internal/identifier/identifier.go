// Package identifier resuelve los identificadores que llegan en el path.
//
// Los documentos se identifican por el ObjectID nativo del store (24
// caracteres hex, en "_id") o por un string asignado por la aplicación en el
// campo "id". Parse decide una sola vez a qué esquema pertenece un string y
// cada llamada al store reutiliza esa decisión.
package identifier

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind indica qué esquema usa un ID.
type Kind int

const (
	// Application son strings arbitrarios guardados en el campo "id".
	Application Kind = iota
	// Native son ObjectIDs guardados en "_id".
	Native
)

func (k Kind) String() string {
	if k == Native {
		return "native"
	}
	return "application"
}

// Nombres de campo de cada esquema.
const (
	NativeField      = "_id"
	ApplicationField = "id"
)

var nativePattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ID es un ObjectID nativo o un string de aplicación.
type ID struct {
	kind   Kind
	raw    string
	native primitive.ObjectID
}

// Parse clasifica raw. Nunca falla: lo que no sea exactamente 24 dígitos hex
// es un id de aplicación.
func Parse(raw string) ID {
	if nativePattern.MatchString(raw) {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err == nil {
			return ID{kind: Native, raw: raw, native: oid}
		}
	}
	return ID{kind: Application, raw: raw}
}

// FromObjectID envuelve un ObjectID asignado por el store.
func FromObjectID(oid primitive.ObjectID) ID {
	return ID{kind: Native, raw: oid.Hex(), native: oid}
}

func (id ID) Kind() Kind { return id.kind }

func (id ID) IsNative() bool { return id.kind == Native }

// ObjectID retorna el id nativo, si lo hay.
func (id ID) ObjectID() (primitive.ObjectID, bool) {
	return id.native, id.kind == Native
}

// String retorna el identificador tal como llegó.
func (id ID) String() string { return id.raw }

// Filter arma el filtro de búsqueda para este id.
func (id ID) Filter() bson.M {
	if id.kind == Native {
		return bson.M{NativeField: id.native}
	}
	return bson.M{ApplicationField: id.raw}
}
