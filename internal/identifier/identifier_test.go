package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParse(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name string
		raw  string
		kind Kind
	}{
		{"object id lowercase", oid.Hex(), Native},
		{"object id uppercase", "507F1F77BCF86CD799439011", Native},
		{"application id", "prod-123", Application},
		{"frontend cart id", "cart-1718000000000", Application},
		{"23 hex chars", "507f1f77bcf86cd79943901", Application},
		{"25 hex chars", "507f1f77bcf86cd7994390111", Application},
		{"24 chars not hex", "507f1f77bcf86cd79943901z", Application},
		{"empty", "", Application},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Parse(tt.raw)
			assert.Equal(t, tt.kind, id.Kind())
			assert.Equal(t, tt.raw, id.String())
		})
	}
}

func TestFilter_Native(t *testing.T) {
	oid := primitive.NewObjectID()

	id := Parse(oid.Hex())

	got, ok := id.ObjectID()
	require.True(t, ok)
	assert.Equal(t, oid, got)
	assert.Equal(t, bson.M{"_id": oid}, id.Filter())
}

// El filtro de respaldo debe apuntar al campo "id" con el string crudo; un
// filtro de string sobre "_id" nunca coincide con ids de aplicación.
func TestFilter_ApplicationUsesIDField(t *testing.T) {
	id := Parse("prod-123")

	_, ok := id.ObjectID()
	assert.False(t, ok)
	assert.Equal(t, bson.M{"id": "prod-123"}, id.Filter())
	assert.NotContains(t, id.Filter(), "_id")
}

func TestFromObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	id := FromObjectID(oid)

	assert.True(t, id.IsNative())
	assert.Equal(t, oid.Hex(), id.String())
	assert.Equal(t, Parse(oid.Hex()), id)
}
