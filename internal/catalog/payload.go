package catalog

import (
	"encoding/json"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"storefront-api/internal/identifier"
)

// decodePayload convierte un objeto JSON en dest. Un objeto vacío es
// ErrEmptyPayload.
func decodePayload(fields bson.M, dest interface{}) error {
	if len(fields) == 0 {
		return ErrEmptyPayload
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// integerFields se guardan como enteros BSON. JSON decodifica todo número como
// float64, así que los valores enteros se convierten antes de llegar al store.
var integerFields = map[string]bool{
	"stock":    true,
	"quantity": true,
	"reviews":  true,
}

// updateFields quita ambos campos de id de una actualización parcial. Lo que
// queda no puede estar vacío.
func updateFields(fields bson.M) (bson.M, error) {
	out := make(bson.M, len(fields))
	for k, v := range fields {
		if k == identifier.NativeField || k == identifier.ApplicationField {
			continue
		}
		if integerFields[k] {
			v = normalizeNumber(v)
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil, ErrEmptyPayload
	}
	return out, nil
}

// checkFields decodifica una actualización parcial en dest, un modelo tipado,
// para rechazar antes de escribir un valor que el store no podría leer.
func checkFields(set bson.M, dest interface{}) error {
	return decodePayload(set, dest)
}

func normalizeNumber(v interface{}) interface{} {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return v
	}
	return int64(f)
}

// intField lee un número entero de un objeto JSON.
func intField(fields bson.M, key string) (int, bool, error) {
	v, ok := fields[key]
	if !ok {
		return 0, false, nil
	}
	switch n := normalizeNumber(v).(type) {
	case int64:
		return int(n), true, nil
	case int:
		return n, true, nil
	case int32:
		return int(n), true, nil
	default:
		return 0, true, fmt.Errorf("%w: %s must be an integer", ErrInvalidPayload, key)
	}
}
