package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
)

// loadValue narrows a scanned value to string, int64 or nil.
func loadValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int:
		return int64(x), nil
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int64(x), nil
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return loadValue(float64(x))
	case fmt.Stringer:
		return x.String(), nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// storeValue converts a record value to the column's storage type.
func storeValue(col datasets.Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch col.Type {
	case datasets.Integer:
		switch x := v.(type) {
		case int64:
			return x, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q is not an integer", x)
			}
			return n, nil
		}
	case datasets.Text:
		switch x := v.(type) {
		case string:
			return x, nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		}
	default:
		return nil, fmt.Errorf("unknown column type %q", col.Type)
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}
