package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"cfb_analytics/cfbsync/internal/models"
)

// convert turns a decoded JSON value into a driver value for a column kind.
// Values that do not fit the kind are passed through for the database to coerce.
func convert(value interface{}, kind models.Kind) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	switch kind {
	case models.KindInteger:
		return toInteger(value), nil
	case models.KindFloat:
		return toFloat(value), nil
	case models.KindText:
		return toText(value)
	case models.KindBool:
		return value, nil
	case models.KindJSON:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json value: %w", err)
		}
		return string(b), nil
	default:
		return value, nil
	}
}

func toInteger(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return wholeOrFloat(f)
		}
	case float64:
		return wholeOrFloat(v)
	case int:
		return int64(v)
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return value
}

func wholeOrFloat(f float64) interface{} {
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return int64(f)
	}
	return f
}

func toFloat(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return value
}

func toText(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json value: %w", err)
		}
		return string(b), nil
	default:
		return fmt.Sprint(v), nil
	}
}
