package getresponse

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Params is a free-form set of query parameters.
//
// Nested maps are sent with bracket keys, so
// Params{"query": map[string]any{"name": "XYZ"}} becomes query[name]=XYZ and
// Params{"sort": map[string]string{"createdOn": "desc"}} becomes
// sort[createdOn]=desc. String slices are comma-joined (fields=name,email).
type Params map[string]any

func (p Params) clone() Params {
	out := make(Params, len(p)+2)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Values encodes the params as URL query values.
func (p Params) Values() url.Values {
	values := url.Values{}
	for k, v := range p {
		encodeParam(values, k, v)
	}
	return values
}

func encodeParam(values url.Values, key string, v any) {
	switch val := v.(type) {
	case nil:
	case map[string]any:
		for k, sub := range val {
			encodeParam(values, key+"["+k+"]", sub)
		}
	case map[string]string:
		for k, sub := range val {
			values.Set(key+"["+k+"]", sub)
		}
	case Params:
		encodeParam(values, key, map[string]any(val))
	case []string:
		values.Set(key, strings.Join(val, ","))
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatScalar(item))
		}
		values.Set(key, strings.Join(parts, ","))
	default:
		values.Set(key, formatScalar(val))
	}
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

// toInt normalizes a page or perPage value found in Params.
func toInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case uint:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%v is not an integer", val)
		}
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
