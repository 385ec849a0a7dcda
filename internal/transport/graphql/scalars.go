package graphql

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UUID scalar
func marshalUUID(v uuid.UUID) graphql.Marshaler {
	return graphql.MarshalString(v.String())
}

func unmarshalUUID(v any) (uuid.UUID, error) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("UUID must be a string, got %T", v)
	}
	return uuid.Parse(s)
}

// DateTime scalar
func marshalDateTime(v time.Time) graphql.Marshaler {
	return graphql.MarshalString(v.UTC().Format(time.RFC3339))
}

func marshalOptDateTime(v *time.Time) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return marshalDateTime(*v)
}

// Date scalar
func marshalDate(v time.Time) graphql.Marshaler {
	return graphql.MarshalString(v.Format(time.DateOnly))
}

func marshalOptDate(v *time.Time) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return marshalDate(*v)
}

// Decimal scalar, serialized as a string to keep the stored precision.
func marshalDecimal(v decimal.Decimal) graphql.Marshaler {
	return graphql.MarshalString(v.String())
}

func marshalOptDecimal(v *decimal.Decimal) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return marshalDecimal(*v)
}

// marshalOptString maps the empty string of optional code fields to null.
func marshalOptString(v string) graphql.Marshaler {
	if v == "" {
		return graphql.Null
	}
	return graphql.MarshalString(v)
}

func marshalOptBool(v *bool) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return graphql.MarshalBoolean(*v)
}

func unmarshalInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("Int must be a number, got %T", v)
	}
}
