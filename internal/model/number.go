package model

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Number is a numeric field of the movies collection.
// Some documents store these fields as strings ("", "7.1", "2007è"): the leading
// number is kept and anything unparsable decodes to 0.
type Number float64

// UnmarshalBSONValue implements bson.ValueUnmarshaler
func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Double:
		*n = Number(raw.Double())
	case bsontype.Int32:
		*n = Number(raw.Int32())
	case bsontype.Int64:
		*n = Number(raw.Int64())
	case bsontype.Decimal128:
		f, err := strconv.ParseFloat(raw.Decimal128().String(), 64)
		if err != nil {
			return fmt.Errorf("cannot decode decimal %s: %w", raw.Decimal128(), err)
		}
		*n = Number(f)
	case bsontype.String:
		*n = ParseNumber(raw.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*n = 0
	default:
		return fmt.Errorf("cannot decode %s into a number", t)
	}
	return nil
}

// ParseNumber returns the number a string starts with, ignoring thousands separators
func ParseNumber(s string) Number {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || (end == 0 && s[end] == '-')) {
		end++
	}
	for end > 0 {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return Number(f)
		}
		end--
	}
	return 0
}
