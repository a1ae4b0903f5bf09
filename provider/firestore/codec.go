package firestore

import (
	"strconv"

	"github.com/examvault/go-session"
)

// The REST API wraps every field in a typed value envelope. Only the
// types the profile document uses are modeled here: strings, string
// arrays, and 64-bit integers (which the wire encodes as decimal strings).

type restDocument struct {
	Name   string           `json:"name,omitempty"`
	Fields map[string]value `json:"fields"`
}

type value struct {
	StringValue  *string     `json:"stringValue,omitempty"`
	IntegerValue *string     `json:"integerValue,omitempty"`
	ArrayValue   *arrayValue `json:"arrayValue,omitempty"`
}

type arrayValue struct {
	Values []value `json:"values,omitempty"`
}

func stringVal(s string) value {
	return value{StringValue: &s}
}

func integerVal(n int64) value {
	s := strconv.FormatInt(n, 10)
	return value{IntegerValue: &s}
}

func stringArrayVal(items []string) value {
	values := make([]value, 0, len(items))
	for _, item := range items {
		values = append(values, stringVal(item))
	}
	return value{ArrayValue: &arrayValue{Values: values}}
}

func encodeProfile(doc session.ProfileDocument) map[string]value {
	return map[string]value{
		"email":     stringVal(doc.Email),
		"name":      stringVal(doc.Name),
		"grade":     stringVal(doc.Grade),
		"favorites": stringArrayVal(doc.Favorites),
		"downloads": stringArrayVal(doc.Downloads),
		"createdAt": integerVal(doc.CreatedAt),
	}
}

// decodeProfile tolerates missing or oddly typed fields: absent strings
// decode as empty, absent arrays as empty sets.
func decodeProfile(fields map[string]value) session.ProfileDocument {
	return session.ProfileDocument{
		Email:     decodeString(fields["email"]),
		Name:      decodeString(fields["name"]),
		Grade:     decodeString(fields["grade"]),
		Favorites: decodeStringArray(fields["favorites"]),
		Downloads: decodeStringArray(fields["downloads"]),
		CreatedAt: decodeInteger(fields["createdAt"]),
	}
}

func decodeString(v value) string {
	if v.StringValue == nil {
		return ""
	}
	return *v.StringValue
}

func decodeInteger(v value) int64 {
	if v.IntegerValue == nil {
		return 0
	}
	n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func decodeStringArray(v value) []string {
	out := []string{}
	if v.ArrayValue == nil {
		return out
	}
	for _, item := range v.ArrayValue.Values {
		if item.StringValue != nil {
			out = append(out, *item.StringValue)
		}
	}
	return out
}
