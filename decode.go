package jsonpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentable/jsonpath/object"
)

// DecodeJSON decodes src into a value tree suitable for [Path.Select]: JSON
// objects become *object.Object, preserving the document's member order as
// RFC 9535's child-visiting-order invariant requires (a plain
// map[string]any, as produced by encoding/json or go-json-experiment/json,
// cannot make that guarantee); JSON arrays become []any; and JSON numbers
// with no fractional part or exponent decode as int64 rather than float64,
// so integer-valued members survive round-tripping through comparisons
// without losing precision above 2^53.
func DecodeJSON(src []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("jsonpath: unexpected delimiter %q", t)
		}
	case json.Number:
		return decodeNumber(t)
	case string, bool, nil:
		return t, nil
	default:
		return nil, fmt.Errorf("jsonpath: unexpected token %v", tok)
	}
}

// decodeNumber parses n as int64 when it has no fractional part or
// exponent and fits in 64 bits, falling back to float64 otherwise.
func decodeNumber(n json.Number) (any, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	return n.Float64()
}

// decodeObject reads object members until the matching '}', which the
// json.Decoder.Token()-loop idiom requires consuming explicitly.
func decodeObject(dec *json.Decoder) (any, error) {
	obj := object.New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (any, error) {
	arr := make([]any, 0)
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, err
	}
	return arr, nil
}
