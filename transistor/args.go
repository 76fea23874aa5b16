package transistor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

// Args holds request arguments in insertion order. The zero value is ready to use.
type Args struct {
	keys   []string
	values map[string]any
}

// NewArgs builds Args from alternating keys and values.
// A trailing key without a value is stored as nil.
func NewArgs(kv ...any) *Args {
	a := &Args{}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		var value any
		if i+1 < len(kv) {
			value = kv[i+1]
		}
		a.Set(key, value)
	}
	return a
}

// ArgsFromMap copies m into Args ordered by key.
func ArgsFromMap(m map[string]any) *Args {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	a := &Args{}
	for _, k := range keys {
		a.Set(k, m[k])
	}
	return a
}

// StructArgs converts a struct with `url` tags into Args ordered by key.
// Multi-valued fields become string slices.
func StructArgs(v any) (*Args, error) {
	values, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	a := &Args{}
	for _, k := range keys {
		if vs := values[k]; len(vs) == 1 {
			a.Set(k, vs[0])
		} else {
			a.Set(k, vs)
		}
	}
	return a, nil
}

// Set stores value under key. Re-setting a key keeps its original position.
func (a *Args) Set(key string, value any) *Args {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
	return a
}

// Get returns the value stored under key.
func (a *Args) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[key]
	return v, ok
}

// Len returns the number of arguments. A nil *Args is empty.
func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns the argument names in insertion order.
func (a *Args) Keys() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// clone copies the arguments. Nested Args are copied too; other values are shared.
func (a *Args) clone() *Args {
	if a == nil {
		return nil
	}
	c := &Args{
		keys:   slices.Clone(a.keys),
		values: make(map[string]any, len(a.values)),
	}
	for k, v := range a.values {
		switch v := v.(type) {
		case *Args:
			c.values[k] = v.clone()
		case Args:
			c.values[k] = *v.clone()
		default:
			c.values[k] = v
		}
	}
	return c
}

// Encode serializes the arguments as a form-encoded query string.
// Nested maps become key[sub]=v, slices key[0]=v, booleans 1 or 0. Nil values are skipped.
func (a *Args) Encode() string {
	if a.Len() == 0 {
		return ""
	}

	var pairs []string
	for _, k := range a.keys {
		pairs = appendPairs(pairs, k, a.values[k])
	}
	return strings.Join(pairs, "&")
}

// MarshalJSON encodes the arguments as a JSON object keeping insertion order.
// Both Args and *Args values nested inside arguments encode this way.
func (a Args) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func appendPairs(pairs []string, key string, value any) []string {
	switch v := value.(type) {
	case nil:
		return pairs
	case *Args:
		if v == nil {
			return pairs
		}
		for _, k := range v.keys {
			pairs = appendPairs(pairs, key+"["+k+"]", v.values[k])
		}
		return pairs
	case Args:
		return appendPairs(pairs, key, &v)
	case string:
		return append(pairs, escapePair(key, v))
	case []byte:
		return append(pairs, escapePair(key, string(v)))
	case bool:
		if v {
			return append(pairs, escapePair(key, "1"))
		}
		return append(pairs, escapePair(key, "0"))
	case json.Number:
		return append(pairs, escapePair(key, v.String()))
	case fmt.Stringer:
		return append(pairs, escapePair(key, v.String()))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return pairs
		}
		return appendPairs(pairs, key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			pairs = appendPairs(pairs, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
		return pairs
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byName := make(map[string]reflect.Value, rv.Len())
		for _, mk := range rv.MapKeys() {
			name := fmt.Sprint(mk.Interface())
			keys = append(keys, name)
			byName[name] = rv.MapIndex(mk)
		}
		sort.Strings(keys)
		for _, name := range keys {
			pairs = appendPairs(pairs, key+"["+name+"]", byName[name].Interface())
		}
		return pairs
	case reflect.Float32:
		return append(pairs, escapePair(key, strconv.FormatFloat(rv.Float(), 'f', -1, 32)))
	case reflect.Float64:
		return append(pairs, escapePair(key, strconv.FormatFloat(rv.Float(), 'f', -1, 64)))
	default:
		return append(pairs, escapePair(key, fmt.Sprint(value)))
	}
}

func escapePair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
