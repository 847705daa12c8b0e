// Package query turns product listing query strings into domain filters.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/phenrril/elegante/internal/domain"
)

// Error reports a query parameter that could not be interpreted.
type Error struct {
	Param  string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid query parameter %s=%q: %s", e.Param, e.Value, e.Reason)
}

func (e *Error) StatusCode() int { return 400 }

// Translator converts url.Values into a domain.ProductFilter.
//
// In strict mode malformed values are rejected. In permissive mode a flag is
// true only for the literal "true", numbers are read with leading-integer
// semantics and values that are not numbers are dropped.
type Translator struct {
	Strict bool
}

var flagKeys = []struct {
	key string
	set func(*domain.ProductFilter, *bool)
}{
	{"featured", func(f *domain.ProductFilter, b *bool) { f.Featured = b }},
	{"new", func(f *domain.ProductFilter, b *bool) { f.New = b }},
	{"bestseller", func(f *domain.ProductFilter, b *bool) { f.Bestseller = b }},
	{"sale", func(f *domain.ProductFilter, b *bool) { f.OnSale = b }},
}

func (t Translator) ProductFilter(v url.Values) (domain.ProductFilter, error) {
	f := domain.ProductFilter{
		Category:   v.Get("category"),
		Collection: v.Get("collection"),
		Search:     v.Get("search"),
		Types:      multi(v, "type"),
		Colors:     multi(v, "color"),
		Sizes:      multi(v, "size"),
	}

	for _, fk := range flagKeys {
		b, err := t.flag(v, fk.key)
		if err != nil {
			return domain.ProductFilter{}, err
		}
		fk.set(&f, b)
	}

	var err error
	if f.MinPrice, err = t.number(v, "minPrice", true); err != nil {
		return domain.ProductFilter{}, err
	}
	if f.MaxPrice, err = t.number(v, "maxPrice", true); err != nil {
		return domain.ProductFilter{}, err
	}
	if f.Limit, err = t.number(v, "limit", false); err != nil {
		return domain.ProductFilter{}, err
	}
	if f.Offset, err = t.number(v, "offset", false); err != nil {
		return domain.ProductFilter{}, err
	}

	if s := v.Get("sort"); s != "" {
		f.Sort = domain.ProductSort(s)
		if t.Strict && !f.Sort.Valid() {
			return domain.ProductFilter{}, &Error{Param: "sort", Value: s, Reason: "unknown sort order"}
		}
	}
	return f, nil
}

// Limit reads an optional non-negative limit, falling back to def.
func (t Translator) Limit(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := t.parseInt("limit", value, false)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return def, nil
	}
	return *n, nil
}

func (t Translator) flag(v url.Values, key string) (*bool, error) {
	if _, ok := v[key]; !ok {
		return nil, nil
	}
	raw := v.Get(key)
	if !t.Strict {
		b := raw == "true"
		return &b, nil
	}
	switch raw {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	}
	return nil, &Error{Param: key, Value: raw, Reason: "expected true or false"}
}

func (t Translator) number(v url.Values, key string, allowNegative bool) (*int, error) {
	raw := v.Get(key)
	if raw == "" {
		return nil, nil
	}
	return t.parseInt(key, raw, allowNegative)
}

func (t Translator) parseInt(key, raw string, allowNegative bool) (*int, error) {
	if t.Strict {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &Error{Param: key, Value: raw, Reason: "expected an integer"}
		}
		if n < 0 && !allowNegative {
			return nil, &Error{Param: key, Value: raw, Reason: "must not be negative"}
		}
		return &n, nil
	}
	n, ok := leadingInt(raw)
	if !ok || (n < 0 && !allowNegative) {
		return nil, nil
	}
	return &n, nil
}

// leadingInt parses the integer prefix of s after optional whitespace and
// sign, so "12abc" is 12 and "abc" is not a number.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// multi accepts both repeated keys and comma separated values.
func multi(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
