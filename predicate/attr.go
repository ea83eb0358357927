/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Attr extracts a named attribute from an entity struct (or pointer to one)
// and normalizes it for comparison. Pointer fields are dereferenced; nil
// pointers report absence. Numeric kinds normalize to float64 and types
// convertible to time.Time (strfmt.DateTime included) normalize to time.Time.
func Attr(entity any, field string) (any, bool) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Map {
		mv := v.MapIndex(reflect.ValueOf(field))
		if !mv.IsValid() {
			return nil, false
		}
		return normalize(mv)
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	fv := v.FieldByName(field)
	if !fv.IsValid() {
		return nil, false
	}
	return normalize(fv)
}

func normalize(v reflect.Value) (any, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Struct:
		if v.Type().ConvertibleTo(timeType) {
			return v.Convert(timeType).Interface().(time.Time), true
		}
	}
	return v.Interface(), true
}

// equalValues reports whether two normalized values are equal.
func equalValues(a, b any) (bool, bool) {
	na, ok := normalizeAny(a)
	if !ok {
		return false, false
	}
	nb, ok := normalizeAny(b)
	if !ok {
		return false, false
	}

	if ta, ok := na.(time.Time); ok {
		tb, ok := nb.(time.Time)
		return ok && ta.Equal(tb), ok
	}
	return na == nb, true
}

// compareValues orders two normalized values. The second result is false
// when the values are not mutually comparable.
func compareValues(a, b any) (int, bool) {
	na, ok := normalizeAny(a)
	if !ok {
		return 0, false
	}
	nb, ok := normalizeAny(b)
	if !ok {
		return 0, false
	}

	switch ta := na.(type) {
	case float64:
		tb, ok := nb.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case ta < tb:
			return -1, true
		case ta > tb:
			return 1, true
		}
		return 0, true
	case string:
		tb, ok := nb.(string)
		if !ok {
			return 0, false
		}
		switch {
		case ta < tb:
			return -1, true
		case ta > tb:
			return 1, true
		}
		return 0, true
	case time.Time:
		tb, ok := nb.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case ta.Before(tb):
			return -1, true
		case ta.After(tb):
			return 1, true
		}
		return 0, true
	case bool:
		tb, ok := nb.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case !ta && tb:
			return -1, true
		case ta && !tb:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func normalizeAny(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	return normalize(reflect.ValueOf(v))
}
