/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"
	"reflect"
	"time"

	"github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/storagemodels"
)

const (
	idField        = "ID"
	createdAtField = "CreatedAt"
	updatedAtField = "UpdatedAt"
)

// EntityID reads the identity field of an entity struct or pointer.
func EntityID(entity any) (string, bool) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", false
	}
	fv := v.FieldByName(idField)
	if !fv.IsValid() || fv.Kind() != reflect.String {
		return "", false
	}
	return fv.String(), true
}

// SetEntityID writes the identity field. The entity must be addressable
// (a pointer to a struct).
func SetEntityID(entity any, id string) error {
	fv, err := settableField(entity, idField)
	if err != nil {
		return err
	}
	if fv.Kind() != reflect.String {
		return fmt.Errorf("identity field %s is not a string", idField)
	}
	fv.SetString(id)
	return nil
}

// StampCreated sets both audit timestamps on a freshly created entity.
func StampCreated(entity any, now time.Time) {
	setTimeField(entity, createdAtField, now)
	setTimeField(entity, updatedAtField, now)
}

// TouchUpdated bumps the last-updated timestamp.
func TouchUpdated(entity any, now time.Time) {
	setTimeField(entity, updatedAtField, now)
}

func setTimeField(entity any, field string, now time.Time) {
	fv, err := settableField(entity, field)
	if err != nil {
		return
	}
	nv := reflect.ValueOf(now)
	ft := fv.Type()
	if ft.Kind() == reflect.Pointer {
		if !nv.Type().ConvertibleTo(ft.Elem()) {
			return
		}
		p := reflect.New(ft.Elem())
		p.Elem().Set(nv.Convert(ft.Elem()))
		fv.Set(p)
		return
	}
	if nv.Type().ConvertibleTo(ft) {
		fv.Set(nv.Convert(ft))
	}
}

// SetField writes a named field, converting the value to the field type
// where possible. Used by Update to apply allow-listed changes.
func SetField(entity any, field string, value any) error {
	fv, err := settableField(entity, field)
	if err != nil {
		return err
	}
	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	vv := reflect.ValueOf(value)
	if vv.Type().AssignableTo(fv.Type()) {
		fv.Set(vv)
		return nil
	}
	if vv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(vv.Convert(fv.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to field %s (%s)", value, field, fv.Type())
}

func settableField(entity any, field string) (reflect.Value, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("entity must be a non-nil pointer")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("entity must point to a struct")
	}
	fv := v.FieldByName(field)
	if !fv.IsValid() {
		return reflect.Value{}, fmt.Errorf("entity has no field %s", field)
	}
	if !fv.CanSet() {
		return reflect.Value{}, fmt.Errorf("field %s is not settable", field)
	}
	return fv, nil
}

// ValidatePage checks the window request shared by every paged operation.
func ValidatePage(page storagemodels.PageRequest) error {
	if page.PageSize <= 0 {
		return errors.NewInvalidArgumentError("pageSize", "must be positive")
	}
	if page.PageIndex < 0 {
		return errors.NewInvalidArgumentError("pageIndex", "must not be negative")
	}
	return nil
}

// Window slices one page out of an already filtered and ordered result
// set. A window past the end is empty, never an error.
func Window[T any](items []T, page storagemodels.PageRequest) []T {
	start := page.PageIndex * page.PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
