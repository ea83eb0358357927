/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graphql

import (
	sferrors "github.com/suparena/storefront/errors"
)

// GraphQL error extension codes drawn from the storefront error taxonomy.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL"
)

// resolverError is a field-scoped error carrying an extensions code. It
// satisfies gqlerrors.ExtendedError, so the code survives into the
// response's errors[].extensions.
type resolverError struct {
	message string
	code    string
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// codeFor maps a storefront error to its extension code.
func codeFor(err error) string {
	switch {
	case sferrors.IsNotFound(err):
		return CodeNotFound
	case sferrors.IsConflict(err):
		return CodeConflict
	case sferrors.IsInvalidArgument(err):
		return CodeInvalidArgument
	case sferrors.IsStoreUnavailable(err):
		return CodeStoreUnavailable
	case sferrors.IsUnauthorized(err):
		return CodeUnauthorized
	}
	return CodeInternal
}

// asFieldError converts a repository error into a field-scoped GraphQL
// error. Taxonomy errors keep their message (the StoreUnavailable message is
// already scrubbed of its cause); anything else is reported as a generic
// internal error so store internals never reach the client.
func asFieldError(err error) error {
	code := codeFor(err)
	if code == CodeInternal {
		return &resolverError{message: "internal error", code: code}
	}
	return &resolverError{message: err.Error(), code: code}
}

// invalidArgument builds a field-scoped INVALID_ARGUMENT error directly.
func invalidArgument(message string) error {
	return &resolverError{message: message, code: CodeInvalidArgument}
}
