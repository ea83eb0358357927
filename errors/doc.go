/*
Package errors provides semantic error types for the Storefront library.

The package defines the error taxonomy shared by the repository layer and
the query gateway. Each kind has a sentinel, a typed error that matches the
sentinel through errors.Is(), a constructor, and a helper predicate.

Common Errors:

	var (
	    ErrNotFound         = errors.New("entity not found")
	    ErrConflict         = errors.New("entity already exists")
	    ErrInvalidArgument  = errors.New("invalid argument")
	    ErrStoreUnavailable = errors.New("store unavailable")
	    ErrUnauthorized     = errors.New("unauthorized")
	)

Usage:

	// Check error type
	customer, err := repo.GetByID(ctx, "123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return nil, fmt.Errorf("customer %s does not exist", "123")
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Customer", "123")
	err := errors.NewInvalidArgumentError("pageSize", "must be positive")
	err := errors.NewStoreUnavailableError("ListPaged", cause)

StoreUnavailableError keeps its cause available through errors.Unwrap for
server-side logging, but its Error() text is deliberately generic so callers
can surface it without leaking backing-store internals.
*/
package errors
