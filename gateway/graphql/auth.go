/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graphql

import (
	"context"
	"net/http"
	"strings"

	sferrors "github.com/suparena/storefront/errors"
)

// Claims carries the validated identity of a request.
type Claims struct {
	Subject string
}

// CredentialValidator checks a bearer token before any field resolves. The
// gateway never mints or decodes tokens itself; it only extracts the token
// from the request and delegates.
type CredentialValidator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// StaticTokenValidator validates against a fixed token-to-subject map.
// Suitable for tests and single-tenant deployments.
type StaticTokenValidator struct {
	Tokens map[string]string
}

func (v *StaticTokenValidator) Validate(_ context.Context, token string) (*Claims, error) {
	subject, ok := v.Tokens[token]
	if !ok {
		return nil, sferrors.NewUnauthorizedError("unknown token")
	}
	return &Claims{Subject: subject}, nil
}

// bearerToken extracts the bearer token from an Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
