/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// Server is the gateway HTTP server: one POST endpoint for queries, a
// health endpoint and an optional playground.
type Server struct {
	cfg       Config
	schema    graphql.Schema
	validator CredentialValidator
	logger    *slog.Logger
	httpSrv   *http.Server
}

// graphqlRequest is the POST body accepted by the query endpoint.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// graphqlResponse is the wire shape of every gateway response.
type graphqlResponse struct {
	Data   interface{}                `json:"data"`
	Errors []gqlerrors.FormattedError `json:"errors,omitempty"`
}

// NewServer wires the schema, credential validator and config into an HTTP
// server. validator may be nil when cfg.RequireAuth is false.
func NewServer(cfg Config, schema graphql.Schema, validator CredentialValidator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		schema:    schema,
		validator: validator,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.GraphQLPath, s.handleGraphQL)
	mux.HandleFunc("/health", s.handleHealth)
	if cfg.EnablePlayground {
		mux.Handle("/", playground.Handler("Storefront", cfg.GraphQLPath))
	}

	s.httpSrv = &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
	return s
}

// Handler exposes the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("gateway listening",
		"addr", s.cfg.Addr,
		"path", s.cfg.GraphQLPath,
		"playground", s.cfg.EnablePlayground,
	)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout())
	defer cancel()
	s.logger.Info("gateway shutting down")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.cfg.RequireAuth {
		if !s.authenticate(w, r) {
			return
		}
	}

	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrors(w, http.StatusBadRequest, "malformed request body", CodeInvalidArgument)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		s.logger.Warn("query resolved with errors", "count", len(result.Errors))
		if s.escalate(result.Errors) {
			s.writeJSON(w, http.StatusServiceUnavailable, graphqlResponse{
				Data:   nil,
				Errors: result.Errors,
			})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, graphqlResponse{
		Data:   result.Data,
		Errors: result.Errors,
	})
}

// authenticate enforces the whole-request credential precondition. It
// reports false after writing the UNAUTHORIZED response.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) bool {
	if s.validator == nil {
		s.writeErrors(w, http.StatusInternalServerError, "credential validator not configured", CodeInternal)
		return false
	}
	token, ok := bearerToken(r)
	if !ok {
		s.writeErrors(w, http.StatusUnauthorized, "missing bearer token", CodeUnauthorized)
		return false
	}
	if _, err := s.validator.Validate(r.Context(), token); err != nil {
		s.logger.Warn("credential validation failed", "error", err)
		s.writeErrors(w, http.StatusUnauthorized, "invalid credentials", CodeUnauthorized)
		return false
	}
	return true
}

// escalate reports whether any error is a StoreUnavailable on a root field
// configured to fail the whole request.
func (s *Server) escalate(errs []gqlerrors.FormattedError) bool {
	for _, e := range errs {
		if e.Extensions["code"] != CodeStoreUnavailable {
			continue
		}
		if len(e.Path) == 0 {
			continue
		}
		if root, ok := e.Path[0].(string); ok && s.cfg.failsRequest(root) {
			return true
		}
	}
	return false
}

func (s *Server) writeErrors(w http.ResponseWriter, status int, message, code string) {
	s.writeJSON(w, status, graphqlResponse{
		Errors: []gqlerrors.FormattedError{
			{
				Message:    message,
				Extensions: map[string]interface{}{"code": code},
			},
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
