/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storefront

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/storefront/repository"
)

// TypedRepositories holds the named Repository instances for one entity
// type T. A process typically registers one repository per backend, keyed
// "memory" or "dynamodb".
type TypedRepositories[T any] struct {
	mu    sync.RWMutex
	repos map[string]repository.Repository[T]
}

// NewTypedRepositories creates an empty registry for type T.
func NewTypedRepositories[T any]() *TypedRepositories[T] {
	return &TypedRepositories[T]{
		repos: make(map[string]repository.Repository[T]),
	}
}

// Register adds a repository under the given key.
func (tr *TypedRepositories[T]) Register(key string, repo repository.Repository[T]) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, exists := tr.repos[key]; exists {
		return fmt.Errorf("repository with key %q already registered", key)
	}
	tr.repos[key] = repo
	return nil
}

// Get retrieves a repository by key.
func (tr *TypedRepositories[T]) Get(key string) (repository.Repository[T], error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	repo, exists := tr.repos[key]
	if !exists {
		return nil, fmt.Errorf("repository with key %q not found", key)
	}
	return repo, nil
}

// Remove deletes a repository by key.
func (tr *TypedRepositories[T]) Remove(key string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, exists := tr.repos[key]; !exists {
		return fmt.Errorf("repository with key %q not found", key)
	}
	delete(tr.repos, key)
	return nil
}

// List returns all registered repository keys.
func (tr *TypedRepositories[T]) List() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	keys := make([]string, 0, len(tr.repos))
	for k := range tr.repos {
		keys = append(keys, k)
	}
	return keys
}

// RepositorySet manages TypedRepositories instances across entity types, so
// one value can hand out a type-safe Repository[T] for any registered T.
type RepositorySet struct {
	mu       sync.RWMutex
	storages map[reflect.Type]interface{}
}

// NewRepositorySet creates a new RepositorySet.
func NewRepositorySet() *RepositorySet {
	return &RepositorySet{
		storages: make(map[reflect.Type]interface{}),
	}
}

// RepositoriesFor returns the TypedRepositories for T, creating it on first
// use.
func RepositoriesFor[T any](set *RepositorySet) *TypedRepositories[T] {
	set.mu.Lock()
	defer set.mu.Unlock()

	var zero T
	typ := reflect.TypeOf(zero)

	if storage, exists := set.storages[typ]; exists {
		return storage.(*TypedRepositories[T])
	}

	newStorage := NewTypedRepositories[T]()
	set.storages[typ] = newStorage
	return newStorage
}

// RegisterRepository registers a repository for type T under the given key.
func RegisterRepository[T any](set *RepositorySet, key string, repo repository.Repository[T]) error {
	return RepositoriesFor[T](set).Register(key, repo)
}

// GetRepository retrieves the repository for type T under the given key.
func GetRepository[T any](set *RepositorySet, key string) (repository.Repository[T], error) {
	return RepositoriesFor[T](set).Get(key)
}

// RemoveRepository removes the repository for type T under the given key.
func RemoveRepository[T any](set *RepositorySet, key string) error {
	return RepositoriesFor[T](set).Remove(key)
}

// ListRepositories lists the registered repository keys for type T.
func ListRepositories[T any](set *RepositorySet) []string {
	return RepositoriesFor[T](set).List()
}
