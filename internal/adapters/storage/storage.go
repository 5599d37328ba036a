// Package storage provides the durable key-value storage that keeps session
// credentials across restarts. Only the session service writes to it.
package storage

import (
	"context"
	"sync"
)

// Session storage keys. All keys are written together on login and removed
// together on logout; the refresh path rewrites only KeyToken.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUserID       = "userId"
	KeyUserEmail    = "userEmail"
	KeyUserName     = "userName"
	KeyUserRole     = "userRole"
	KeyTenantData   = "tenantData"
)

// SessionKeys lists every session-related key, for bulk removal on logout
var SessionKeys = []string{
	KeyToken,
	KeyRefreshToken,
	KeyUserID,
	KeyUserEmail,
	KeyUserName,
	KeyUserRole,
	KeyTenantData,
}

// Store is a string key-value store. Get returns "" for a missing key,
// matching web localStorage semantics.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// MemoryStore is an in-process Store used in tests and as the fallback when
// Redis is unavailable (storage then lives only as long as the process).
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key, or "" if absent
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set stores value under key
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes the given keys; missing keys are ignored
func (s *MemoryStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
