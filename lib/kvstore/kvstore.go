// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"errors"
	"sync"
)

// ErrCorrupt is returned when the backing container cannot be
// decoded or fails its integrity check.
var ErrCorrupt = errors.New("kvstore: corrupt container")

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key. The boolean is false
	// when the key is absent.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Memory is an in-process Store. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Get implements Store.
func (memory *Memory) Get(key string) (string, bool, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	value, exists := memory.entries[key]
	return value, exists, nil
}

// Set implements Store.
func (memory *Memory) Set(key, value string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.entries[key] = value
	return nil
}

// Delete implements Store.
func (memory *Memory) Delete(key string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	delete(memory.entries, key)
	return nil
}
