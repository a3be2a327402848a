// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	if _, exists, err := store.Get("missing"); err != nil || exists {
		t.Fatalf("Get(missing) = exists %v, err %v; want absent, nil", exists, err)
	}

	if err := store.Set("accessibility-settings", `{"fontSize":"large"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("locale", "en"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, exists, err := store.Get("accessibility-settings")
	if err != nil || !exists {
		t.Fatalf("Get after Set: exists %v, err %v", exists, err)
	}
	if value != `{"fontSize":"large"}` {
		t.Errorf("Get = %q, want the stored blob", value)
	}

	if err := store.Delete("accessibility-settings"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, exists, _ := store.Get("accessibility-settings"); exists {
		t.Error("key still present after Delete")
	}
	if value, _, _ := store.Get("locale"); value != "en" {
		t.Errorf("unrelated key changed: got %q", value)
	}
	if err := store.Delete("never-set"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFile(filepath.Join(t.TempDir(), "state", "waymark.kv")))
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waymark.kv")
	if err := NewFile(path).Set("key", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, exists, err := NewFile(path).Get("key")
	if err != nil || !exists || value != "value" {
		t.Fatalf("reopened Get = %q, %v, %v", value, exists, err)
	}
}

func TestFileStoreDetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waymark.kv")
	store := NewFile(path)
	if err := store.Set("key", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Flip a byte near the end, inside the checksum or payload.
	data[len(data)-3] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := store.Get("key"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Get on corrupt container: err = %v, want ErrCorrupt", err)
	}

	// A write recovers by starting a fresh container.
	if err := store.Set("other", "fresh"); err != nil {
		t.Fatalf("Set over corrupt container: %v", err)
	}
	value, exists, err := store.Get("other")
	if err != nil || !exists || value != "fresh" {
		t.Fatalf("Get after recovery = %q, %v, %v", value, exists, err)
	}
}

func TestFileStoreGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waymark.kv")
	if err := os.WriteFile(path, []byte("not cbor at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFile(path).Get("key"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}
