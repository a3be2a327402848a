// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// containerVersion is written into every container. Readers reject
// containers from a newer version as corrupt rather than guess.
const containerVersion = 1

// container is the on-disk envelope. Payload is the deterministic
// CBOR encoding of the entry map; Checksum is blake3-256(Payload).
type container struct {
	Version  int    `cbor:"1,keyasint"`
	Payload  []byte `cbor:"2,keyasint"`
	Checksum []byte `cbor:"3,keyasint"`
}

// encMode uses Core Deterministic Encoding so identical maps always
// produce identical payload bytes (and therefore identical checksums).
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("kvstore: CBOR encoder initialization failed: " + err.Error())
	}
}

// File is a Store persisted to a single file. Every operation reads
// the file fresh, so several processes sharing the path see each
// other's writes (last writer wins per file, not per key).
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a store backed by path. The file does not need to
// exist; its parent directory is created on the first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (file *File) Path() string {
	return file.path
}

// Get implements Store.
func (file *File) Get(key string) (string, bool, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	entries, err := file.load()
	if err != nil {
		return "", false, err
	}
	value, exists := entries[key]
	return value, exists, nil
}

// Set implements Store. A corrupt container is replaced by a fresh
// one holding only this key.
func (file *File) Set(key, value string) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	entries, err := file.load()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	entries[key] = value
	return file.save(entries)
}

// Delete implements Store.
func (file *File) Delete(key string) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	entries, err := file.load()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	if _, exists := entries[key]; !exists && err == nil {
		return nil
	}
	delete(entries, key)
	return file.save(entries)
}

// load reads and verifies the container. A missing file is an empty
// store.
func (file *File) load() (map[string]string, error) {
	data, err := os.ReadFile(file.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file.path, err)
	}

	var envelope container
	if err := cbor.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, file.path, err)
	}
	if envelope.Version != containerVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrCorrupt, file.path, envelope.Version)
	}
	sum := blake3.Sum256(envelope.Payload)
	if !bytes.Equal(sum[:], envelope.Checksum) {
		return nil, fmt.Errorf("%w: %s: checksum mismatch", ErrCorrupt, file.path)
	}

	entries := make(map[string]string)
	if err := cbor.Unmarshal(envelope.Payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: payload: %v", ErrCorrupt, file.path, err)
	}
	return entries, nil
}

// save writes entries atomically: encode, write to a temporary file in
// the same directory, fsync, rename over the target.
func (file *File) save(entries map[string]string) error {
	payload, err := encMode.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	sum := blake3.Sum256(payload)
	data, err := encMode.Marshal(container{
		Version:  containerVersion,
		Payload:  payload,
		Checksum: sum[:],
	})
	if err != nil {
		return fmt.Errorf("encoding container: %w", err)
	}

	directory := filepath.Dir(file.path)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, "."+filepath.Base(file.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return fmt.Errorf("syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, file.path); err != nil {
		return fmt.Errorf("replacing %s: %w", file.path, err)
	}
	return nil
}
