// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore is the client-side key-value persistence used by
// the preference store: string keys, string values, whole-value
// writes. [Memory] backs tests; [File] keeps every key in one file on
// disk.
//
// The file is a CBOR container holding a deterministic CBOR payload
// (the key/value map) and a blake3-256 checksum of that payload.
// Writes go through a temporary file and a rename, so a crash leaves
// either the old or the new container. A container that fails to
// decode or whose checksum does not match is reported as [ErrCorrupt];
// callers decide whether that means "start empty".
package kvstore
