// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for Waymark binaries.
//
// [Version], [GitCommit] and [BuildTime] are injected with -ldflags -X.
// When they are not, [Info] falls back to the module version and VCS
// settings recorded by the Go toolchain.
package version
