// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for waymark programs.
//
// Configuration is loaded from a single file specified by:
//   - WAYMARK_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There is no automatic discovery. A program that runs without either
// uses [Default] unchanged.
//
// The config file may contain environment-specific sections
// (development, production) that override base values when the
// environment matches. Path fields support ${VAR} and ${VAR:-default}
// expansion; duration fields are strings in [time.ParseDuration]
// syntax.
package config
