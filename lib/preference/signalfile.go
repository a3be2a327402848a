// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package preference

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// SignalFile is a Signals source backed by a small text file in the
// style of CSS media features:
//
//	prefers-reduced-motion: reduce
//	prefers-contrast: more
//
// "no-preference" (or any other value) means false. A missing file or
// a missing line leaves that signal unknown. Desktop integrations or
// test harnesses write the file; [SignalFile.Watch] turns edits into
// live [SignalChange] events.
type SignalFile struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	motion   reading
	contrast reading
}

type reading struct {
	value bool
	known bool
}

// NewSignalFile reads path once. Read errors other than absence are
// logged and leave both signals unknown.
func NewSignalFile(path string, logger *slog.Logger) *SignalFile {
	if logger == nil {
		logger = slog.Default()
	}
	file := &SignalFile{path: path, logger: logger}
	file.Reload()
	return file
}

// Path returns the watched file path.
func (file *SignalFile) Path() string {
	return file.path
}

// ReducedMotion implements Signals.
func (file *SignalFile) ReducedMotion() (bool, bool) {
	file.mu.Lock()
	defer file.mu.Unlock()
	return file.motion.value, file.motion.known
}

// HighContrast implements Signals.
func (file *SignalFile) HighContrast() (bool, bool) {
	file.mu.Lock()
	defer file.mu.Unlock()
	return file.contrast.value, file.contrast.known
}

// Reload re-reads the file and returns the signals whose known value
// changed. A signal that becomes unknown produces no change.
func (file *SignalFile) Reload() []SignalChange {
	data, err := os.ReadFile(file.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		file.logger.Warn("reading signal file", "path", file.path, "error", err)
	}
	motion, contrast := parseSignalFile(data)

	file.mu.Lock()
	defer file.mu.Unlock()

	var changes []SignalChange
	if motion.known && motion != file.motion {
		changes = append(changes, SignalChange{Field: FieldReducedMotion, Value: motion.value})
	}
	if contrast.known && contrast != file.contrast {
		changes = append(changes, SignalChange{Field: FieldHighContrast, Value: contrast.value})
	}
	file.motion = motion
	file.contrast = contrast
	return changes
}

// parseSignalFile parses the signal file format. Blank lines, comment
// lines starting with '#', and unknown features are ignored.
func parseSignalFile(data []byte) (motion, contrast reading) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		feature, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		feature = strings.ToLower(strings.TrimSpace(feature))
		value = strings.ToLower(strings.TrimSpace(value))
		switch feature {
		case "prefers-reduced-motion":
			motion = reading{value: value == "reduce", known: true}
		case "prefers-contrast":
			contrast = reading{value: value == "more", known: true}
		}
	}
	return motion, contrast
}

// Watch starts watching the file for edits, including replacement by
// rename. Every change reported by Reload is passed to onChange from
// the watcher goroutine; callers post it into their event loop. The
// returned stop function is idempotent and waits for the watcher to
// exit.
func (file *SignalFile) Watch(onChange func(SignalChange)) (func(), error) {
	stopChannel := make(chan struct{})
	done := make(chan struct{})

	notify := func() {
		for _, change := range file.Reload() {
			file.logger.Debug("signal changed", "field", change.Field, "value", change.Value)
			onChange(change)
		}
	}

	if err := startWatcher(file.path, notify, stopChannel, done); err != nil {
		return nil, err
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(stopChannel)
			<-done
		})
	}
	return stop, nil
}
