// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package preference

import (
	"os"
	"time"
)

// pollInterval is how often the file's modification time is checked
// on platforms without inotify.
const pollInterval = 250 * time.Millisecond

func startWatcher(path string, notify func(), stopChannel <-chan struct{}, done chan<- struct{}) error {
	stamp := func() (time.Time, int64) {
		info, err := os.Stat(path)
		if err != nil {
			return time.Time{}, -1
		}
		return info.ModTime(), info.Size()
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		lastModified, lastSize := stamp()
		for {
			select {
			case <-stopChannel:
				return
			case <-ticker.C:
			}
			modified, size := stamp()
			if modified.Equal(lastModified) && size == lastSize {
				continue
			}
			lastModified, lastSize = modified, size
			notify()
		}
	}()
	return nil
}
