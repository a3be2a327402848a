// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package preference

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// startWatcher watches the parent directory with inotify for
// IN_CLOSE_WRITE and IN_MOVED_TO on the file name, which covers both
// in-place writes and atomic replacement.
func startWatcher(path string, notify func(), stopChannel <-chan struct{}, done chan<- struct{}) error {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	directory := filepath.Dir(absolutePath)
	filename := filepath.Base(absolutePath)

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return fmt.Errorf("inotify init: %w", err)
	}
	if _, err := unix.InotifyAddWatch(fd, directory, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO|unix.IN_CREATE); err != nil {
		unix.Close(fd)
		return fmt.Errorf("watching %s: %w", directory, err)
	}

	go func() {
		defer close(done)
		defer unix.Close(fd)

		buffer := make([]byte, 4096)
		for {
			select {
			case <-stopChannel:
				return
			default:
			}

			descriptors := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
			count, err := unix.Poll(descriptors, 100)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				return
			}
			if count == 0 {
				continue
			}

			bytesRead, err := unix.Read(fd, buffer)
			if err != nil {
				if err == unix.EAGAIN || err == unix.EINTR {
					continue
				}
				return
			}
			if !eventsMention(buffer[:bytesRead], filename) {
				continue
			}

			// Coalesce a burst of writes into one reload.
			time.Sleep(20 * time.Millisecond)
			for {
				if _, err := unix.Read(fd, buffer); err != nil {
					break
				}
			}
			notify()
		}
	}()
	return nil
}

// eventsMention reports whether any inotify_event in the buffer names
// filename. Each event is a 16-byte header (wd, mask, cookie, len)
// followed by len bytes of NUL-padded name.
func eventsMention(buffer []byte, filename string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		end := offset + unix.SizeofInotifyEvent + nameLength
		if end > len(buffer) {
			return false
		}
		name := buffer[offset+unix.SizeofInotifyEvent : end]
		for index, character := range name {
			if character == 0 {
				name = name[:index]
				break
			}
		}
		if string(name) == filename {
			return true
		}
		offset = end
	}
	return false
}
