// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/waymark-travel/waymark/lib/schedule"
)

// maxRounds bounds [Pump] so a widget that keeps producing messages
// fails the test instead of hanging it.
const maxRounds = 1000

// Updater is a bubbletea-style component.
type Updater interface {
	Update(tea.Msg) tea.Cmd
}

// Run executes cmd synchronously and returns the messages it
// produced. Batches are flattened in order; nil commands and nil
// messages are dropped.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	message := cmd()
	if message == nil {
		return nil
	}
	if batch, ok := message.(tea.BatchMsg); ok {
		var messages []tea.Msg
		for _, inner := range batch {
			messages = append(messages, Run(inner)...)
		}
		return messages
	}
	return []tea.Msg{message}
}

// Deliver sends message to target and settles: messages produced by
// returned commands and by timers already posted to queue are fed
// back until nothing remains. queue may be nil.
func Deliver(t TB, queue *schedule.Queue, target Updater, message tea.Msg) {
	t.Helper()
	settle(t, queue, target, []tea.Msg{message})
}

// Pump feeds every message waiting in queue to target and settles as
// [Deliver] does. It returns the number of messages delivered.
func Pump(t TB, queue *schedule.Queue, target Updater) int {
	t.Helper()
	return settle(t, queue, target, nil)
}

func settle(t TB, queue *schedule.Queue, target Updater, pending []tea.Msg) int {
	t.Helper()
	delivered := 0
	for round := 0; ; round++ {
		if queue != nil {
			pending = append(pending, queue.Drain()...)
		}
		if len(pending) == 0 {
			return delivered
		}
		if round >= maxRounds {
			t.Fatalf("messages still pending after %d rounds", maxRounds)
			return delivered
		}
		var next []tea.Msg
		for _, message := range pending {
			delivered++
			next = append(next, Run(target.Update(message))...)
		}
		pending = next
	}
}
