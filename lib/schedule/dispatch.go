// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Dispatcher forwards posted messages to a bubbletea program. The
// program does not exist yet when widgets are constructed, so the
// dispatcher is created first and SetProgram is called once the
// tea.Program is built. Messages posted before that are dropped.
type Dispatcher struct {
	program atomic.Pointer[tea.Program]
}

// NewDispatcher returns a Dispatcher with no program attached.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// SetProgram attaches the program that receives posted messages. Safe
// to call from any goroutine.
func (dispatcher *Dispatcher) SetProgram(program *tea.Program) {
	dispatcher.program.Store(program)
}

// Post sends message to the attached program, or drops it.
func (dispatcher *Dispatcher) Post(message tea.Msg) {
	if program := dispatcher.program.Load(); program != nil {
		program.Send(message)
	}
}

// Queue collects posted messages for a caller that pumps them into
// its own Update loop. Used by tests with a fake clock: advance the
// clock, then Drain and feed the messages to the widget under test.
type Queue struct {
	mu       sync.Mutex
	messages []tea.Msg
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post appends message to the queue.
func (queue *Queue) Post(message tea.Msg) {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	queue.messages = append(queue.messages, message)
}

// Drain removes and returns every queued message in arrival order.
func (queue *Queue) Drain() []tea.Msg {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	drained := queue.messages
	queue.messages = nil
	return drained
}

// Len returns the number of queued messages.
func (queue *Queue) Len() int {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return len(queue.messages)
}
