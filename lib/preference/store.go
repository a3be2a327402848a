// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package preference

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/jsonc"

	"github.com/waymark-travel/waymark/lib/kvstore"
)

// DefaultKey is the storage key for the settings blob.
const DefaultKey = "accessibility-settings"

// Policy decides how live OS signal changes interact with explicit
// user choices.
type Policy int

const (
	// RespectOverride ignores OS changes to fields the user set
	// explicitly (persisted, or updated since the last reset). Only
	// explicitly set fields are persisted.
	RespectOverride Policy = iota

	// FollowSystem lets every OS change overwrite the in-memory value
	// and persists all fields on update.
	FollowSystem
)

// ParsePolicy converts a configuration value to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "respect-override":
		return RespectOverride, nil
	case "follow-system":
		return FollowSystem, nil
	}
	return RespectOverride, fmt.Errorf("unknown signal policy %q", name)
}

func (policy Policy) String() string {
	if policy == FollowSystem {
		return "follow-system"
	}
	return "respect-override"
}

// Applier re-applies document-level presentation (theme, spacing,
// motion) from settings. document.Presentation implements it.
type Applier interface {
	Apply(Settings)
}

// View is the read-only face of the store that widgets receive.
type View interface {
	Get() Settings
	Subscribe(func(Settings)) (cancel func())
}

// Options configures a Store.
type Options struct {
	// Storage holds the persisted blob. Nil keeps settings in memory
	// only.
	Storage kvstore.Store

	// Key is the storage key. Empty means DefaultKey.
	Key string

	// Signals supplies OS preferences. Nil means none are known.
	Signals Signals

	// Presentation is re-applied on every change. May be nil.
	Presentation Applier

	Policy Policy
	Logger *slog.Logger
}

// Store holds the process's accessibility settings. It is not safe
// for concurrent use: every call happens on the program's event loop,
// and watcher goroutines reach it only through posted messages.
type Store struct {
	storage      kvstore.Store
	key          string
	signals      Signals
	presentation Applier
	policy       Policy
	logger       *slog.Logger

	settings   Settings
	overridden map[Field]bool

	subscribers      map[int]func(Settings)
	subscriberOrder  []int
	nextSubscriberID int
}

// New creates the store, merging defaults, OS signals, and the
// persisted blob, and applies the result to the presentation.
func New(options Options) *Store {
	store := &Store{
		storage:      options.Storage,
		key:          options.Key,
		signals:      options.Signals,
		presentation: options.Presentation,
		policy:       options.Policy,
		logger:       options.Logger,
		overridden:   make(map[Field]bool),
		subscribers:  make(map[int]func(Settings)),
	}
	if store.key == "" {
		store.key = DefaultKey
	}
	if store.logger == nil {
		store.logger = slog.Default()
	}

	store.settings = applySignals(Defaults(), store.signals)
	store.loadPersisted()
	store.apply()
	return store
}

// loadPersisted layers the persisted blob's fields over the current
// settings. Any problem is logged and treated as "no override".
func (store *Store) loadPersisted() {
	if store.storage == nil {
		return
	}
	blob, exists, err := store.storage.Get(store.key)
	if err != nil {
		store.logger.Warn("reading persisted settings", "key", store.key, "error", err)
		return
	}
	if !exists {
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON([]byte(blob)), &fields); err != nil {
		store.logger.Warn("ignoring malformed persisted settings", "key", store.key, "error", err)
		return
	}

	for _, field := range Fields {
		raw, present := fields[string(field)]
		if !present {
			continue
		}
		var value any
		if field == FieldFontSize {
			var size string
			if err := json.Unmarshal(raw, &size); err != nil {
				store.logger.Warn("ignoring persisted field", "field", field, "error", err)
				continue
			}
			value = size
		} else {
			var flag bool
			if err := json.Unmarshal(raw, &flag); err != nil {
				store.logger.Warn("ignoring persisted field", "field", field, "error", err)
				continue
			}
			value = flag
		}
		updated, err := store.settings.With(field, value)
		if err != nil {
			store.logger.Warn("ignoring persisted field", "field", field, "error", err)
			continue
		}
		store.settings = updated
		store.overridden[field] = true
	}
}

// Get returns the current settings.
func (store *Store) Get() Settings {
	return store.settings
}

// Policy returns the store's signal policy.
func (store *Store) Policy() Policy {
	return store.policy
}

// Overridden reports whether field holds an explicit user choice.
func (store *Store) Overridden(field Field) bool {
	return store.overridden[field]
}

// Update sets one field. The presentation is re-applied and the blob
// re-persisted before subscribers are notified. ErrUnknownField and
// ErrInvalidValue leave everything unchanged; a storage failure is
// logged and returned after the in-memory change has taken effect.
func (store *Store) Update(field Field, value any) error {
	updated, err := store.settings.With(field, value)
	if err != nil {
		return err
	}
	store.settings = updated
	store.overridden[field] = true

	store.apply()
	persistErr := store.persist()
	store.notify()
	return persistErr
}

// SetReducedMotion sets FieldReducedMotion.
func (store *Store) SetReducedMotion(value bool) error {
	return store.Update(FieldReducedMotion, value)
}

// SetHighContrast sets FieldHighContrast.
func (store *Store) SetHighContrast(value bool) error {
	return store.Update(FieldHighContrast, value)
}

// SetFontSize sets FieldFontSize.
func (store *Store) SetFontSize(size FontSize) error {
	return store.Update(FieldFontSize, size)
}

// SetFocusVisible sets FieldFocusVisible.
func (store *Store) SetFocusVisible(value bool) error {
	return store.Update(FieldFocusVisible, value)
}

// SetScreenReader sets FieldScreenReader.
func (store *Store) SetScreenReader(value bool) error {
	return store.Update(FieldScreenReader, value)
}

// Reset returns to the OS-signal/default merge, clears every explicit
// choice, and deletes the persisted blob.
func (store *Store) Reset() error {
	store.settings = applySignals(Defaults(), store.signals)
	clear(store.overridden)
	store.apply()

	var deleteErr error
	if store.storage != nil {
		if err := store.storage.Delete(store.key); err != nil {
			store.logger.Warn("deleting persisted settings", "key", store.key, "error", err)
			deleteErr = fmt.Errorf("deleting persisted settings: %w", err)
		}
	}
	store.notify()
	return deleteErr
}

// ApplySignal applies a live OS signal change. Under RespectOverride a
// field holding an explicit choice is left alone. Signal changes are
// not persisted and do not count as explicit choices.
func (store *Store) ApplySignal(change SignalChange) {
	if change.Field != FieldReducedMotion && change.Field != FieldHighContrast {
		store.logger.Warn("ignoring signal for unsupported field", "field", change.Field)
		return
	}
	if store.policy == RespectOverride && store.overridden[change.Field] {
		store.logger.Debug("signal change kept out by explicit choice",
			"field", change.Field, "value", change.Value)
		return
	}

	current, _ := store.settings.Value(change.Field)
	if current == change.Value {
		return
	}
	store.settings, _ = store.settings.With(change.Field, change.Value)
	store.apply()
	store.notify()
}

// Subscribe registers fn to receive the settings after every change.
// Subscribers run in registration order on the caller's goroutine.
func (store *Store) Subscribe(fn func(Settings)) func() {
	id := store.nextSubscriberID
	store.nextSubscriberID++
	store.subscribers[id] = fn
	store.subscriberOrder = append(store.subscriberOrder, id)

	return func() {
		if _, exists := store.subscribers[id]; !exists {
			return
		}
		delete(store.subscribers, id)
		for index, candidate := range store.subscriberOrder {
			if candidate == id {
				store.subscriberOrder = append(store.subscriberOrder[:index], store.subscriberOrder[index+1:]...)
				break
			}
		}
	}
}

func (store *Store) apply() {
	if store.presentation != nil {
		store.presentation.Apply(store.settings)
	}
}

func (store *Store) notify() {
	// Copy so subscribers may cancel themselves or others.
	order := append([]int(nil), store.subscriberOrder...)
	for _, id := range order {
		if fn, exists := store.subscribers[id]; exists {
			fn(store.settings)
		}
	}
}

// persist writes the blob: every field under FollowSystem, only the
// explicit choices under RespectOverride.
func (store *Store) persist() error {
	if store.storage == nil {
		return nil
	}

	fields := make(map[string]any, len(Fields))
	for _, field := range Fields {
		if store.policy == RespectOverride && !store.overridden[field] {
			continue
		}
		value, _ := store.settings.Value(field)
		fields[string(field)] = value
	}

	blob, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := store.storage.Set(store.key, string(blob)); err != nil {
		store.logger.Warn("persisting settings", "key", store.key, "error", err)
		return fmt.Errorf("persisting settings: %w", err)
	}
	return nil
}
