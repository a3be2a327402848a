// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/waymark-travel/waymark/lib/clock"
	"github.com/waymark-travel/waymark/lib/widget"
)

var destinationTabs = []widget.Tab{
	{
		ID:    "europe",
		Label: "Europe",
		Badge: "4",
		Content: "## Europe\n\n" +
			"Rail passes cover most of the continent. Book **Interrail** seats " +
			"at least a week ahead in summer.\n\n" +
			"- Lisbon\n- Porto\n- Ljubljana\n- Tallinn",
	},
	{
		ID:    "asia",
		Label: "Asia",
		Badge: "3",
		Content: "## Asia\n\n" +
			"Monsoon season runs June to September across much of the south.\n\n" +
			"- Kyoto\n- Hanoi\n- Luang Prabang",
	},
	{
		ID:    "americas",
		Label: "Americas",
		Badge: "3",
		Content: "## Americas\n\n" +
			"Check entry requirements early; several countries require an " +
			"electronic authorization before boarding.\n\n" +
			"- Oaxaca\n- Valparaíso\n- Montréal",
	},
	{
		ID:       "antarctica",
		Label:    "Antarctica",
		Disabled: true,
		Content:  "Expedition season has ended.",
	},
}

var featuredSlides = []widget.Slide{
	{ID: "lisbon", Label: "Lisbon", Content: "### Lisbon\n\nTrams, tiles, and *pastéis de nata*. Best from March to May."},
	{ID: "kyoto", Label: "Kyoto", Content: "### Kyoto\n\nTemples by day, lantern-lit lanes by night. Autumn leaves peak in November."},
	{ID: "oaxaca", Label: "Oaxaca", Content: "### Oaxaca\n\nMarkets, mezcal, and the Guelaguetza festival every July."},
	{ID: "tallinn", Label: "Tallinn", Content: "### Tallinn\n\nA walled old town and quick ferries to Helsinki."},
}

var destinationOptions = []widget.Option{
	{Value: "lisbon", Label: "Lisbon", Description: "Portugal", Group: "Europe"},
	{Value: "porto", Label: "Porto", Description: "Portugal", Group: "Europe"},
	{Value: "ljubljana", Label: "Ljubljana", Description: "Slovenia", Group: "Europe"},
	{Value: "tallinn", Label: "Tallinn", Description: "Estonia", Group: "Europe"},
	{Value: "kyoto", Label: "Kyoto", Description: "Japan", Group: "Asia"},
	{Value: "hanoi", Label: "Hanoi", Description: "Vietnam", Group: "Asia"},
	{Value: "luang-prabang", Label: "Luang Prabang", Description: "Laos", Group: "Asia", Disabled: true},
	{Value: "oaxaca", Label: "Oaxaca", Description: "Mexico", Group: "Americas"},
	{Value: "valparaiso", Label: "Valparaíso", Description: "Chile", Group: "Americas"},
	{Value: "montreal", Label: "Montréal", Description: "Canada", Group: "Americas"},
}

var interestOptions = []widget.Option{
	{Value: "food", Label: "Food and markets"},
	{Value: "hiking", Label: "Hiking"},
	{Value: "museums", Label: "Museums"},
	{Value: "beaches", Label: "Beaches"},
	{Value: "nightlife", Label: "Nightlife"},
	{Value: "rail", Label: "Slow rail journeys"},
}

// story is one entry of the traveller stories feed.
type story struct {
	Title  string
	Author string
	Place  string
}

var storyPlaces = []string{"Lisbon", "Kyoto", "Oaxaca", "Tallinn", "Hanoi"}

func mockStories(count int) []story {
	stories := make([]story, count)
	for index := range stories {
		place := storyPlaces[index%len(storyPlaces)]
		stories[index] = story{
			Title:  fmt.Sprintf("Week %d in %s", index/len(storyPlaces)+1, place),
			Author: fmt.Sprintf("traveller%02d", index+1),
			Place:  place,
		}
	}
	return stories
}

var errConnectionReset = errors.New("connection reset by peer")

// storyFeed simulates the remote feed behind the stories loader. Each
// fetch waits latency on the page clock. When failOnce is set to a
// fetch number, that fetch fails the first time it is attempted.
type storyFeed struct {
	clock    clock.Clock
	latency  time.Duration
	fetches  atomic.Int64
	failOnce atomic.Int64
}

func newStoryFeed(clk clock.Clock, latency time.Duration, failFetch int) *storyFeed {
	feed := &storyFeed{clock: clk, latency: latency}
	feed.failOnce.Store(int64(failFetch))
	return feed
}

// Fetch runs off the update loop.
func (feed *storyFeed) Fetch(ctx context.Context) error {
	if feed.latency > 0 {
		done := make(chan struct{})
		timer := feed.clock.AfterFunc(feed.latency, func() { close(done) })
		select {
		case <-done:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	fetch := feed.fetches.Add(1)
	if fetch == feed.failOnce.Load() && feed.failOnce.CompareAndSwap(fetch, 0) {
		return errConnectionReset
	}
	return nil
}
