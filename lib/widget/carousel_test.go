// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func featuredSlides() []Slide {
	return []Slide{
		{ID: "fjords", Label: "Fjords", Content: "Norway by boat."},
		{ID: "atacama", Label: "Atacama", Content: "Stars over the desert."},
		{ID: "mekong", Label: "Mekong", Content: "River life."},
	}
}

func TestCarouselAutoplayAdvances(t *testing.T) {
	f := newFixture(t, false)
	carousel := NewCarousel(f.env, CarouselProps{
		Items:            featuredSlides(),
		AutoPlay:         true,
		AutoPlayInterval: 5 * time.Second,
		AriaLabel:        "Featured trips",
	})
	f.add(t, carousel)

	if !carousel.Playing() || !carousel.ToggleVisible() {
		t.Fatalf("playing %v, toggle visible %v", carousel.Playing(), carousel.ToggleVisible())
	}
	f.advance(t, 4999*time.Millisecond)
	if carousel.Active() != 0 {
		t.Fatalf("advanced early to %d", carousel.Active())
	}
	f.advance(t, time.Millisecond)
	if carousel.Active() != 1 {
		t.Fatalf("after one interval active = %d", carousel.Active())
	}
	f.advance(t, 5*time.Second)
	f.advance(t, 5*time.Second)
	if carousel.Active() != 0 {
		t.Fatalf("rotation should wrap, active = %d", carousel.Active())
	}
	// Rotation is silent.
	if f.latest() != "" {
		t.Fatalf("rotation announced %q", f.latest())
	}
}

func TestCarouselReducedMotionNeverAdvances(t *testing.T) {
	f := newFixture(t, true)
	carousel := NewCarousel(f.env, CarouselProps{Items: featuredSlides(), AutoPlay: true})
	f.add(t, carousel)

	if carousel.Playing() || carousel.ToggleVisible() {
		t.Fatal("autoplay started under reduced motion")
	}
	if f.clock.Pending() != 0 {
		t.Fatalf("%d timers pending under reduced motion", f.clock.Pending())
	}
	f.advance(t, time.Minute)
	if carousel.Active() != 0 {
		t.Fatalf("advanced to %d under reduced motion", carousel.Active())
	}
}

func TestCarouselMotionPreferenceChanges(t *testing.T) {
	f := newFixture(t, false)
	carousel := NewCarousel(f.env, CarouselProps{Items: featuredSlides(), AutoPlay: true})
	f.add(t, carousel)

	if err := f.store.SetReducedMotion(true); err != nil {
		t.Fatal(err)
	}
	if carousel.Playing() || carousel.ToggleVisible() {
		t.Fatal("reduced motion did not stop autoplay")
	}
	f.advance(t, time.Minute)
	if carousel.Active() != 0 {
		t.Fatalf("advanced to %d after reduced motion was set", carousel.Active())
	}

	if err := f.store.SetReducedMotion(false); err != nil {
		t.Fatal(err)
	}
	if !carousel.Playing() {
		t.Fatal("autoplay did not resume when motion returned")
	}
	f.advance(t, f.env.Timing.AutoplayInterval)
	if carousel.Active() != 1 {
		t.Fatalf("active = %d after resuming", carousel.Active())
	}
}

func TestCarouselUserNavigationStopsAutoplay(t *testing.T) {
	f := newFixture(t, false)
	carousel := NewCarousel(f.env, CarouselProps{Items: featuredSlides(), AutoPlay: true})
	f.add(t, carousel)
	_, next, toggle := carousel.Nodes()

	f.Update(PointerMsg{Target: next.ID})
	if carousel.Active() != 1 || carousel.Playing() {
		t.Fatalf("active %d playing %v", carousel.Active(), carousel.Playing())
	}
	if f.latest() != "Slide 2 of 3: Atacama" {
		t.Fatalf("announcement = %q", f.latest())
	}
	f.advance(t, time.Minute)
	if carousel.Active() != 1 {
		t.Fatalf("autoplay continued after navigation, active %d", carousel.Active())
	}

	// A motion preference round trip does not undo a user stop.
	if err := f.store.SetReducedMotion(true); err != nil {
		t.Fatal(err)
	}
	if err := f.store.SetReducedMotion(false); err != nil {
		t.Fatal(err)
	}
	if carousel.Playing() {
		t.Fatal("preference change restarted a user-stopped carousel")
	}

	// Only the play button restarts it.
	f.doc.Focus(toggle)
	carousel.Update(keyPress(tea.KeyEnter))
	if !carousel.Playing() {
		t.Fatal("play did not restart autoplay")
	}
	f.doc.Blur()
	f.advance(t, f.env.Timing.AutoplayInterval)
	if carousel.Active() != 2 {
		t.Fatalf("active = %d after play", carousel.Active())
	}
}

func TestCarouselHoldsWhileFocused(t *testing.T) {
	f := newFixture(t, false)
	carousel := NewCarousel(f.env, CarouselProps{Items: featuredSlides(), AutoPlay: true, PauseOnFocus: true})
	f.add(t, carousel)

	f.doc.Focus(carousel.Dots()[0])
	f.advance(t, f.env.Timing.AutoplayInterval)
	if carousel.Active() != 0 {
		t.Fatalf("rotated while focus was inside, active %d", carousel.Active())
	}
	f.doc.Blur()
	f.advance(t, f.env.Timing.AutoplayInterval)
	if carousel.Active() != 1 {
		t.Fatalf("active = %d after focus left", carousel.Active())
	}
}

func TestCarouselFocusAloneKeepsRotating(t *testing.T) {
	f := newFixture(t, false)
	carousel := NewCarousel(f.env, CarouselProps{Items: featuredSlides(), AutoPlay: true})
	f.add(t, carousel)

	f.doc.Focus(carousel.Dots()[0])
	f.advance(t, f.env.Timing.AutoplayInterval)
	if carousel.Active() != 1 {
		t.Fatalf("active = %d, want rotation while focused with no navigation", carousel.Active())
	}
	if !carousel.Playing() {
		t.Error("focus stopped autoplay")
	}
}

func TestCarouselDotsRove(t *testing.T) {
	f := newFixture(t, true)
	carousel := NewCarousel(f.env, CarouselProps{Items: featuredSlides()})
	f.add(t, carousel)

	f.doc.Focus(carousel.Dots()[0])
	carousel.Update(keyPress(tea.KeyLeft))
	if carousel.Active() != 2 || f.doc.Active() != carousel.Dots()[2] {
		t.Fatalf("left from the first dot: active %d focus %v", carousel.Active(), f.doc.Active())
	}
	if stops := tabStops(carousel.Dots()); len(stops) != 1 || stops[0] != 2 {
		t.Fatalf("dot tab stops = %v", stops)
	}
	if f.latest() != "Slide 3 of 3: Mekong" {
		t.Fatalf("announcement = %q", f.latest())
	}
}

func TestCarouselCloseCancelsTimers(t *testing.T) {
	f := newFixture(t, false)
	carousel := NewCarousel(f.env, CarouselProps{Items: featuredSlides(), AutoPlay: true})
	f.components = append(f.components, carousel)

	_, next, _ := carousel.Nodes()
	f.Update(PointerMsg{Target: next.ID})
	carousel.Close()
	f.announcer.Close()

	if pending := f.clock.Pending(); pending != 0 {
		t.Fatalf("%d timers pending after Close", pending)
	}
	if next.Attached() {
		t.Fatal("nodes still attached after Close")
	}
	carousel.Close()
}

func TestCarouselEmpty(t *testing.T) {
	f := newFixture(t, false)
	carousel := NewCarousel(f.env, CarouselProps{AutoPlay: true})
	f.add(t, carousel)

	previous, next, _ := carousel.Nodes()
	if carousel.Playing() || !previous.Disabled || !next.Disabled {
		t.Fatal("an empty carousel should be inert")
	}
	f.Update(PointerMsg{Target: next.ID})
	if carousel.Active() != -1 {
		t.Fatalf("active = %d", carousel.Active())
	}
	if carousel.View(40) == "" {
		t.Fatal("empty view")
	}
}
