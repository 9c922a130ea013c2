// Package selection holds the one place the user has picked, plus the search
// sequence number used to drop stale responses.
package selection

import (
	"sync"

	"github.com/idilsaglam/tripmap/internal/model"
)

// State is created once per screen and passed to whoever reads or writes
// the pick.
type State struct {
	mu     sync.Mutex
	place  *model.Place
	search uint64
}

func New() *State { return &State{} }

// Select overwrites the current pick.
func (s *State) Select(p model.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place = &p
}

// Selected returns a copy of the pick, or nil.
func (s *State) Selected() *model.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.place == nil {
		return nil
	}
	p := *s.place
	return &p
}

func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place = nil
}

// BeginSearch clears the pick and returns the new search sequence number.
func (s *State) BeginSearch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place = nil
	s.search++
	return s.search
}

// IsCurrent reports whether seq belongs to the latest search.
func (s *State) IsCurrent(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.search
}
