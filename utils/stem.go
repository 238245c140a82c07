package utils

import "strconv"

// NewStem creates a name allocator producing stem1, stem2, ... and skipping
// every name already present in taken. A nil taken set means nothing is reserved.
func NewStem(stem string, taken map[string]struct{}) *Stem {
	return &Stem{
		taken: taken,
		stem:  stem,
	}
}

// Stem is not safe for concurrent use; callers serialize access.
type Stem struct {
	taken map[string]struct{}
	stem  string
	last  int
}

func (s *Stem) Next() string {
	if s.taken == nil {
		s.taken = make(map[string]struct{})
	}

	for {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name
		}
	}
}

// Reserve marks a name as used so Next never returns it.
func (s *Stem) Reserve(name string) {
	if s.taken == nil {
		s.taken = make(map[string]struct{})
	}

	s.taken[name] = struct{}{}
}

// Issued returns how many candidate suffixes were consumed so far.
func (s *Stem) Issued() int {
	return s.last
}
