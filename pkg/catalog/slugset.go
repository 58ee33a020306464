package catalog

// SlugSet is an insertion-ordered set of slugs.
type SlugSet struct {
	seen  map[string]struct{}
	order []string
}

// NewSlugSet creates an empty set
func NewSlugSet() *SlugSet {
	return &SlugSet{seen: make(map[string]struct{})}
}

// Add appends slug if it has not been seen and reports whether it was new
func (s *SlugSet) Add(slug string) bool {
	if _, ok := s.seen[slug]; ok {
		return false
	}
	s.seen[slug] = struct{}{}
	s.order = append(s.order, slug)
	return true
}

// AddAll adds every slug in order and returns how many were new
func (s *SlugSet) AddAll(slugs []string) int {
	added := 0
	for _, slug := range slugs {
		if s.Add(slug) {
			added++
		}
	}
	return added
}

// Contains reports whether slug has been added
func (s *SlugSet) Contains(slug string) bool {
	_, ok := s.seen[slug]
	return ok
}

// Len returns the number of unique slugs
func (s *SlugSet) Len() int {
	return len(s.order)
}

// Slugs returns a copy of the slugs in first-seen order
func (s *SlugSet) Slugs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
