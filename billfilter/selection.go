package billfilter

import "sort"

// Selection is an unordered set of bill keys.
type Selection map[string]struct{}

func NewSelection(keys ...string) Selection {
	s := make(Selection, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s Selection) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Selection) Add(key string) {
	s[key] = struct{}{}
}

func (s Selection) Remove(key string) {
	delete(s, key)
}

// Toggle removes key when selected and adds it otherwise.
func (s Selection) Toggle(key string) {
	if s.Has(key) {
		s.Remove(key)
		return
	}
	s.Add(key)
}

func (s Selection) Len() int {
	return len(s)
}

func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// IDs returns the keys sorted, for stable output.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for k := range s {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}
