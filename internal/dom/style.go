package dom

import (
	"slices"
	"strings"
)

// Style is an ordered CSS-like property map. The zero value is not usable;
// use NewStyle. Read methods accept a nil receiver.
type Style struct {
	keys []string
	vals map[string]string
}

// NewStyle returns an empty Style.
func NewStyle() *Style {
	return &Style{vals: make(map[string]string)}
}

// StyleOf builds a Style from alternating key, value arguments.
func StyleOf(kv ...string) *Style {
	s := NewStyle()
	for i := 0; i+1 < len(kv); i += 2 {
		s.Set(kv[i], kv[i+1])
	}
	return s
}

// Get returns the value for key and whether it is set.
func (s *Style) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.vals[key]
	return v, ok
}

// Value returns the value for key or "".
func (s *Style) Value(key string) string {
	v, _ := s.Get(key)
	return v
}

// Has reports whether key is set.
func (s *Style) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set assigns key. New keys are appended to the iteration order.
func (s *Style) Set(key, val string) {
	if _, ok := s.vals[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = val
}

// Delete removes key and reports whether it was set.
func (s *Style) Delete(key string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.vals[key]; !ok {
		return false
	}
	delete(s.vals, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
	return true
}

// Len returns the number of properties.
func (s *Style) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the property names in insertion order.
func (s *Style) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Clone returns an independent copy. Cloning nil yields an empty Style.
func (s *Style) Clone() *Style {
	c := NewStyle()
	if s == nil {
		return c
	}
	for _, k := range s.keys {
		c.Set(k, s.vals[k])
	}
	return c
}

// Update copies every property of o into s, overriding existing values.
func (s *Style) Update(o *Style) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		s.Set(k, o.vals[k])
	}
}

// Equal reports whether both styles hold the same properties, ignoring
// order.
func (s *Style) Equal(o *Style) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, k := range s.Keys() {
		v, ok := o.Get(k)
		if !ok || v != s.vals[k] {
			return false
		}
	}
	return true
}

// String renders the style as a CSS declaration list with keys sorted, so
// output does not depend on the order properties were discovered in.
func (s *Style) String() string {
	keys := s.Keys()
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+s.vals[k])
	}
	return strings.Join(parts, "; ")
}
