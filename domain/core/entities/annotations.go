package entities

import (
	"sort"
	"strings"
)

// Attributes are free-form key/value annotations attached to a design
// element.
type Attributes map[string]string

// Clone returns an independent copy. A nil map stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Tags is a sorted set of labels.
type Tags []string

// Has reports whether tag is in the set.
func (t Tags) Has(tag string) bool {
	i := sort.SearchStrings(t, tag)
	return i < len(t) && t[i] == tag
}

// With returns the set with tag added. The receiver is not modified.
func (t Tags) With(tag string) Tags {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.Has(tag) {
		return t.Clone()
	}
	out := make(Tags, 0, len(t)+1)
	out = append(out, t...)
	out = append(out, tag)
	sort.Strings(out)
	return out
}

// Without returns the set with tag removed. The receiver is not modified.
func (t Tags) Without(tag string) Tags {
	out := make(Tags, 0, len(t))
	for _, existing := range t {
		if existing != tag {
			out = append(out, existing)
		}
	}
	return out
}

// Clone returns an independent copy.
func (t Tags) Clone() Tags {
	if t == nil {
		return nil
	}
	out := make(Tags, len(t))
	copy(out, t)
	return out
}
