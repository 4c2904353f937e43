package formset

import (
	"net/url"
	"sort"
	"strings"
)

// Field is a single name/value pair of a form payload.
type Field struct {
	Name  string
	Value string
}

// FieldSet is an ordered mapping of field names to values. Names are unique;
// setting an existing name replaces its value but keeps its position. The zero
// value is ready to use and a nil *FieldSet reads as empty.
type FieldSet struct {
	names  []string
	values map[string]string
}

// NewFieldSet returns a set holding the provided fields in order.
func NewFieldSet(fields ...Field) *FieldSet {
	set := &FieldSet{}
	for _, field := range fields {
		set.Set(field.Name, field.Value)
	}
	return set
}

// FromMap builds a set from an unordered map. Names are sorted so the result
// is deterministic.
func FromMap(values map[string]string) *FieldSet {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	set := &FieldSet{}
	for _, name := range names {
		set.Set(name, values[name])
	}
	return set
}

// FromValues builds a set from parsed form values, keeping the first value of
// each name. Names are sorted because url.Values does not preserve order.
func FromValues(values url.Values) *FieldSet {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	set := &FieldSet{}
	for _, name := range names {
		var value string
		if vs := values[name]; len(vs) > 0 {
			value = vs[0]
		}
		set.Set(name, value)
	}
	return set
}

// ParseQuery parses an application/x-www-form-urlencoded payload keeping the
// order in which names first appear.
func ParseQuery(raw string) (*FieldSet, error) {
	set := &FieldSet{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		if set.Has(name) {
			continue
		}
		set.Set(name, value)
	}
	return set, nil
}

// Set assigns value to name.
func (s *FieldSet) Set(name, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, exists := s.values[name]; !exists {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

// Get returns the value stored under name.
func (s *FieldSet) Get(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s.values[name]
	return value, ok
}

// Has reports whether name is present.
func (s *FieldSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Delete removes name from the set.
func (s *FieldSet) Delete(name string) {
	if s == nil {
		return
	}
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, existing := range s.names {
		if existing == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (s *FieldSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the field names in order.
func (s *FieldSet) Names() []string {
	if s.Len() == 0 {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Fields returns the name/value pairs in order.
func (s *FieldSet) Fields() []Field {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Field, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, Field{Name: name, Value: s.values[name]})
	}
	return out
}

// Map returns an unordered copy of the set.
func (s *FieldSet) Map() map[string]string {
	if s.Len() == 0 {
		return nil
	}
	out := make(map[string]string, len(s.names))
	for _, name := range s.names {
		out[name] = s.values[name]
	}
	return out
}

// Clone returns an independent copy.
func (s *FieldSet) Clone() *FieldSet {
	out := &FieldSet{}
	for _, field := range s.Fields() {
		out.Set(field.Name, field.Value)
	}
	return out
}

// Merge combines the sets in order into a new set. A later set overwrites the
// value of a name already present; nil sets are skipped.
func Merge(sets ...*FieldSet) *FieldSet {
	out := &FieldSet{}
	for _, set := range sets {
		for _, field := range set.Fields() {
			out.Set(field.Name, field.Value)
		}
	}
	return out
}
