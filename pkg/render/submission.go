package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-attachedimages/pkg/formset"
)

// HiddenField represents a hidden form input emitted by the inline.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// HiddenFields lists the payload as hidden inputs in submission order. Empty
// names are dropped.
func HiddenFields(fields *formset.FieldSet) []HiddenField {
	var out []HiddenField
	for _, field := range fields.Fields() {
		if strings.TrimSpace(field.Name) == "" {
			continue
		}
		out = append(out, HiddenField{Name: field.Name, Value: field.Value})
	}
	return out
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base *formset.FieldSet, fields ...HiddenField) *formset.FieldSet {
	out := &formset.FieldSet{}
	for _, field := range base.Fields() {
		if name := strings.TrimSpace(field.Name); name != "" {
			out.Set(name, field.Value)
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out.Set(name, field.Value)
	}
	return out
}

// Encode serialises the payload as application/x-www-form-urlencoded keeping
// the field order, unlike url.Values.Encode which sorts by name.
func Encode(fields *formset.FieldSet) string {
	var b strings.Builder
	for i, field := range fields.Fields() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
	}
	return b.String()
}
