package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-attachedimages/pkg/formset"
)

// FormsetErrors splits an admin error payload by where the messages belong.
type FormsetErrors struct {
	// Rows holds per-row messages keyed by row index, then field name.
	Rows map[int]map[string][]string
	// Formset holds messages attached to the formset as a whole, such as a
	// rejected management form.
	Formset []string
	// Fields holds messages for the parent object's own fields.
	Fields map[string][]string
	// Form holds form-level messages.
	Form []string
}

// RowIndexes returns the indexes that carry errors, ascending.
func (e FormsetErrors) RowIndexes() []int {
	out := make([]int, 0, len(e.Rows))
	for index := range e.Rows {
		out = append(out, index)
	}
	sort.Ints(out)
	return out
}

// Empty reports whether no messages were mapped.
func (e FormsetErrors) Empty() bool {
	return len(e.Rows) == 0 && len(e.Formset) == 0 && len(e.Fields) == 0 && len(e.Form) == 0
}

// MapFormsetErrors normalises the payload (trimming and de-duplicating
// messages) and routes each key: "{prefix}-{i}-{field}" to Rows, other names
// under the prefix to Formset, form-level keys such as "__all__" to Form and
// everything else to Fields.
func MapFormsetErrors(prefix formset.Prefix, payload map[string][]string) FormsetErrors {
	var out FormsetErrors

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		messages := normalizeMessages(payload[rawKey])
		if len(messages) == 0 {
			continue
		}
		key := strings.TrimSpace(rawKey)

		switch {
		case isFormLevelKey(key):
			out.Form = append(out.Form, messages...)
		case prefix.IsFormsetField(key):
			index, field, ok := prefix.RowIndex(key)
			if !ok {
				out.Formset = append(out.Formset, messages...)
				continue
			}
			if out.Rows == nil {
				out.Rows = make(map[int]map[string][]string)
			}
			if out.Rows[index] == nil {
				out.Rows[index] = make(map[string][]string)
			}
			out.Rows[index][field] = append(out.Rows[index][field], messages...)
		default:
			if out.Fields == nil {
				out.Fields = make(map[string][]string)
			}
			out.Fields[key] = append(out.Fields[key], messages...)
		}
	}

	out.Form = normalizeMessages(out.Form)
	out.Formset = normalizeMessages(out.Formset)
	return out
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
