package formset

import (
	"strconv"
	"strings"
)

// DefaultPrefix is the name prefix of the attached image inline formset.
const DefaultPrefix Prefix = "generic_images-attachedimage-content_type-object_id"

const (
	defaultCTField = "content_type"
	defaultFKField = "object_id"
)

// Prefix identifies the fields that belong to one dynamic formset.
type Prefix string

// GenericPrefix derives the default prefix a generic inline formset uses for
// the given model: "{app}-{model}-{ct_field}-{fk_field}". Empty relation
// field names fall back to content_type and object_id.
func GenericPrefix(appLabel, model, ctField, fkField string) Prefix {
	if strings.TrimSpace(ctField) == "" {
		ctField = defaultCTField
	}
	if strings.TrimSpace(fkField) == "" {
		fkField = defaultFKField
	}
	parts := []string{
		strings.ToLower(strings.TrimSpace(appLabel)),
		strings.ToLower(strings.TrimSpace(model)),
		strings.TrimSpace(ctField),
		strings.TrimSpace(fkField),
	}
	return Prefix(strings.Join(parts, "-"))
}

func (p Prefix) String() string {
	return string(p)
}

// IsFormsetField reports whether name starts with the prefix. Empty names
// never match.
func (p Prefix) IsFormsetField(name string) bool {
	if name == "" || p == "" {
		return false
	}
	return strings.HasPrefix(name, string(p))
}

// FieldName returns the submitted name of field in the row at index, e.g.
// "{prefix}-0-caption".
func (p Prefix) FieldName(index int, field string) string {
	return string(p) + "-" + strconv.Itoa(index) + "-" + field
}

// TotalFormsName is the management field holding the number of submitted rows.
func (p Prefix) TotalFormsName() string {
	return string(p) + "-" + totalFormsKey
}

// InitialFormsName is the management field holding the number of rows that
// already existed on the server.
func (p Prefix) InitialFormsName() string {
	return string(p) + "-" + initialFormsKey
}
