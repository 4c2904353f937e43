package formset

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	totalFormsKey   = "TOTAL_FORMS"
	initialFormsKey = "INITIAL_FORMS"
)

// ManagementForm carries the bookkeeping counts a formset-aware server needs to
// parse a variable number of rows.
type ManagementForm struct {
	TotalForms   int
	InitialForms int
}

// Fields renders the counts as management fields for prefix.
func (m ManagementForm) Fields(prefix Prefix) *FieldSet {
	return NewFieldSet(
		Field{Name: prefix.TotalFormsName(), Value: strconv.Itoa(m.TotalForms)},
		Field{Name: prefix.InitialFormsName(), Value: strconv.Itoa(m.InitialForms)},
	)
}

// ManagementFor returns the management fields announcing total rows of which
// initial already exist.
func ManagementFor(prefix Prefix, total, initial int) *FieldSet {
	return ManagementForm{TotalForms: total, InitialForms: initial}.Fields(prefix)
}

// ParseManagementForm reads the management counts for prefix out of fields.
func ParseManagementForm(prefix Prefix, fields *FieldSet) (ManagementForm, error) {
	total, err := managementCount(fields, prefix.TotalFormsName())
	if err != nil {
		return ManagementForm{}, err
	}
	initial, err := managementCount(fields, prefix.InitialFormsName())
	if err != nil {
		return ManagementForm{}, err
	}
	return ManagementForm{TotalForms: total, InitialForms: initial}, nil
}

func managementCount(fields *FieldSet, name string) (int, error) {
	raw, ok := fields.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingManagementForm, name)
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidManagementForm, name, raw)
	}
	return count, nil
}
