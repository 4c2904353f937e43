package formset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Generated row field names and their defaults for a new attached image.
const (
	FieldID      = "id"
	FieldCaption = "caption"
	FieldOrder   = "order"
	FieldUser    = "user"

	defaultOrder = "0"
)

var reservedNames = [...]string{"_save", "_addanother", "_continue"}

// ReservedNames returns the submit-control names that are never resubmitted.
func ReservedNames() []string {
	out := make([]string, len(reservedNames))
	copy(out, reservedNames[:])
	return out
}

// IsReserved reports whether name is one of the reserved submit controls.
func IsReserved(name string) bool {
	for _, reserved := range reservedNames {
		if name == reserved {
			return true
		}
	}
	return false
}

// CleanupFields returns the fields that are safe to resubmit unchanged: it
// drops empty names, reserved submit controls and every field of the formset.
// The input is left untouched.
func (p Prefix) CleanupFields(fields *FieldSet) *FieldSet {
	out := &FieldSet{}
	for _, field := range fields.Fields() {
		if field.Name == "" || IsReserved(field.Name) || p.IsFormsetField(field.Name) {
			continue
		}
		out.Set(field.Name, field.Value)
	}
	return out
}

// NewFormsetFields generates one blank row per uploaded file, indexed from 0 in
// upload order. Each row has id, caption, order and user fields, so the result
// holds exactly 4*count fields.
func (p Prefix) NewFormsetFields(count int, userID string) *FieldSet {
	out := &FieldSet{}
	for i := 0; i < count; i++ {
		out.Set(p.FieldName(i, FieldID), "")
		out.Set(p.FieldName(i, FieldCaption), "")
		out.Set(p.FieldName(i, FieldOrder), defaultOrder)
		out.Set(p.FieldName(i, FieldUser), userID)
	}
	return out
}

// FormFields builds the payload to submit: cleaned existing fields, then the
// management fields verbatim, then the generated rows. Later sources win on
// collisions. Management fields missing either count, or announcing fewer
// rows than count, are rejected.
func (p Prefix) FormFields(existing, management *FieldSet, count int, userID string) (*FieldSet, error) {
	form, err := ParseManagementForm(p, management)
	if err != nil {
		return nil, err
	}
	if form.TotalForms < count {
		return nil, fmt.Errorf("%w: %s=%d but %d rows generated",
			ErrInvalidManagementForm, p.TotalFormsName(), form.TotalForms, count)
	}
	return Merge(
		p.CleanupFields(existing),
		management,
		p.NewFormsetFields(count, userID),
	), nil
}

// Counter is anything that knows how many files it holds. Upload batches and
// transports satisfy it.
type Counter interface {
	Len() int
}

// Source exposes the page state the reconciler reads.
type Source interface {
	ExistingFields(ctx context.Context) (*FieldSet, error)
	ManagementFields(ctx context.Context) (*FieldSet, error)
	UserID(ctx context.Context) (string, error)
}

// Reconciler binds a Source to a formset prefix.
type Reconciler struct {
	prefix Prefix
	source Source
}

// NewReconciler returns a Reconciler reading source. An empty prefix falls back
// to DefaultPrefix.
func NewReconciler(source Source, prefix Prefix) *Reconciler {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Reconciler{prefix: prefix, source: source}
}

// Prefix returns the formset prefix in use.
func (r *Reconciler) Prefix() Prefix {
	return r.prefix
}

// Reconcile reads the source once and returns the payload for batch.
func (r *Reconciler) Reconcile(ctx context.Context, batch Counter) (*FieldSet, error) {
	if r == nil || r.source == nil {
		return nil, ErrNilSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	existing, err := r.source.ExistingFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("formset: existing fields: %w", err)
	}
	management, err := r.source.ManagementFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("formset: management fields: %w", err)
	}
	userID, err := r.source.UserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("formset: user id: %w", err)
	}

	count := 0
	if batch != nil {
		count = batch.Len()
	}
	return r.prefix.FormFields(existing, management, count, userID)
}

// StaticSource is a Source over values captured ahead of time, such as a form
// snapshot posted by the browser or loaded from disk.
type StaticSource struct {
	Existing   *FieldSet
	Management *FieldSet
	User       string
}

func (s StaticSource) ExistingFields(context.Context) (*FieldSet, error) {
	return s.Existing.Clone(), nil
}

func (s StaticSource) ManagementFields(context.Context) (*FieldSet, error) {
	return s.Management.Clone(), nil
}

func (s StaticSource) UserID(context.Context) (string, error) {
	return s.User, nil
}

// SnapshotSource splits a full form snapshot into the existing and management
// sources for prefix. The snapshot's formset rows are dropped during cleanup
// and replaced by count generated rows, so the management fields always
// announce count rows and no initial ones, whatever the snapshot carried.
func SnapshotSource(prefix Prefix, snapshot *FieldSet, userID string, count int) StaticSource {
	return StaticSource{
		Existing:   snapshot.Clone(),
		Management: ManagementFor(prefix, count, 0),
		User:       userID,
	}
}

// RowIndex extracts the row index from a generated field name, returning false
// when name is not a row field of the prefix.
func (p Prefix) RowIndex(name string) (int, string, bool) {
	if !p.IsFormsetField(name) {
		return 0, "", false
	}
	rest := name[len(p):]
	if len(rest) < 2 || rest[0] != '-' {
		return 0, "", false
	}
	rawIndex, field, ok := strings.Cut(rest[1:], "-")
	if !ok || rawIndex == "" || field == "" {
		return 0, "", false
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 {
		return 0, "", false
	}
	return index, field, true
}

