package render

import (
	"context"

	"github.com/goliatone/go-attachedimages/pkg/formset"
	"github.com/goliatone/go-attachedimages/pkg/upload"
)

// Inline is the view model of the attached images inline: the uploader chrome
// state plus the hidden fields it submits.
type Inline struct {
	Prefix       formset.Prefix
	UserID       string
	Available    bool
	Resize       upload.Resize
	PreviewWidth int
	Scripts      []string
	Entries      []upload.Entry
	Fields       *formset.FieldSet
	Captions     map[int]string
}

// Renderer converts an Inline into a byte representation (HTML for the
// built-in renderer).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, inline Inline, options RenderOptions) ([]byte, error)
}
