// Package attachedimages renders an image upload inline for admin forms and
// builds the form payload that attaches the uploaded images to the parent
// record through a generic relation.
package attachedimages

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-attachedimages/pkg/formset"
	"github.com/goliatone/go-attachedimages/pkg/orchestrator"
	"github.com/goliatone/go-attachedimages/pkg/render"
	"github.com/goliatone/go-attachedimages/pkg/renderers/inline"
	"github.com/goliatone/go-attachedimages/pkg/upload"
)

// FieldSet is the ordered field-name to value mapping submitted by the form.
type FieldSet = formset.FieldSet

// Prefix identifies the fields owned by the dynamic formset.
type Prefix = formset.Prefix

// Batch holds the files selected for upload.
type Batch = upload.Batch

// Request describes one render or submission of the inline.
type Request = orchestrator.Request

// RenderOptions describes per-request language, errors and theme choices.
type RenderOptions = render.RenderOptions

// DefaultPrefix is the formset prefix of the attached images inline.
const DefaultPrefix = formset.DefaultPrefix

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewUploader builds an uploader over source with the default prefix.
func NewUploader(source formset.Source, options ...upload.Option) *upload.Uploader {
	return upload.New(source, options...)
}

// FormFields merges the cleaned existing fields, the management fields and
// one generated row per file, using the default prefix.
func FormFields(existing, management *FieldSet, files int, userID string) (*FieldSet, error) {
	return DefaultPrefix.FormFields(existing, management, files, userID)
}

// GenerateHTML renders the inline for the page read from source and the
// selected files in batch.
func GenerateHTML(ctx context.Context, source formset.Source, batch *Batch, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, Request{
		Source: source,
		Batch:  batch,
	})
}

// EmbeddedTemplates exposes the built-in inline templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return inline.TemplatesFS()
}
