package upload

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-attachedimages/pkg/formset"
)

// DefaultPreviewWidth is the thumbnail width used when none is configured.
const DefaultPreviewWidth = 200

// ErrUnavailable is returned when the capability gate reports the uploader
// cannot run in the current environment.
var ErrUnavailable = errors.New("upload: uploader is not available")

// Transport is the external component moving the bytes. The uploader only
// needs the number of transferred files once it reports completion.
type Transport interface {
	Files() int
}

// Resize describes the optional resize applied before upload.
type Resize struct {
	Enabled bool
	Width   int
}

// MaxWidth returns the width images are scaled down to, if resizing applies.
func (r Resize) MaxWidth() (int, bool) {
	if !r.Enabled || r.Width <= 0 {
		return 0, false
	}
	return r.Width, true
}

// Previewer renders a thumbnail for a pending file.
type Previewer interface {
	Preview(ctx context.Context, entry Entry, width int) (Preview, error)
}

// Resizer scales a pending file down to maxWidth before it is sent.
type Resizer interface {
	Resize(ctx context.Context, entry Entry, maxWidth int) (Entry, error)
}

// CompleteFunc receives the reconciled payload once every file transferred.
type CompleteFunc func(ctx context.Context, fields *formset.FieldSet) error

// Option customises an Uploader.
type Option func(*Uploader)

// WithPrefix overrides the formset prefix.
func WithPrefix(prefix formset.Prefix) Option {
	return func(u *Uploader) {
		if prefix != "" {
			u.prefix = prefix
		}
	}
}

// WithPreviewWidth sets the thumbnail width.
func WithPreviewWidth(width int) Option {
	return func(u *Uploader) {
		if width > 0 {
			u.previewWidth = width
		}
	}
}

// WithResize sets the initial resize options.
func WithResize(resize Resize) Option {
	return func(u *Uploader) {
		u.resize = resize
	}
}

// WithCapability installs the environment gate.
func WithCapability(capability Capability) Option {
	return func(u *Uploader) {
		u.capability = capability
	}
}

// WithPreviewer installs the thumbnail renderer.
func WithPreviewer(previewer Previewer) Option {
	return func(u *Uploader) {
		u.previewer = previewer
	}
}

// WithResizer installs the pre-upload resizer.
func WithResizer(resizer Resizer) Option {
	return func(u *Uploader) {
		u.resizer = resizer
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// OnBeforeProcess registers a hook run before files are prepared. It may
// update the resize options, for example from the inline checkbox.
func OnBeforeProcess(fn func(*Uploader)) Option {
	return func(u *Uploader) {
		u.beforeProcess = fn
	}
}

// OnUploadComplete registers the hook receiving the reconciled payload.
func OnUploadComplete(fn CompleteFunc) Option {
	return func(u *Uploader) {
		u.uploadComplete = fn
	}
}

// Uploader prepares batches and reconciles the form once the transport is done.
type Uploader struct {
	source         formset.Source
	prefix         formset.Prefix
	previewWidth   int
	resize         Resize
	capability     Capability
	previewer      Previewer
	resizer        Resizer
	logger         *zap.Logger
	beforeProcess  func(*Uploader)
	uploadComplete CompleteFunc
}

// New constructs an Uploader reading page state from source.
func New(source formset.Source, options ...Option) *Uploader {
	u := &Uploader{
		source:       source,
		prefix:       formset.DefaultPrefix,
		previewWidth: DefaultPreviewWidth,
		capability:   Always,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(u)
	}
	return u
}

// Prefix returns the formset prefix in use.
func (u *Uploader) Prefix() formset.Prefix {
	return u.prefix
}

// PreviewWidth returns the thumbnail width.
func (u *Uploader) PreviewWidth() int {
	return u.previewWidth
}

// Resize returns the current resize options.
func (u *Uploader) Resize() Resize {
	return u.resize
}

// SetResize replaces the resize options.
func (u *Uploader) SetResize(resize Resize) {
	u.resize = resize
}

// Available reports whether the capability gate lets the uploader run.
func (u *Uploader) Available() bool {
	return u.capability == nil || u.capability()
}

// Prepare runs the before-process hook, then resizes and previews every entry
// of batch in place.
func (u *Uploader) Prepare(ctx context.Context, batch *Batch) error {
	if !u.Available() {
		return ErrUnavailable
	}
	if u.beforeProcess != nil {
		u.beforeProcess(u)
	}

	maxWidth, resize := u.resize.MaxWidth()
	for _, entry := range batch.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}

		updated := entry
		if resize && u.resizer != nil {
			resized, err := u.resizer.Resize(ctx, updated, maxWidth)
			if err != nil {
				return fmt.Errorf("upload: resize %s: %w", entry.Name, err)
			}
			resized.ID = entry.ID
			updated = resized
		}
		if u.previewer != nil {
			preview, err := u.previewer.Preview(ctx, updated, u.previewWidth)
			if err != nil {
				u.logger.Warn("preview failed", zap.String("file", entry.Name), zap.Error(err))
			} else {
				updated.Preview = &preview
			}
		}
		if err := batch.Replace(updated); err != nil {
			return err
		}
	}

	u.logger.Debug("batch prepared",
		zap.Int("files", batch.Len()),
		zap.Bool("resize", resize),
		zap.Int("max_width", maxWidth),
	)
	return nil
}

// Complete is invoked when the transport has transferred every file. It reads
// the page once, builds the payload for the transferred files and hands it to
// the completion hook. A *Batch is consumed only once the hook accepted the
// payload, so a failed completion can be retried with the same batch.
func (u *Uploader) Complete(ctx context.Context, files formset.Counter) (*formset.FieldSet, error) {
	if !u.Available() {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count := files
	if count == nil {
		count = entryCount(0)
	}
	batch, _ := files.(*Batch)
	if batch != nil {
		if batch.Consumed() {
			return nil, ErrBatchConsumed
		}
		count = entryCount(batch.Len())
	}

	fields, err := formset.NewReconciler(u.source, u.prefix).Reconcile(ctx, count)
	if err != nil {
		u.logger.Error("reconcile form fields", zap.String("prefix", u.prefix.String()), zap.Error(err))
		return nil, err
	}

	if u.uploadComplete != nil {
		if err := u.uploadComplete(ctx, fields); err != nil {
			return nil, fmt.Errorf("upload: complete hook: %w", err)
		}
	}

	if batch != nil {
		if err := batch.consumeCount(count.Len()); err != nil {
			return nil, err
		}
	}

	u.logger.Info("upload complete",
		zap.Int("files", count.Len()),
		zap.Int("fields", fields.Len()),
	)
	return fields, nil
}

// CompleteTransport is Complete for a transport reporting its file count.
func (u *Uploader) CompleteTransport(ctx context.Context, transport Transport) (*formset.FieldSet, error) {
	if transport == nil {
		return u.Complete(ctx, entryCount(0))
	}
	return u.Complete(ctx, entryCount(transport.Files()))
}

type entryCount int

func (c entryCount) Len() int { return int(c) }
