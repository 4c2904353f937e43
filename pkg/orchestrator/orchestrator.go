package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-attachedimages/pkg/config"
	"github.com/goliatone/go-attachedimages/pkg/formset"
	"github.com/goliatone/go-attachedimages/pkg/preview"
	"github.com/goliatone/go-attachedimages/pkg/render"
	"github.com/goliatone/go-attachedimages/pkg/renderers/inline"
	"github.com/goliatone/go-attachedimages/pkg/upload"
)

const defaultRendererName = inline.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithConfig replaces the default inline configuration.
func WithConfig(cfg config.Config) Option {
	return func(o *Orchestrator) {
		o.cfg = cfg
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector resolves a theme per request unless the request already
// carries one.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithCapability gates the multi-file uploader.
func WithCapability(capability upload.Capability) Option {
	return func(o *Orchestrator) {
		o.capability = capability
	}
}

// WithPreviewer replaces the thumbnail generator.
func WithPreviewer(previewer upload.Previewer) Option {
	return func(o *Orchestrator) {
		o.previewer = previewer
	}
}

// WithResizer replaces the image resizer.
func WithResizer(resizer upload.Resizer) Option {
	return func(o *Orchestrator) {
		o.resizer = resizer
	}
}

// WithLogger sets the logger handed to every uploader.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OnUploadComplete registers the hook receiving reconciled payloads.
func OnUploadComplete(fn upload.CompleteFunc) Option {
	return func(o *Orchestrator) {
		o.onComplete = fn
	}
}

// Orchestrator coordinates the inline from page state to rendered output and
// submitted payload. It applies sensible defaults (inline renderer, built-in
// thumbnail generator) while remaining open to dependency injection.
type Orchestrator struct {
	cfg             config.Config
	registry        *render.Registry
	defaultRenderer string
	themeSelector   theme.ThemeSelector
	capability      upload.Capability
	previewer       upload.Previewer
	resizer         upload.Resizer
	logger          *zap.Logger
	onComplete      upload.CompleteFunc
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:             config.Default(),
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render or submission of the inline.
type Request struct {
	// Source reads the page: existing fields, management fields and user.
	Source formset.Source

	// Batch holds the files selected for upload. Optional.
	Batch *upload.Batch

	// Resize overrides the configured resize options when set.
	Resize *upload.Resize

	// Captions pre-fills captions by batch index.
	Captions map[int]string

	// Hidden adds page-level hidden inputs, such as a CSRF token, to the
	// rendered fields. Later entries win on name collisions.
	Hidden []render.HiddenField

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// RenderOptions carries language, server-side errors and theme choices.
	RenderOptions render.RenderOptions
}

// Config returns the configuration in use.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}

// Uploader builds an uploader reading page state from source with the
// configured prefix, widths and collaborators.
func (o *Orchestrator) Uploader(source formset.Source, resize upload.Resize) *upload.Uploader {
	return upload.New(source,
		upload.WithPrefix(o.cfg.Prefix()),
		upload.WithPreviewWidth(o.cfg.PreviewWidth),
		upload.WithResize(resize),
		upload.WithCapability(o.capability),
		upload.WithPreviewer(o.previewer),
		upload.WithResizer(o.resizer),
		upload.WithLogger(o.logger),
		upload.OnUploadComplete(o.onComplete),
	)
}

// Generate prepares the batch (resize and previews) and renders the inline
// with the hidden fields the form would submit for it. The batch is not
// consumed.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.check(ctx, req); err != nil {
		return nil, err
	}

	uploader := o.Uploader(req.Source, o.resizeFor(req))
	available := uploader.Available()
	if available && req.Batch.Len() > 0 {
		if err := uploader.Prepare(ctx, req.Batch); err != nil {
			return nil, fmt.Errorf("orchestrator: prepare batch: %w", err)
		}
	}

	fields, err := formset.NewReconciler(req.Source, uploader.Prefix()).Reconcile(ctx, req.Batch)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: reconcile fields: %w", err)
	}
	if len(req.Hidden) > 0 {
		fields = render.MergeHiddenFields(fields, req.Hidden...)
	}
	userID, err := req.Source.UserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: user id: %w", err)
	}

	opts, err := o.renderOptions(req.RenderOptions)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	view := render.Inline{
		Prefix:       uploader.Prefix(),
		UserID:       userID,
		Available:    available,
		Resize:       uploader.Resize(),
		PreviewWidth: uploader.PreviewWidth(),
		Scripts:      o.cfg.Scripts(),
		Entries:      req.Batch.Entries(),
		Fields:       fields,
		Captions:     req.Captions,
	}
	output, err := renderer.Render(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Submit completes the upload of req.Batch: the batch is consumed and the
// reconciled payload returned after the completion hook ran.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*formset.FieldSet, error) {
	if err := o.check(ctx, req); err != nil {
		return nil, err
	}
	return o.Uploader(req.Source, o.resizeFor(req)).Complete(ctx, req.Batch)
}

func (o *Orchestrator) check(ctx context.Context, req Request) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.initialiseErr; err != nil {
		return err
	}
	if req.Source == nil {
		return fmt.Errorf("orchestrator: %w", formset.ErrNilSource)
	}
	return nil
}

func (o *Orchestrator) resizeFor(req Request) upload.Resize {
	if req.Resize != nil {
		return *req.Resize
	}
	return upload.Resize{Enabled: o.cfg.MaxWidth > 0, Width: o.cfg.MaxWidth}
}

func (o *Orchestrator) renderOptions(opts render.RenderOptions) (render.RenderOptions, error) {
	if opts.Lang == "" {
		opts.Lang = o.cfg.Lang
	}
	if opts.Theme != nil || o.themeSelector == nil {
		return opts, nil
	}
	selection, err := o.themeSelector.Select(opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return opts, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	opts.Theme = selection
	return opts, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	o.defaultsApplied = true

	o.cfg = o.cfg.WithDefaults()
	if err := o.cfg.Validate(); err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: config: %w", err)
		return
	}
	if o.capability == nil {
		o.capability = upload.Always
	}
	if o.previewer == nil || o.resizer == nil {
		generator := preview.NewGenerator()
		if o.previewer == nil {
			o.previewer = generator
		}
		if o.resizer == nil {
			o.resizer = generator
		}
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := inline.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
