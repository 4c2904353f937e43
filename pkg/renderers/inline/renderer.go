// Package inline renders the attached images inline: the uploader chrome shown
// above the standard formset plus the hidden fields it submits.
package inline

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-attachedimages/pkg/formset"
	"github.com/goliatone/go-attachedimages/pkg/render"
	rendertemplate "github.com/goliatone/go-attachedimages/pkg/render/template"
	"github.com/goliatone/go-attachedimages/pkg/render/template/gotemplate"
)

// Name is the registry name of the renderer.
const Name = "inline"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	translator       render.Translator
	themeSelector    theme.ThemeSelector
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator replaces the built-in message catalog.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithThemeSelector resolves theme tokens and the stylesheet asset per render.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
	}
}

// Renderer renders render.Inline values as HTML.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	translator    render.Translator
	themeSelector theme.ThemeSelector
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the inline renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.translator == nil {
		cfg.translator = DefaultCatalog()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("inline renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		translator:    cfg.translator,
		themeSelector: cfg.themeSelector,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the inline markup.
func (r *Renderer) Render(ctx context.Context, inline render.Inline, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("inline renderer: template renderer is nil")
	}

	themeCtx, err := r.resolveTheme(opts)
	if err != nil {
		return nil, err
	}

	prefix := inline.Prefix
	if prefix == "" {
		prefix = formset.DefaultPrefix
	}
	errs := render.MapFormsetErrors(prefix, opts.Errors)

	data := map[string]any{
		"inline":   inlineView(prefix, inline, errs),
		"messages": render.Messages(r.translator, opts.Lang, messageKeys...),
		"errors":   errorsView(errs, len(inline.Entries)),
		"theme":    themeMap(themeCtx),
	}

	result, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("inline renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func inlineView(prefix formset.Prefix, inline render.Inline, errs render.FormsetErrors) map[string]any {
	resizeWidth := ""
	if width, ok := inline.Resize.MaxWidth(); ok {
		resizeWidth = strconv.Itoa(width)
	} else if inline.Resize.Width > 0 {
		resizeWidth = strconv.Itoa(inline.Resize.Width)
	}

	previewWidth := inline.PreviewWidth
	if previewWidth <= 0 {
		previewWidth = 200
	}

	entries := make([]map[string]any, 0, len(inline.Entries))
	for i, entry := range inline.Entries {
		item := map[string]any{
			"id":      entry.ID.String(),
			"name":    sanitize(entry.Name),
			"caption": sanitize(inline.Captions[i]),
			"errors":  sanitizeAll(rowMessages(errs.Rows[i])),
		}
		if entry.Preview != nil && len(entry.Preview.Data) > 0 {
			item["preview"] = "data:" + entry.Preview.ContentType + ";base64," + base64.StdEncoding.EncodeToString(entry.Preview.Data)
			item["preview_width"] = entry.Preview.Width
			item["preview_height"] = entry.Preview.Height
		}
		entries = append(entries, item)
	}

	fields := make([]map[string]any, 0, inline.Fields.Len())
	for _, field := range render.HiddenFields(inline.Fields) {
		fields = append(fields, map[string]any{"name": field.Name, "value": field.Value})
	}

	return map[string]any{
		"prefix":         prefix.String(),
		"user_id":        inline.UserID,
		"available":      inline.Available,
		"resize_enabled": inline.Resize.Enabled,
		"resize_width":   resizeWidth,
		"preview_width":  previewWidth,
		"scripts":        inline.Scripts,
		"entries":        entries,
		"fields":         fields,
	}
}

func rowMessages(fields map[string][]string) []string {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		for _, message := range fields[name] {
			out = append(out, name+": "+message)
		}
	}
	return out
}

// errorsView collects the messages shown above the uploader. Row errors for
// rows without a thumbnail are listed with the formset messages.
func errorsView(errs render.FormsetErrors, entries int) map[string]any {
	if errs.Empty() {
		return map[string]any{}
	}
	formsetMessages := errs.Formset
	for _, index := range errs.RowIndexes() {
		if index < entries {
			continue
		}
		for _, message := range rowMessages(errs.Rows[index]) {
			formsetMessages = render.MergeFormErrors(formsetMessages, fmt.Sprintf("#%d %s", index+1, message))
		}
	}
	return map[string]any{
		"form":    sanitizeAll(render.MergeFormErrors(errs.Form, rowMessages(errs.Fields)...)),
		"formset": sanitizeAll(formsetMessages),
	}
}

func themeMap(view *themeView) map[string]any {
	if view == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":       view.Name,
		"variant":    view.Variant,
		"stylesheet": view.Stylesheet,
		"css_vars":   view.CSSVars,
	}
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitize strips markup from user supplied text; the template escapes what
// remains.
func sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

func sanitizeAll(messages []string) []string {
	var out []string
	for _, message := range messages {
		if cleaned := sanitize(message); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
