package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-attachedimages/pkg/config"
	"github.com/goliatone/go-attachedimages/pkg/formset"
	"github.com/goliatone/go-attachedimages/pkg/render"
	"github.com/goliatone/go-attachedimages/pkg/upload"
)

func pageSource() formset.StaticSource {
	return formset.StaticSource{
		Existing: formset.NewFieldSet(
			formset.Field{Name: "title", Value: "Album"},
			formset.Field{Name: "_continue", Value: "Save and continue"},
			formset.Field{Name: formset.DefaultPrefix.FieldName(0, "caption"), Value: "stale"},
		),
		Management: formset.ManagementFor(formset.DefaultPrefix, 2, 0),
		User:       "9",
	}
}

func TestOrchestrator_GenerateRendersInline(t *testing.T) {
	orch := New(WithConfig(config.Config{MaxWidth: 1024, Debug: true}))

	batch := upload.NewBatch(upload.FromBytes("a.png", "image/png", samplePNG(t, 40, 20)))
	out, err := orch.Generate(context.Background(), Request{Source: pageSource(), Batch: batch})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`generic_images/js/GearsUploader.en.js`,
		`id="gears-resize-needed" checked`,
		`value="1024"`,
		`name="title" value="Album"`,
		`name="generic_images-attachedimage-content_type-object_id-0-user" value="9"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, `name="_continue"`) || strings.Contains(html, "stale") {
		t.Fatalf("reserved or stale formset fields leaked:\n%s", html)
	}
	if !strings.Contains(html, `width="40" height="20"`) {
		t.Fatalf("expected prepared preview:\n%s", html)
	}
	if batch.Consumed() {
		t.Fatalf("generate must not consume the batch")
	}
}

func samplePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, height/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestOrchestrator_GenerateWithoutCapabilityShowsInstallMessage(t *testing.T) {
	orch := New(WithCapability(func() bool { return false }))

	out, err := orch.Generate(context.Background(), Request{Source: pageSource()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `id="gears-please-install"`) {
		t.Fatalf("expected install message:\n%s", out)
	}
}

func TestOrchestrator_SubmitConsumesBatch(t *testing.T) {
	var hooked *formset.FieldSet
	orch := New(OnUploadComplete(func(_ context.Context, fields *formset.FieldSet) error {
		hooked = fields
		return nil
	}))

	batch := upload.NewBatch(
		upload.FromBytes("a.jpg", "image/jpeg", []byte("a")),
		upload.FromBytes("b.jpg", "image/jpeg", []byte("b")),
	)
	req := Request{Source: pageSource(), Batch: batch}

	fields, err := orch.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if hooked != fields {
		t.Fatalf("completion hook did not receive the payload")
	}

	prefix := formset.DefaultPrefix
	want := []string{
		"title",
		prefix.TotalFormsName(),
		prefix.InitialFormsName(),
	}
	for i := 0; i < 2; i++ {
		for _, field := range []string{"id", "caption", "order", "user"} {
			want = append(want, prefix.FieldName(i, field))
		}
	}
	if diff := cmp.Diff(want, fields.Names()); diff != "" {
		t.Fatalf("payload names mismatch (-want +got):\n%s", diff)
	}

	if _, err := orch.Submit(context.Background(), req); !errors.Is(err, upload.ErrBatchConsumed) {
		t.Fatalf("expected ErrBatchConsumed on resubmit, got %v", err)
	}
}

func TestOrchestrator_RequiresSource(t *testing.T) {
	orch := New()
	if _, err := orch.Generate(context.Background(), Request{}); !errors.Is(err, formset.ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}

func TestOrchestrator_RejectsInvalidConfig(t *testing.T) {
	orch := New(WithConfig(config.Config{Lang: "de"}))
	if _, err := orch.Generate(context.Background(), Request{Source: pageSource()}); !errors.Is(err, config.ErrUnsupportedLang) {
		t.Fatalf("expected ErrUnsupportedLang, got %v", err)
	}
}

func TestOrchestrator_MissingManagementFailsFast(t *testing.T) {
	source := pageSource()
	source.Management = nil

	orch := New()
	if _, err := orch.Generate(context.Background(), Request{Source: source}); !errors.Is(err, formset.ErrMissingManagementForm) {
		t.Fatalf("expected ErrMissingManagementForm, got %v", err)
	}
}

func TestOrchestrator_PassesThemeAndLangToRenderer(t *testing.T) {
	selection := &theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: &theme.Manifest{Name: "acme", Version: "1.0.0"},
	}
	selector := &stubThemeSelector{selection: selection}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithConfig(config.Config{Lang: "ru"}),
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithThemeSelector(selector),
	)

	_, err := orch.Generate(context.Background(), Request{
		Source: pageSource(),
		RenderOptions: render.RenderOptions{
			ThemeName:    "acme",
			ThemeVariant: "dark",
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(selector.calls) != 1 || selector.calls[0] != (selectorCall{name: "acme", variant: "dark"}) {
		t.Fatalf("unexpected selector calls: %+v", selector.calls)
	}
	if renderer.options.Theme != selection {
		t.Fatalf("expected selection passed to renderer")
	}
	if renderer.options.Lang != "ru" {
		t.Fatalf("expected configured language, got %q", renderer.options.Lang)
	}
	if renderer.inline.UserID != "9" {
		t.Fatalf("unexpected user id %q", renderer.inline.UserID)
	}
}

func TestOrchestrator_GenerateAddsHiddenFields(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	orch := New(WithRegistry(registry), WithDefaultRenderer(renderer.Name()))

	_, err := orch.Generate(context.Background(), Request{
		Source: pageSource(),
		Hidden: []render.HiddenField{
			render.Hidden("csrfmiddlewaretoken", "abc"),
			render.Hidden("title", "Renamed"),
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	fields := renderer.inline.Fields
	if got, _ := fields.Get("csrfmiddlewaretoken"); got != "abc" {
		t.Fatalf("csrf token = %q", got)
	}
	if got, _ := fields.Get("title"); got != "Renamed" {
		t.Fatalf("title = %q", got)
	}
	all := fields.Fields()
	if diff := cmp.Diff(formset.Field{Name: "csrfmiddlewaretoken", Value: "abc"}, all[len(all)-1]); diff != "" {
		t.Fatalf("hidden field order mismatch (-want +got):\n%s", diff)
	}
	if all[0].Name != "title" {
		t.Fatalf("existing field moved: %+v", all)
	}
}

func TestOrchestrator_UnknownRenderer(t *testing.T) {
	orch := New()
	_, err := orch.Generate(context.Background(), Request{Source: pageSource(), Renderer: "missing"})
	if err == nil || !strings.Contains(err.Error(), `renderer "missing"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
}

type captureRenderer struct {
	inline  render.Inline
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, inline render.Inline, opts render.RenderOptions) ([]byte, error) {
	r.inline = inline
	r.options = opts
	return []byte(inline.Prefix), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
