package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-attachedimages/pkg/config"
	"github.com/goliatone/go-attachedimages/pkg/formset"
)

func TestParseYAMLAppliesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("lang: RU\nmax_width: 1024\n"), ".yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := config.Config{
		Lang:          "ru",
		MaxWidth:      1024,
		FormsetPrefix: formset.DefaultPrefix.String(),
		PreviewWidth:  config.DefaultPreviewWidth,
		MediaPrefix:   config.DefaultMediaPrefix,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON(t *testing.T) {
	cfg, err := config.Parse([]byte(`{"debug": true, "formset_prefix": "photos-photo-content_type-object_id"}`), ".json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Prefix() != "photos-photo-content_type-object_id" || !cfg.Debug {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseDerivesPrefixFromModel(t *testing.T) {
	cfg, err := config.Parse([]byte("app_label: Photos\nmodel: Photo\nfk_field: obj_pk\n"), ".yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, want := cfg.Prefix(), formset.Prefix("photos-photo-content_type-obj_pk"); got != want {
		t.Fatalf("prefix = %q, want %q", got, want)
	}

	explicit, err := config.Parse([]byte("app_label: photos\nmodel: photo\nformset_prefix: custom\n"), ".yaml")
	if err != nil {
		t.Fatalf("parse explicit: %v", err)
	}
	if explicit.Prefix() != "custom" {
		t.Fatalf("explicit prefix overridden: %q", explicit.Prefix())
	}

	partial := config.Config{Model: "photo"}.WithDefaults()
	if partial.Prefix() != formset.DefaultPrefix {
		t.Fatalf("prefix without app label = %q", partial.Prefix())
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	if _, err := config.Parse([]byte("lang: de"), ".yml"); !errors.Is(err, config.ErrUnsupportedLang) {
		t.Fatalf("expected ErrUnsupportedLang, got %v", err)
	}
	if _, err := config.Parse([]byte("max_width: -1"), ".yml"); !errors.Is(err, config.ErrInvalidWidth) {
		t.Fatalf("expected ErrInvalidWidth, got %v", err)
	}
	if _, err := config.Parse([]byte("lang = en"), ".toml"); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestLoadAndLoadFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inline.yaml")
	if err := os.WriteFile(path, []byte("preview_width: 120\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PreviewWidth != 120 {
		t.Fatalf("unexpected preview width %d", cfg.PreviewWidth)
	}

	fsys := fstest.MapFS{"conf/inline.json": {Data: []byte(`{"lang": "ru"}`)}}
	cfg, err = config.LoadFS(fsys, "conf/inline.json")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if cfg.Lang != "ru" {
		t.Fatalf("unexpected lang %q", cfg.Lang)
	}
}

func TestScripts(t *testing.T) {
	cfg := config.Default()
	want := []string{
		"generic_images/js/mootools-1.2.4-core-yc.js",
		"generic_images/js/GearsUploader.en.yui.js",
		"generic_images/js/AttachedImageInline.js",
	}
	if diff := cmp.Diff(want, cfg.Scripts()); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}

	cfg.Lang = "ru"
	cfg.Debug = true
	if got := cfg.Scripts()[1]; got != "generic_images/js/GearsUploader.ru.js" {
		t.Fatalf("unexpected debug script %q", got)
	}
}
