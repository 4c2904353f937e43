package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-attachedimages/pkg/config"
	"github.com/goliatone/go-attachedimages/pkg/formset"
	"github.com/goliatone/go-attachedimages/pkg/prompt"
)

const prefix = "generic_images-attachedimage-content_type-object_id"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseSnapshotKeepsOrder(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{name: "yaml mapping", ext: ".yaml", data: "title: Album\nslug: album\n_save: Save\n"},
		{name: "yaml list", ext: ".yml", data: "- name: title\n  value: Album\n- name: slug\n  value: album\n- name: _save\n  value: Save\n"},
		{name: "json object", ext: ".json", data: `{"title": "Album", "slug": "album", "_save": "Save"}`},
		{name: "urlencoded", ext: ".txt", data: "title=Album&slug=album&_save=Save\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := parseSnapshot([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff([]string{"title", "slug", "_save"}, set.Names()); diff != "" {
				t.Fatalf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSnapshotRejectsScalars(t *testing.T) {
	if _, err := parseSnapshot([]byte("just text"), ".yaml"); err == nil {
		t.Fatalf("expected error for scalar snapshot")
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-user", "7", "-format", "json", "a.jpg", "b.png"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if opts.user != "7" || opts.format != "json" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if diff := cmp.Diff([]string{"a.jpg", "b.png"}, opts.files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseFlags([]string{"-format", "xml"}); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestRunUrlencoded(t *testing.T) {
	dir := t.TempDir()
	form := writeFile(t, dir, "form.yaml", strings.Join([]string{
		"title: Album",
		"_save: Save",
		prefix + "-TOTAL_FORMS: \"1\"",
		prefix + "-INITIAL_FORMS: \"0\"",
		prefix + "-0-caption: stale",
	}, "\n"))
	image := writeFile(t, dir, "cat.jpg", "jpeg bytes")

	var out bytes.Buffer
	err := run(context.Background(), options{form: form, user: "3", format: "urlencoded", files: []string{image}}, nil, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "title=Album" +
		"&" + prefix + "-TOTAL_FORMS=1" +
		"&" + prefix + "-INITIAL_FORMS=0" +
		"&" + prefix + "-0-id=" +
		"&" + prefix + "-0-caption=" +
		"&" + prefix + "-0-order=0" +
		"&" + prefix + "-0-user=3\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunJSONAnnouncesGeneratedRows(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{user: "3", format: "json"}, nil, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var fields []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(out.Bytes(), &fields); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	got := map[string]string{}
	for _, field := range fields {
		got[field.Name] = field.Value
	}
	want := map[string]string{
		prefix + "-TOTAL_FORMS":   "0",
		prefix + "-INITIAL_FORMS": "0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRunReplacesStaleManagementCounts(t *testing.T) {
	dir := t.TempDir()
	form := writeFile(t, dir, "form.txt", prefix+"-TOTAL_FORMS=1&"+prefix+"-INITIAL_FORMS=1&title=Album")
	files := []string{
		writeFile(t, dir, "a.jpg", "a"),
		writeFile(t, dir, "b.jpg", "b"),
		writeFile(t, dir, "c.jpg", "c"),
	}

	var out bytes.Buffer
	if err := run(context.Background(), options{form: form, user: "3", format: "urlencoded", files: files}, nil, &out, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	fields, err := formset.ParseQuery(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got, _ := fields.Get(prefix + "-TOTAL_FORMS"); got != "3" {
		t.Fatalf("expected TOTAL_FORMS 3, got %q", got)
	}
	if got, _ := fields.Get(prefix + "-INITIAL_FORMS"); got != "0" {
		t.Fatalf("expected INITIAL_FORMS 0, got %q", got)
	}
}

func TestRunToRemovesOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "payload.txt")

	err := runTo(context.Background(), options{format: "json", lang: "fr", output: output}, nil, zap.NewNop())
	if !errors.Is(err, config.ErrUnsupportedLang) {
		t.Fatalf("expected ErrUnsupportedLang, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file after failure, stat err %v", statErr)
	}

	if err := runTo(context.Background(), options{format: "json", user: "1", output: output}, nil, zap.NewNop()); err != nil {
		t.Fatalf("run to file: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "TOTAL_FORMS") {
		t.Fatalf("unexpected output:\n%s", data)
	}
}

func TestExecuteExitCodes(t *testing.T) {
	if code := execute([]string{"-format", "xml"}); code != 2 {
		t.Fatalf("expected exit code 2 for bad flags, got %d", code)
	}
	output := filepath.Join(t.TempDir(), "out.json")
	if code := execute([]string{"-lang", "fr", "-output", output}); code != 1 {
		t.Fatalf("expected exit code 1 for failed run, got %d", code)
	}
}

func TestRunHTML(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{user: "3", format: "html"}, nil, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `<span id="request-user-id" hidden>3</span>`) {
		t.Fatalf("unexpected html:\n%s", out.String())
	}
}

func TestRunRejectsUnsupportedLang(t *testing.T) {
	err := run(context.Background(), options{format: "json", lang: "fr"}, nil, &bytes.Buffer{}, zap.NewNop())
	if !errors.Is(err, config.ErrUnsupportedLang) {
		t.Fatalf("expected ErrUnsupportedLang, got %v", err)
	}
}

func TestRunInteractiveUsesAnswers(t *testing.T) {
	dir := t.TempDir()
	image := writeFile(t, dir, "dog.jpg", "jpeg bytes")

	driver := &scriptedDriver{user: "11", files: image}
	var out bytes.Buffer
	err := run(context.Background(), options{format: "urlencoded", interactive: true}, driver, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	fields, err := formset.ParseQuery(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got, _ := fields.Get(prefix + "-0-user"); got != "11" {
		t.Fatalf("expected prompted user id, got %q", got)
	}
}

type scriptedDriver struct {
	user  string
	files string
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return d.user, nil
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return false, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	return nil, nil
}

func (d *scriptedDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	return d.files, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}
