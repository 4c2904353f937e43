// Package config holds the options of the attached images inline: uploader
// language, default resize width, debug scripts and formset prefix.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-attachedimages/pkg/formset"
)

const (
	DefaultLang         = "en"
	DefaultPreviewWidth = 200
	DefaultMediaPrefix  = "generic_images/js/"
)

var (
	// ErrUnsupportedLang is returned for languages without uploader messages.
	ErrUnsupportedLang = errors.New("config: unsupported language")
	// ErrInvalidWidth is returned for negative widths.
	ErrInvalidWidth = errors.New("config: width must not be negative")
)

var supportedLangs = [...]string{"en", "ru"}

// Config configures one inline.
type Config struct {
	// Lang selects the uploader messages and script bundle.
	Lang string `yaml:"lang" json:"lang"`
	// MaxWidth pre-fills the resize width; a positive value also checks the
	// resize box. Zero leaves both blank.
	MaxWidth int `yaml:"max_width" json:"max_width"`
	// Debug serves the unminified uploader script.
	Debug bool `yaml:"debug" json:"debug"`
	// FormsetPrefix overrides the inline formset prefix. When empty it is
	// derived from AppLabel and Model, or falls back to the default prefix.
	FormsetPrefix string `yaml:"formset_prefix" json:"formset_prefix"`
	// AppLabel and Model name the image model the inline edits.
	AppLabel string `yaml:"app_label" json:"app_label"`
	Model    string `yaml:"model" json:"model"`
	// CTField and FKField name the generic relation fields. Empty values
	// mean content_type and object_id.
	CTField string `yaml:"ct_field" json:"ct_field"`
	FKField string `yaml:"fk_field" json:"fk_field"`
	// PreviewWidth is the thumbnail width in pixels.
	PreviewWidth int `yaml:"preview_width" json:"preview_width"`
	// MediaPrefix is prepended to script names.
	MediaPrefix string `yaml:"media_prefix" json:"media_prefix"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Lang:          DefaultLang,
		FormsetPrefix: formset.DefaultPrefix.String(),
		PreviewWidth:  DefaultPreviewWidth,
		MediaPrefix:   DefaultMediaPrefix,
	}
}

// Load reads a YAML or JSON file from disk.
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", filename, err)
	}
	return Parse(data, filepath.Ext(filename))
}

// LoadFS reads a YAML or JSON file from fsys.
func LoadFS(fsys fs.FS, name string) (Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, path.Ext(name))
}

// Parse decodes data according to ext (".json", ".yaml" or ".yml"), applies
// defaults to unset values and validates the result.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	cfg.FormsetPrefix = ""
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode json: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported file extension %q", ext)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefaults fills unset values from Default and normalises the language.
func (c Config) WithDefaults() Config {
	def := Default()
	c.Lang = strings.ToLower(strings.TrimSpace(c.Lang))
	if c.Lang == "" {
		c.Lang = def.Lang
	}
	if strings.TrimSpace(c.FormsetPrefix) == "" {
		if strings.TrimSpace(c.AppLabel) != "" && strings.TrimSpace(c.Model) != "" {
			c.FormsetPrefix = formset.GenericPrefix(c.AppLabel, c.Model, c.CTField, c.FKField).String()
		} else {
			c.FormsetPrefix = def.FormsetPrefix
		}
	}
	if c.PreviewWidth == 0 {
		c.PreviewWidth = def.PreviewWidth
	}
	if c.MediaPrefix == "" {
		c.MediaPrefix = def.MediaPrefix
	}
	return c
}

// Validate rejects unsupported languages and negative widths.
func (c Config) Validate() error {
	if !IsSupportedLang(c.Lang) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLang, c.Lang)
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("%w: max_width=%d", ErrInvalidWidth, c.MaxWidth)
	}
	if c.PreviewWidth < 0 {
		return fmt.Errorf("%w: preview_width=%d", ErrInvalidWidth, c.PreviewWidth)
	}
	return nil
}

// IsSupportedLang reports whether lang has uploader messages.
func IsSupportedLang(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, supported := range supportedLangs {
		if lang == supported {
			return true
		}
	}
	return false
}

// Prefix returns the formset prefix.
func (c Config) Prefix() formset.Prefix {
	if strings.TrimSpace(c.FormsetPrefix) == "" {
		return formset.DefaultPrefix
	}
	return formset.Prefix(c.FormsetPrefix)
}

// Scripts lists the media scripts the inline needs, in load order: the core
// library, the language bundle of the uploader (minified unless Debug) and
// the inline glue.
func (c Config) Scripts() []string {
	c = c.WithDefaults()
	minified := ".yui"
	if c.Debug {
		minified = ""
	}
	return []string{
		c.MediaPrefix + "mootools-1.2.4-core-yc.js",
		c.MediaPrefix + "GearsUploader." + c.Lang + minified + ".js",
		c.MediaPrefix + "AttachedImageInline.js",
	}
}
