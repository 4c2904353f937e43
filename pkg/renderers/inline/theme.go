package inline

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-attachedimages/pkg/render"
)

type themeView struct {
	Name       string
	Variant    string
	Stylesheet string
	Tokens     map[string]string
	CSSVars    string
}

func (r *Renderer) resolveTheme(opts render.RenderOptions) (*themeView, error) {
	selection := opts.Theme
	if selection == nil && r.themeSelector != nil {
		selected, err := r.themeSelector.Select(opts.ThemeName, opts.ThemeVariant)
		if err != nil {
			return nil, fmt.Errorf("inline renderer: select theme: %w", err)
		}
		selection = selected
	}
	if selection == nil {
		return nil, nil
	}
	return buildThemeView(selection), nil
}

func buildThemeView(selection *theme.Selection) *themeView {
	view := &themeView{
		Name:    selection.Theme,
		Variant: selection.Variant,
		Tokens:  make(map[string]string),
	}
	manifest := selection.Manifest
	if manifest == nil {
		return view
	}

	for key, value := range manifest.Tokens {
		view.Tokens[key] = value
	}
	prefix := manifest.Assets.Prefix
	file := manifest.Assets.Files[StylesheetAsset]

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			view.Tokens[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		if override := variant.Assets.Files[StylesheetAsset]; override != "" {
			file = override
		}
	}

	if file != "" {
		view.Stylesheet = joinAssetURL(prefix, file)
	}
	view.CSSVars = cssVars(view.Tokens)
	return view
}

func joinAssetURL(prefix, file string) string {
	if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
		return file
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
}

func cssVars(tokens map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, "--"+strings.TrimPrefix(key, "--")+": "+tokens[key])
	}
	return strings.Join(parts, "; ")
}
