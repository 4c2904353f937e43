// Package prompt collects the uploader inputs interactively: the user the new
// rows are attributed to, the files to attach and the resize preference.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-attachedimages/pkg/upload"
)

// Defaults pre-fills the prompts.
type Defaults struct {
	UserID string
	Files  []string
	Resize upload.Resize
}

// Answers is the outcome of Collect.
type Answers struct {
	UserID string
	Files  []string
	Resize upload.Resize
}

// Collect asks for the user id, the file list, which selected files to drop
// and the resize preference. Empty answers keep the defaults.
func Collect(ctx context.Context, driver Driver, defaults Defaults) (Answers, error) {
	if driver == nil {
		return Answers{}, errors.New("prompt: driver is nil")
	}

	userID, err := driver.Input(ctx, InputConfig{
		Message:   "User id",
		Help:      "Attached images are attributed to this user.",
		Default:   defaults.UserID,
		Validator: validateUserID,
	})
	if err != nil {
		return Answers{}, err
	}

	raw, err := driver.TextArea(ctx, TextAreaConfig{
		Message: "Image files (one path per line)",
		Default: strings.Join(defaults.Files, "\n"),
	})
	if err != nil {
		return Answers{}, err
	}
	files := ParseFileList(raw)
	if len(files) == 0 {
		files = append(files, defaults.Files...)
	}

	if len(files) > 0 {
		options := make([]string, len(files))
		for i, file := range files {
			options[i] = fmt.Sprintf("%d. %s", i+1, filepath.Base(file))
		}
		drop, err := driver.MultiSelect(ctx, SelectConfig{
			Message: "Remove files from the selection",
			Options: options,
		})
		if err != nil {
			return Answers{}, err
		}
		files = without(files, drop)
	}

	resize := defaults.Resize
	enabled, err := driver.Confirm(ctx, ConfirmConfig{
		Message: "Resize images before upload?",
		Default: defaults.Resize.Enabled,
	})
	if err != nil {
		return Answers{}, err
	}
	resize.Enabled = enabled
	if enabled {
		width, err := driver.Input(ctx, InputConfig{
			Message:   "Maximum width in pixels",
			Default:   widthDefault(defaults.Resize.Width),
			Validator: validateWidth,
		})
		if err != nil {
			return Answers{}, err
		}
		if resize.Width, err = strconv.Atoi(strings.TrimSpace(width)); err != nil {
			return Answers{}, fmt.Errorf("prompt: resize width: %w", err)
		}
	}

	if err := driver.Info(ctx, fmt.Sprintf("%d file(s) selected", len(files))); err != nil {
		return Answers{}, err
	}

	return Answers{
		UserID: strings.TrimSpace(userID),
		Files:  files,
		Resize: resize,
	}, nil
}

// ParseFileList splits a multi-line answer into trimmed, non-empty paths.
func ParseFileList(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func without(files []string, drop []int) []string {
	if len(drop) == 0 {
		return files
	}
	skip := make(map[int]struct{}, len(drop))
	for _, idx := range drop {
		skip[idx] = struct{}{}
	}
	out := make([]string, 0, len(files))
	for i, file := range files {
		if _, ok := skip[i]; !ok {
			out = append(out, file)
		}
	}
	return out
}

func validateUserID(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("user id is required")
	}
	return nil
}

func validateWidth(value string) error {
	width, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || width <= 0 {
		return errors.New("width must be a positive integer")
	}
	return nil
}

func widthDefault(width int) string {
	if width <= 0 {
		return ""
	}
	return strconv.Itoa(width)
}
