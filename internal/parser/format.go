package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/imishinist/http-shortcuts/internal/models"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .json, .yaml, .yml)", ext)
	}
}

func ParseParams(reader io.Reader, format string) ([]models.Pair, error) {
	switch format {
	case FormatJSON:
		return ParseJSONParams(reader)
	case FormatYAML:
		return ParseYAMLParams(reader)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func ParseShortcut(reader io.Reader, format string) (*models.Shortcut, error) {
	switch format {
	case FormatJSON:
		return ParseJSONShortcut(reader)
	case FormatYAML:
		return ParseYAMLShortcut(reader)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func WriteShortcut(writer io.Writer, shortcut *models.Shortcut, format string) error {
	switch format {
	case FormatJSON:
		return WriteJSONShortcut(writer, shortcut)
	case FormatYAML:
		return WriteYAMLShortcut(writer, shortcut)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// withCounter returns a copy of shortcut carrying its parameter counter.
func withCounter(shortcut *models.Shortcut) *models.Shortcut {
	out := *shortcut
	if out.Parameters != nil {
		out.NextParameterID = out.Parameters.NextID()
	}
	return &out
}

// restoreCounter applies the saved counter so retired ids stay retired.
func restoreCounter(shortcut *models.Shortcut) {
	if shortcut.Parameters == nil {
		shortcut.Parameters = models.NewParameterSet()
	}
	shortcut.Parameters.ReserveIDs(shortcut.NextParameterID)
}
