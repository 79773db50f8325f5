package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/imishinist/http-shortcuts/internal/models"
)

func ParseJSONParams(reader io.Reader) ([]models.Pair, error) {
	var data models.ImportFile
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON parameters: %w", err)
	}

	return data.Parameters, nil
}

func ParseJSONShortcut(reader io.Reader) (*models.Shortcut, error) {
	var data models.Shortcut
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON shortcut: %w", err)
	}
	restoreCounter(&data)

	return &data, nil
}

func WriteJSONShortcut(writer io.Writer, shortcut *models.Shortcut) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(withCounter(shortcut)); err != nil {
		return fmt.Errorf("failed to write JSON shortcut: %w", err)
	}

	return nil
}
