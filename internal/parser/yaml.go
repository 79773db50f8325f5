package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/imishinist/http-shortcuts/internal/models"
)

func ParseYAMLParams(reader io.Reader) ([]models.Pair, error) {
	var data models.ImportFile
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML parameters: %w", err)
	}

	return data.Parameters, nil
}

func ParseYAMLShortcut(reader io.Reader) (*models.Shortcut, error) {
	var data models.Shortcut
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML shortcut: %w", err)
	}
	restoreCounter(&data)

	return &data, nil
}

func WriteYAMLShortcut(writer io.Writer, shortcut *models.Shortcut) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(withCounter(shortcut)); err != nil {
		return fmt.Errorf("failed to write YAML shortcut: %w", err)
	}

	return encoder.Close()
}
