package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/imishinist/http-shortcuts/internal/config"
	"github.com/imishinist/http-shortcuts/internal/models"
	"github.com/imishinist/http-shortcuts/internal/parser"
)

var ErrShortcutNotFound = errors.New("shortcut not found")

// Store keeps one file per shortcut in a directory.
type Store struct {
	fs     afero.Fs
	dir    string
	format string
	logger *logrus.Logger
}

func New(fs afero.Fs, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	if err := fs.MkdirAll(cfg.StoreDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", cfg.StoreDir, err)
	}

	return &Store{
		fs:     fs,
		dir:    cfg.StoreDir,
		format: cfg.Format,
		logger: logger,
	}, nil
}

// Save validates and writes the shortcut, replacing any file it had in
// another format.
func (s *Store) Save(shortcut *models.Shortcut) error {
	if err := shortcut.Validate(); err != nil {
		return fmt.Errorf("invalid shortcut: %w", err)
	}

	var buf bytes.Buffer
	if err := parser.WriteShortcut(&buf, shortcut, s.format); err != nil {
		return err
	}

	path := s.path(shortcut.ID, s.format)
	if err := afero.WriteFile(s.fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	for _, format := range []string{parser.FormatJSON, parser.FormatYAML} {
		if format == s.format {
			continue
		}
		if err := s.fs.Remove(s.path(shortcut.ID, format)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale file: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"shortcut_id": shortcut.ID,
		"path":        path,
	}).Debug("saved shortcut")
	return nil
}

func (s *Store) Load(id string) (*models.Shortcut, error) {
	path, format, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.read(path, format)
}

// List returns every stored shortcut sorted by name.
func (s *Store) List() ([]*models.Shortcut, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var shortcuts []*models.Shortcut
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, err := parser.FormatFromPath(entry.Name())
		if err != nil {
			s.logger.WithField("path", entry.Name()).Debug("skipping unknown file")
			continue
		}
		shortcut, err := s.read(filepath.Join(s.dir, entry.Name()), format)
		if err != nil {
			return nil, err
		}
		shortcuts = append(shortcuts, shortcut)
	}

	sort.SliceStable(shortcuts, func(i, j int) bool {
		return shortcuts[i].Name < shortcuts[j].Name
	})
	return shortcuts, nil
}

func (s *Store) Delete(id string) error {
	path, _, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	s.logger.WithField("shortcut_id", id).Debug("deleted shortcut")
	return nil
}

func (s *Store) find(id string) (string, string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", "", fmt.Errorf("%w: %q", ErrShortcutNotFound, id)
	}
	for _, format := range []string{s.format, parser.FormatJSON, parser.FormatYAML} {
		path := s.path(id, format)
		ok, err := afero.Exists(s.fs, path)
		if err != nil {
			return "", "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if ok {
			return path, format, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrShortcutNotFound, id)
}

func (s *Store) read(path, format string) (*models.Shortcut, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	shortcut, err := parser.ParseShortcut(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shortcut, nil
}

func (s *Store) path(id, format string) string {
	return filepath.Join(s.dir, id+"."+format)
}
