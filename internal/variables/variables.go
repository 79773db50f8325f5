package variables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imishinist/http-shortcuts/internal/models"
)

const (
	Prefix = "{{"
	Suffix = "}}"
)

var (
	ErrKeyNotFound = errors.New("variable not found")
	ErrInvalidKey  = errors.New("invalid variable reference")
)

// Resolver substitutes placeholders in a raw key or value.
type Resolver interface {
	Resolve(raw string) (string, error)
}

type ResolverFunc func(raw string) (string, error)

func (f ResolverFunc) Resolve(raw string) (string, error) {
	return f(raw)
}

// Map resolves {{ name }} references from a fixed set of values.
type Map map[string]string

// ParseAssignments parses key=value strings as given on the command line.
func ParseAssignments(assignments []string) (Map, error) {
	vars := make(Map, len(assignments))
	for _, a := range assignments {
		parts := strings.SplitN(a, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid variable format: %s (expected key=value)", a)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("invalid variable format: %s (empty name)", a)
		}
		vars[name] = parts[1]
	}
	return vars, nil
}

// Resolve replaces every reference in raw. Substituted values are not
// scanned again.
func (m Map) Resolve(raw string) (string, error) {
	var b strings.Builder
	err := scan(raw, func(literal, name string) error {
		b.WriteString(literal)
		if name == "" {
			return nil
		}
		value, ok := m[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, name)
		}
		b.WriteString(value)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Extract returns the variable names referenced by raw, in order of first use.
func Extract(raw string) ([]string, error) {
	var names []string
	seen := map[string]bool{}
	err := scan(raw, func(_, name string) error {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return nil
	})
	return names, err
}

// ExtractShortcut collects the variables a shortcut needs before it can be
// executed: those in its URL, headers and parameters.
func ExtractShortcut(s *models.Shortcut) ([]string, error) {
	raws := []string{s.URL}
	for _, h := range s.Headers {
		raws = append(raws, h.Key(), h.Value())
	}
	if s.Parameters != nil {
		for _, p := range s.Parameters.ToOrderedPairs() {
			raws = append(raws, p.Key, p.Value)
		}
	}

	var names []string
	seen := map[string]bool{}
	for _, raw := range raws {
		found, err := Extract(raw)
		if err != nil {
			return nil, err
		}
		for _, name := range found {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// scan walks raw calling fn with each literal run and the name of the
// reference following it. The last call has an empty name.
func scan(raw string, fn func(literal, name string) error) error {
	for {
		start := strings.Index(raw, Prefix)
		if start == -1 {
			return fn(raw, "")
		}

		end := strings.Index(raw[start+len(Prefix):], Suffix)
		if end == -1 {
			return fmt.Errorf("%w: unterminated %q", ErrInvalidKey, raw[start:])
		}

		name := strings.TrimSpace(raw[start+len(Prefix) : start+len(Prefix)+end])
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidKey)
		}
		if err := fn(raw[:start], name); err != nil {
			return err
		}
		raw = raw[start+len(Prefix)+end+len(Suffix):]
	}
}
