package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/oklog/ulid/v2"
)

// Supported request methods
var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// Shortcut is a reusable HTTP request template.
type Shortcut struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Method      string        `json:"method" yaml:"method"`
	URL         string        `json:"url" yaml:"url"`
	Headers     []Header      `json:"headers,omitempty" yaml:"headers,omitempty"`
	Parameters  *ParameterSet `json:"parameters" yaml:"parameters"`

	// NextParameterID is the parameter counter, saved so removed ids stay
	// retired across save and load.
	NextParameterID ParameterID `json:"next_parameter_id,omitempty" yaml:"next_parameter_id,omitempty"`

	// RequireConfirmation asks before the request is sent.
	RequireConfirmation bool  `json:"require_confirmation,omitempty" yaml:"require_confirmation,omitempty"`
	// DelayMillis is waited before the request is sent.
	DelayMillis         int64 `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty"`
}

func NewShortcut(name, method, rawURL string) *Shortcut {
	return &Shortcut{
		ID:         ulid.Make().String(),
		Name:       name,
		Method:     strings.ToUpper(method),
		URL:        rawURL,
		Parameters: NewParameterSet(),
	}
}

// HasBody reports whether the shortcut's method carries a request body.
func (s *Shortcut) HasBody() bool {
	switch s.Method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

// Validate checks the shortcut definition and reports every problem found.
func (s *Shortcut) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(s.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}
	if !validMethods[s.Method] {
		result = multierror.Append(result, fmt.Errorf("invalid method: %s (valid: GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS)", s.Method))
	}
	if s.URL == "" {
		result = multierror.Append(result, fmt.Errorf("url is required"))
	} else if _, err := url.Parse(s.URL); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid url %q: %w", s.URL, err))
	}
	if s.DelayMillis < 0 {
		result = multierror.Append(result, fmt.Errorf("delay must not be negative, got %dms", s.DelayMillis))
	}
	for i, h := range s.Headers {
		if strings.TrimSpace(h.Key()) == "" {
			result = multierror.Append(result, fmt.Errorf("header %d has an empty name", i))
		}
	}

	return result.ErrorOrNil()
}

func (s *Shortcut) Delay() time.Duration {
	return time.Duration(s.DelayMillis) * time.Millisecond
}

// Snapshot returns a deep copy that shares no state with s.
func (s *Shortcut) Snapshot() *Shortcut {
	c := *s
	c.Headers = append([]Header(nil), s.Headers...)
	if s.Parameters != nil {
		c.Parameters = s.Parameters.Clone()
	} else {
		c.Parameters = NewParameterSet()
	}
	return &c
}

// ImportFile is the format of a parameter import file: an ordered list of
// key/value entries.
type ImportFile struct {
	Parameters []Pair `json:"parameters" yaml:"parameters"`
}
