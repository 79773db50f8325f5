package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/imishinist/http-shortcuts/internal/models"
	"github.com/imishinist/http-shortcuts/internal/variables"
)

const FormContentType = "application/x-www-form-urlencoded"

// ResolvePairs resolves the key and then the value of every pair, in order.
func ResolvePairs(pairs []models.Pair, resolver variables.Resolver) ([]models.Pair, error) {
	resolved := make([]models.Pair, 0, len(pairs))
	for i, p := range pairs {
		key, err := resolver.Resolve(p.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve key of parameter %d: %w", i, err)
		}
		value, err := resolver.Resolve(p.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve value of parameter %q: %w", key, err)
		}
		resolved = append(resolved, models.Pair{Key: key, Value: value})
	}
	return resolved, nil
}

// EncodeForm form-encodes pairs keeping their order and duplicates.
func EncodeForm(pairs []models.Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

type Builder struct {
	resolver variables.Resolver
	logger   *logrus.Logger
}

func NewBuilder(resolver variables.Resolver, logger *logrus.Logger) *Builder {
	return &Builder{resolver: resolver, logger: logger}
}

// Build turns a shortcut into a request. The shortcut is snapshotted first so
// the caller may keep editing it afterwards.
func (b *Builder) Build(ctx context.Context, shortcut *models.Shortcut) (*http.Request, error) {
	s := shortcut.Snapshot()

	rawURL, err := b.resolver.Resolve(s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve url: %w", err)
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	params, err := ResolvePairs(s.Parameters.ToOrderedPairs(), b.resolver)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	encoded := EncodeForm(params)
	if len(params) > 0 {
		if s.HasBody() {
			body = strings.NewReader(encoded)
		} else if target.RawQuery == "" {
			target.RawQuery = encoded
		} else {
			target.RawQuery += "&" + encoded
		}
	}

	req, err := http.NewRequestWithContext(ctx, s.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", FormContentType)
	}
	for _, h := range s.Headers {
		name, err := b.resolver.Resolve(h.Key())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header name: %w", err)
		}
		value, err := b.resolver.Resolve(h.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header %q: %w", name, err)
		}
		req.Header.Add(name, value)
	}

	b.logger.WithFields(logrus.Fields{
		"shortcut_id": s.ID,
		"method":      req.Method,
		"url":         req.URL.String(),
		"parameters":  len(params),
	}).Debug("built request")

	return req, nil
}
