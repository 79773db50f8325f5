package request

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/http-shortcuts/internal/logging"
	"github.com/imishinist/http-shortcuts/internal/models"
	"github.com/imishinist/http-shortcuts/internal/variables"
)

func TestEncodeForm(t *testing.T) {
	pairs := []models.Pair{
		{Key: "z", Value: "last letter"},
		{Key: "a", Value: "x&y=z"},
		{Key: "z", Value: ""},
		{Key: "", Value: "ü"},
	}
	assert.Equal(t, "z=last+letter&a=x%26y%3Dz&z=&=%C3%BC", EncodeForm(pairs))
	assert.Equal(t, "", EncodeForm(nil))
}

func TestResolvePairs(t *testing.T) {
	vars := variables.Map{"who": "Alice", "field": "name"}
	pairs := []models.Pair{{Key: "{{field}}", Value: "{{who}}"}, {Key: "age", Value: "30"}}

	got, err := ResolvePairs(pairs, vars)
	require.NoError(t, err)
	assert.Equal(t, []models.Pair{{Key: "name", Value: "Alice"}, {Key: "age", Value: "30"}}, got)
	assert.Equal(t, "{{field}}", pairs[0].Key)

	_, err = ResolvePairs([]models.Pair{{Key: "k", Value: "{{nope}}"}}, vars)
	assert.ErrorIs(t, err, variables.ErrKeyNotFound)
}

func TestBuildPost(t *testing.T) {
	s := models.NewShortcut("signup", "POST", "https://{{host}}/signup")
	s.Headers = []models.Header{{Name: "X-Token", Content: "{{token}}"}}
	name := s.Parameters.Add("name", "")
	age := s.Parameters.Add("age", "")
	value := "{{who}}"
	require.NoError(t, s.Parameters.Update(name, models.ParameterUpdate{Value: &value}))
	require.NoError(t, s.Parameters.Move(age, 0))

	b := NewBuilder(variables.Map{"host": "example.com", "token": "t0k", "who": "Alice"}, logging.Discard())
	req, err := b.Build(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://example.com/signup", req.URL.String())
	assert.Equal(t, FormContentType, req.Header.Get("Content-Type"))
	assert.Equal(t, "t0k", req.Header.Get("X-Token"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "age=&name=Alice", string(body))
}

func TestBuildGetUsesQuery(t *testing.T) {
	s := models.NewShortcut("search", "GET", "https://example.com/search?lang=en")
	s.Parameters.Add("q", "{{term}}")

	b := NewBuilder(variables.Map{"term": "go lang"}, logging.Discard())
	req, err := b.Build(context.Background(), s)
	require.NoError(t, err)

	assert.Nil(t, req.Body)
	assert.Equal(t, "lang=en&q=go+lang", req.URL.RawQuery)
	assert.Empty(t, req.Header.Get("Content-Type"))
}

func TestBuildWithoutParameters(t *testing.T) {
	s := models.NewShortcut("ping", "POST", "http://localhost/ping")

	req, err := NewBuilder(variables.Map{}, logging.Discard()).Build(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Content-Type"))
}

func TestBuildResolutionErrors(t *testing.T) {
	b := NewBuilder(variables.Map{}, logging.Discard())

	s := models.NewShortcut("x", "POST", "http://{{host}}/")
	_, err := b.Build(context.Background(), s)
	assert.ErrorIs(t, err, variables.ErrKeyNotFound)

	s = models.NewShortcut("x", "POST", "http://localhost/")
	s.Parameters.Add("{{broken", "")
	_, err = b.Build(context.Background(), s)
	assert.ErrorIs(t, err, variables.ErrInvalidKey)
}

func TestBuildDoesNotMutateShortcut(t *testing.T) {
	s := models.NewShortcut("x", "POST", "http://localhost/")
	s.Parameters.Add("k", "{{v}}")

	_, err := NewBuilder(variables.Map{"v": "1"}, logging.Discard()).Build(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []models.Pair{{Key: "k", Value: "{{v}}"}}, s.Parameters.ToOrderedPairs())
}
