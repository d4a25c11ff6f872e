package youtube

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?start=10", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?list=PL1&v=oHg5SJYRHA0", "oHg5SJYRHA0", true},
		{"https://www.youtube.com/shorts/kJQP7kiw5Fk", "kJQP7kiw5Fk", true},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://example.com/", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsValidURL("youtu.be/dQw4w9WgXcQ"))
	assert.True(t, IsValidURL("https://m.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, IsValidURL("https://vimeo.com/123"))
	assert.False(t, IsValidURL("javascript:alert(1)"))
}

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newTestClient(fn RoundTripFunc) *Client {
	c := NewClient("https://mock.local/oembed", zap.NewNop())
	c.http = &http.Client{Transport: fn}
	return c
}

func TestResolve(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		var gotURL string
		c := newTestClient(func(req *http.Request) *http.Response {
			gotURL = req.URL.Query().Get("url")
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(`{"title":"Never Gonna Give You Up","author_name":"Rick Astley"}`)),
				Header:     make(http.Header),
			}
		})

		md, err := c.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", gotURL)
		assert.Equal(t, "Never Gonna Give You Up", md.Title)
		assert.Equal(t, "Rick Astley", md.Author)
		assert.Equal(t, "dQw4w9WgXcQ", md.VideoID)
		assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", md.Thumbnail)
		assert.True(t, md.Resolved)
	})

	t.Run("upstream failure falls back to placeholder", func(t *testing.T) {
		c := newTestClient(func(req *http.Request) *http.Response {
			return &http.Response{StatusCode: 404, Body: io.NopCloser(strings.NewReader("")), Header: make(http.Header)}
		})

		md, err := c.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, PlaceholderTitle, md.Title)
		assert.Equal(t, PlaceholderAuthor, md.Author)
		assert.False(t, md.Resolved)
	})

	t.Run("invalid url", func(t *testing.T) {
		c := newTestClient(func(req *http.Request) *http.Response {
			t.Fatal("no request expected")
			return nil
		})
		_, err := c.Resolve(context.Background(), "https://example.com/watch?v=dQw4w9WgXcQ")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})
}
