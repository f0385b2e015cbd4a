package pluct_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/pluct"
	"github.com/reoring/pluct/source"
)

const appSchemaJSON = `{
  "title": "app schema",
  "properties": {
    "cname": {"type": "string"},
    "ip": {"type": "string"},
    "name": {"type": "string"},
    "platform": {"type": "string"}
  },
  "links": [
    {"href": "/apps/{name}/log", "method": "GET", "rel": "log"},
    {"href": "/apps/{name}/env", "method": "GET", "rel": "get envs"}
  ],
  "required": ["platform", "name"]
}`

func serve(t *testing.T, contentType, body string, seen *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		if seen != nil {
			*seen = r.Header.Clone()
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGet_ReturnsSchema(t *testing.T) {
	srv := serve(t, "application/json", appSchemaJSON, nil)
	u := srv.URL + "/myschema"

	s, err := pluct.Get(context.Background(), u, nil)
	require.NoError(t, err)
	require.Equal(t, u, s.URL())

	title, ok := s.Title()
	require.True(t, ok)
	require.Equal(t, "app schema", title)

	req, ok := s.Required()
	require.True(t, ok)
	require.Equal(t, []string{"platform", "name"}, req)

	props, ok := s.Properties()
	require.True(t, ok)
	require.Equal(t, map[string]any{
		"cname":    map[string]any{"type": "string"},
		"ip":       map[string]any{"type": "string"},
		"name":     map[string]any{"type": "string"},
		"platform": map[string]any{"type": "string"},
	}, props)

	links, ok := s.Links()
	require.True(t, ok)
	require.Equal(t, []map[string]any{
		{"href": "/apps/{name}/log", "method": "GET", "rel": "log"},
		{"href": "/apps/{name}/env", "method": "GET", "rel": "get envs"},
	}, []map[string]any{links[0].Map(), links[1].Map()})
	require.Equal(t, "/apps/{name}/log", links[0].Href)
}

func TestGet_URLIsKeptVerbatim(t *testing.T) {
	srv := serve(t, "", `{}`, nil)
	u := srv.URL + "/a/../b?x=1#frag"

	s, err := pluct.NewClient().Get(context.Background(), u)
	require.NoError(t, err)
	require.Equal(t, u, s.URL())
	require.False(t, s.Has(pluct.FieldLinks))
}

func TestGet_WithAuthSetsHeaders(t *testing.T) {
	var seen http.Header
	srv := serve(t, "application/json", `{"title":"x"}`, &seen)

	_, err := pluct.Get(context.Background(), srv.URL, &pluct.Auth{Type: "t", Credentials: "c"})
	require.NoError(t, err)
	require.Equal(t, "t c", seen.Get("Authorization"))
	require.Equal(t, "application/json", seen.Get("Content-Type"))
}

func TestGet_WithoutAuthOmitsHeaders(t *testing.T) {
	var seen http.Header
	srv := serve(t, "application/json", `{}`, &seen)

	_, err := pluct.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	require.Empty(t, seen.Get("Authorization"))
	require.Empty(t, seen.Get("Content-Type"))
}

func TestGet_ExtraHeadersAndUserAgent(t *testing.T) {
	var seen http.Header
	srv := serve(t, "application/json", `{}`, &seen)

	c := pluct.NewClient(pluct.WithUserAgent("pluct-test/1"))
	_, err := c.Get(context.Background(), srv.URL, pluct.WithHeader("X-Request-Id", "42"), pluct.WithAuth(pluct.Auth{Type: "Bearer", Credentials: "tok"}))
	require.NoError(t, err)
	require.Equal(t, "pluct-test/1", seen.Get("User-Agent"))
	require.Equal(t, "42", seen.Get("X-Request-Id"))
	require.Equal(t, "Bearer tok", seen.Get("Authorization"))
}

func TestGet_YAMLByContentType(t *testing.T) {
	body := "title: app schema\nrequired:\n  - platform\n  - name\n"
	srv := serve(t, "application/yaml", body, nil)

	s, err := pluct.NewClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	title, _ := s.Title()
	require.Equal(t, "app schema", title)
	req, _ := s.Required()
	require.Equal(t, []string{"platform", "name"}, req)
}

func TestGet_ForcedDriver(t *testing.T) {
	srv := serve(t, "text/plain", "title: forced\n", nil)

	s, err := pluct.NewClient(pluct.WithDriver(source.YAML())).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	title, _ := s.Title()
	require.Equal(t, "forced", title)
}

func TestGet_DecodeErrorPropagates(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
	}{
		{"html page", "text/html", "<html>gateway timeout</html>"},
		{"json prefix then html", "application/json", `{"title":"a"}<html>error page</html>`},
		{"two documents", "application/json", `{"title":"a"}{"title":"b"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.contentType, tc.body, nil)

			s, err := pluct.Get(context.Background(), srv.URL, nil)
			require.Error(t, err)
			require.Nil(t, s)
			_, isIssues := pluct.AsIssues(err)
			require.False(t, isIssues)
		})
	}
}

func TestGet_TransportErrorPropagates(t *testing.T) {
	srv := serve(t, "", `{}`, nil)
	u := srv.URL
	srv.Close()

	_, err := pluct.Get(context.Background(), u, nil)
	require.Error(t, err)
	var uerr *url.Error
	require.True(t, errors.As(err, &uerr))
}

func TestGet_EmptyURL(t *testing.T) {
	_, err := pluct.Get(context.Background(), "", &pluct.Auth{Type: "t", Credentials: "c"})
	require.Error(t, err)
}

func TestGet_ContextCanceled(t *testing.T) {
	srv := serve(t, "", `{}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pluct.Get(ctx, srv.URL, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGet_ProjectionIssuesReturnSchema(t *testing.T) {
	srv := serve(t, "application/json", `{"title": 7, "required": ["a"]}`, nil)

	s, err := pluct.Get(context.Background(), srv.URL, nil)
	iss, ok := pluct.AsIssues(err)
	require.True(t, ok)
	require.Equal(t, "/title", iss[0].Path)
	require.NotNil(t, s)
	require.True(t, s.Has(pluct.FieldRequired))
}

func TestGet_DuplicateKeys(t *testing.T) {
	body := `{"title":"a","title":"b","links":[{"rel":"x","rel":"y"}]}`

	t.Run("ignore", func(t *testing.T) {
		srv := serve(t, "application/json", body, nil)
		s, err := pluct.NewClient().Get(context.Background(), srv.URL)
		require.NoError(t, err)
		require.True(t, s.Has(pluct.FieldTitle))
	})

	t.Run("warn", func(t *testing.T) {
		srv := serve(t, "application/json", body, nil)
		var buf bytes.Buffer
		c := pluct.NewClient(pluct.WithDuplicateKeys(pluct.Warn), pluct.WithLogger(zerolog.New(&buf)))
		_, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Contains(t, buf.String(), `"path":"/title"`)
		require.Contains(t, buf.String(), `"path":"/links/0/rel"`)
	})

	t.Run("error", func(t *testing.T) {
		srv := serve(t, "application/json", body, nil)
		c := pluct.NewClient(pluct.WithDuplicateKeys(pluct.Error))
		s, err := c.Get(context.Background(), srv.URL)
		require.Nil(t, s)
		iss, ok := pluct.AsIssues(err)
		require.True(t, ok)
		require.Len(t, iss, 2)
		require.Equal(t, pluct.CodeDuplicateKey, iss[0].Code)
		require.Equal(t, "/title", iss[0].Path)
	})

	t.Run("yaml skips check", func(t *testing.T) {
		srv := serve(t, "application/yaml", "title: a\n", nil)
		c := pluct.NewClient(pluct.WithDuplicateKeys(pluct.Error))
		_, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	})
}

func duplicateKeysDoc(n int) string {
	var b strings.Builder
	b.WriteString("{")
	for i := 0; i < n; i++ {
		k := strconv.Quote("k" + strconv.Itoa(i))
		fmt.Fprintf(&b, "%s:1,%s:2,", k, k)
	}
	b.WriteString(`"title":"t"}`)
	return b.String()
}

func TestGet_DuplicateKeysTruncation(t *testing.T) {
	cases := []struct {
		name      string
		dups      int
		wantLen   int
		truncated bool
	}{
		{"below limit", 31, 31, false},
		{"exactly at limit", 32, 32, false},
		{"over limit", 40, 33, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, "application/json", duplicateKeysDoc(tc.dups), nil)
			c := pluct.NewClient(pluct.WithDuplicateKeys(pluct.Error))

			_, err := c.Get(context.Background(), srv.URL)
			iss, ok := pluct.AsIssues(err)
			require.True(t, ok)
			require.Len(t, iss, tc.wantLen)
			last := iss[len(iss)-1]
			if tc.truncated {
				require.Equal(t, pluct.CodeTruncated, last.Code)
			} else {
				require.Equal(t, pluct.CodeDuplicateKey, last.Code)
			}
		})
	}
}

func TestGet_LogsFetch(t *testing.T) {
	srv := serve(t, "application/json", `{}`, nil)
	var buf bytes.Buffer
	c := pluct.NewClient(pluct.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	_, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"fetched schema"`)
	require.Contains(t, buf.String(), `"driver":"go-json"`)
	require.Contains(t, buf.String(), `"status":200`)
}
