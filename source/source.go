// Package source turns fetched schema documents into generic key-value maps.
//
// A Driver decodes one document. JSON is the default; YAML is chosen when the
// server labels the body as such. Both produce JSON-like values: objects are
// map[string]any and arrays are []any.
package source

import (
	"io"
	"mime"
	"strings"
)

// Driver decodes a schema document into its top-level object.
type Driver interface {
	Decode(r io.Reader) (map[string]any, error)
	Name() string
}

var yamlMediaTypes = map[string]struct{}{
	"application/yaml":   {},
	"application/x-yaml": {},
	"text/yaml":          {},
	"text/x-yaml":        {},
}

// ForContentType picks a driver from a Content-Type header value. Parameters
// such as charset are ignored; unknown or empty types fall back to JSON.
func ForContentType(ct string) Driver {
	if ct == "" {
		return JSON()
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.TrimSpace(strings.ToLower(strings.SplitN(ct, ";", 2)[0]))
	}
	if _, ok := yamlMediaTypes[mt]; ok {
		return YAML()
	}
	return JSON()
}
