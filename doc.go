// Package pluct fetches JSON Schema documents over HTTP and exposes them as
// read-only Schema values.
//
// A Schema projects the title, properties, required and links keys of the
// document when they are present, and gives raw key access to everything
// else:
//
//	s, err := pluct.Get(ctx, "http://app.com/myschema", &pluct.Auth{Type: "Bearer", Credentials: tok})
//	if err != nil { ... }
//	if title, ok := s.Title(); ok { ... }
//	links, _ := s.Links()
//	for _, l := range links { fmt.Println(l.Rel, l.Method, l.Href) }
//	v, err := s.Get("definitions")
//
// Layout:
//   - the root package holds the public API (Schema, Client, Issues);
//   - source/ holds the body decoders (go-json, yaml.v3) and duplicate-key detection;
//   - cmd/pluct is the CLI.
//
// The client is deliberately thin: no retries, no caching, no validation of
// the document against JSON Schema semantics, and transport or decode errors
// reach the caller unchanged.
package pluct
