package pluct

import (
	"fmt"
	"maps"
	"slices"
)

// Link is a link descriptor taken from a schema's "links" array.
type Link struct {
	Href   string // URI template, e.g. /apps/{name}/log.
	Method string
	Rel    string
	// Raw is the descriptor exactly as decoded, including members other than
	// href, method and rel.
	Raw map[string]any
}

// Map returns a copy of the decoded descriptor.
func (l Link) Map() map[string]any { return maps.Clone(l.Raw) }

// Schema wraps a fetched schema document. The title, properties, required and
// links fields are projected only when the document has the matching key; use
// the comma-ok accessors or Has to tell an absent field from an empty one.
//
// A Schema is not modified after New returns and is safe for concurrent reads.
type Schema struct {
	url      string
	raw      map[string]any
	presence PresenceMap

	title      string
	properties map[string]any
	required   []string
	links      []Link
}

// New builds a Schema from an already decoded document. raw may be nil.
//
// A projected key holding a value of the wrong shape (for example a numeric
// title) is reported as an Issue and left absent. The Schema is returned
// together with the Issues so callers can still reach the raw document.
func New(url string, raw map[string]any) (*Schema, error) {
	s := &Schema{url: url, raw: raw, presence: PresenceMap{}}
	var iss Issues

	if v, ok := raw[FieldTitle]; ok {
		switch t := v.(type) {
		case nil:
			s.presence[FieldTitle] = PresenceSeen | PresenceWasNull
		case string:
			s.title = t
			s.presence[FieldTitle] = PresenceSeen
		default:
			iss = append(iss, invalidType(FieldTitle, "string", v))
		}
	}

	if v, ok := raw[FieldProperties]; ok {
		switch t := v.(type) {
		case nil:
			s.presence[FieldProperties] = PresenceSeen | PresenceWasNull
		case map[string]any:
			s.properties = t
			s.presence[FieldProperties] = PresenceSeen
		default:
			iss = append(iss, invalidType(FieldProperties, "object", v))
		}
	}

	if v, ok := raw[FieldRequired]; ok {
		if v == nil {
			s.presence[FieldRequired] = PresenceSeen | PresenceWasNull
		} else if req, issue := projectRequired(v); issue != nil {
			iss = append(iss, *issue)
		} else {
			s.required = req
			s.presence[FieldRequired] = PresenceSeen
		}
	}

	if v, ok := raw[FieldLinks]; ok {
		if v == nil {
			s.presence[FieldLinks] = PresenceSeen | PresenceWasNull
		} else if links, issue := projectLinks(v); issue != nil {
			iss = append(iss, *issue)
		} else {
			s.links = links
			s.presence[FieldLinks] = PresenceSeen
		}
	}

	if len(iss) > 0 {
		return s, iss
	}
	return s, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(url string, raw map[string]any) *Schema {
	s, err := New(url, raw)
	if err != nil {
		panic(err)
	}
	return s
}

func projectRequired(v any) ([]string, *Issue) {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t), nil
	case []any:
		out := make([]string, 0, len(t))
		for i, e := range t {
			name, ok := e.(string)
			if !ok {
				issue := invalidType(fmt.Sprintf("%s/%d", FieldRequired, i), "string", e)
				return nil, &issue
			}
			out = append(out, name)
		}
		return out, nil
	default:
		issue := invalidType(FieldRequired, "array", v)
		return nil, &issue
	}
}

func projectLinks(v any) ([]Link, *Issue) {
	var descs []map[string]any
	switch t := v.(type) {
	case []map[string]any:
		descs = t
	case []any:
		descs = make([]map[string]any, 0, len(t))
		for i, e := range t {
			m, ok := e.(map[string]any)
			if !ok {
				issue := invalidType(fmt.Sprintf("%s/%d", FieldLinks, i), "object", e)
				return nil, &issue
			}
			descs = append(descs, m)
		}
	default:
		issue := invalidType(FieldLinks, "array", v)
		return nil, &issue
	}

	out := make([]Link, 0, len(descs))
	for _, m := range descs {
		href, _ := m["href"].(string)
		method, _ := m["method"].(string)
		rel, _ := m["rel"].(string)
		out = append(out, Link{Href: href, Method: method, Rel: rel, Raw: m})
	}
	return out, nil
}

func invalidType(field, want string, got any) Issue {
	return Issue{
		Path:    "/" + field,
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

// URL returns the location the schema was fetched from.
func (s *Schema) URL() string { return s.url }

// Raw returns a shallow copy of the decoded document.
func (s *Schema) Raw() map[string]any { return maps.Clone(s.raw) }

// Get returns raw[key]. A missing key yields a *KeyError matching ErrKeyNotFound.
func (s *Schema) Get(key string) (any, error) {
	v, ok := s.raw[key]
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return v, nil
}

// Lookup is the comma-ok form of Get.
func (s *Schema) Lookup(key string) (any, bool) {
	v, ok := s.raw[key]
	return v, ok
}

// Has reports whether the projected field was present in the document.
func (s *Schema) Has(field string) bool { return s.presence.Has(field) }

// Presence returns a copy of the per-field presence flags.
func (s *Schema) Presence() PresenceMap { return s.presence.clone() }

func (s *Schema) Title() (string, bool) { return s.title, s.Has(FieldTitle) }

// Properties maps property names to their descriptions, e.g. {"type": "string"}.
func (s *Schema) Properties() (map[string]any, bool) {
	return maps.Clone(s.properties), s.Has(FieldProperties)
}

// Required returns the required property names in document order.
func (s *Schema) Required() ([]string, bool) {
	return slices.Clone(s.required), s.Has(FieldRequired)
}

// Links returns the link descriptors in document order.
func (s *Schema) Links() ([]Link, bool) {
	return slices.Clone(s.links), s.Has(FieldLinks)
}
