package pluct

// Presence is the bit flag recorded for each projected schema field.
type Presence uint8

const (
	PresenceSeen    Presence = 1 << iota // Key appeared in the raw document.
	PresenceWasNull                      // Key's value was null.
)

// Projected field names.
const (
	FieldTitle      = "title"
	FieldProperties = "properties"
	FieldRequired   = "required"
	FieldLinks      = "links"
)

// PresenceMap maps projected field names to Presence flags. Fields that never
// appeared have no entry.
type PresenceMap map[string]Presence

// Has reports whether field appeared in the document, null or not.
func (pm PresenceMap) Has(field string) bool { return pm[field]&PresenceSeen != 0 }

// WasNull reports whether field appeared with a null value.
func (pm PresenceMap) WasNull(field string) bool { return pm[field]&PresenceWasNull != 0 }

func (pm PresenceMap) clone() PresenceMap {
	if pm == nil {
		return nil
	}
	out := make(PresenceMap, len(pm))
	for k, v := range pm {
		out[k] = v
	}
	return out
}
