package source

import (
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// JSON returns a Driver backed by goccy/go-json. Numbers are kept as
// json.Number so large integers survive the round trip.
func JSON() Driver { return driverJSON{} }

var errTrailingData = errors.New("source: invalid character after top-level JSON value")

type driverJSON struct{}

func (driverJSON) Name() string { return "go-json" }

func (driverJSON) Decode(r io.Reader) (map[string]any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTrailingData
	}
	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("source: top-level JSON value is %T, want object", v)
	}
}
