package source

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// DuplicateKey records an object key that appeared more than once.
// Path is the JSON Pointer of the repeated member.
type DuplicateKey struct {
	Path string
	Key  string
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	path         string
	keys         map[string]struct{}
	key          string
	index        int
	expectingKey bool
}

// DetectDuplicateKeys streams data as JSON tokens and reports repeated object
// keys at any depth. maxIssues < 0 means unlimited; 0 disables detection; > 0
// stops after that many findings. Malformed JSON yields the tokenizer error.
func DetectDuplicateKeys(data []byte, maxIssues int) ([]DuplicateKey, error) {
	if maxIssues == 0 {
		return nil, nil
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		out   []DuplicateKey
		stack []dupFrame
	)

	valuePath := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindObject {
			return top.path + "/" + escapePointer(top.key)
		}
		return top.path + "/" + strconv.Itoa(top.index)
	}
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.kind == kindObject {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}

		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				stack = append(stack, dupFrame{kind: kindObject, path: valuePath(), keys: make(map[string]struct{}), expectingKey: true})
			case '[':
				stack = append(stack, dupFrame{kind: kindArray, path: valuePath()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].kind == kindObject && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, seen := top.keys[v]; seen {
					out = append(out, DuplicateKey{Path: top.path + "/" + escapePointer(v), Key: v})
					if maxIssues > 0 && len(out) >= maxIssues {
						return out, nil
					}
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string { return pointerEscaper.Replace(s) }
