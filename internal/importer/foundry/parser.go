package foundry

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ParseActors reads the actors in data. data holds either one actor object,
// an array of actors, or one actor per line as in compendium .db packs.
// Blank lines are skipped.
//
// Postcondition: returns every actor or an error naming the first
// malformed line.
func ParseActors(data []byte) ([]gjson.Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("parsing actors: empty input")
	}
	if gjson.ValidBytes(trimmed) {
		doc := gjson.ParseBytes(trimmed)
		switch {
		case doc.IsArray():
			return doc.Array(), nil
		case doc.IsObject():
			return []gjson.Result{doc}, nil
		default:
			return nil, fmt.Errorf("parsing actors: expected an object or array, got %s", doc.Type)
		}
	}

	var out []gjson.Result
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if !gjson.ValidBytes(raw) {
			return nil, fmt.Errorf("parsing actors: line %d is not valid JSON", line)
		}
		doc := gjson.ParseBytes(raw)
		if !doc.IsObject() {
			return nil, fmt.Errorf("parsing actors: line %d is not an object", line)
		}
		out = append(out, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parsing actors: %w", err)
	}
	return out, nil
}
