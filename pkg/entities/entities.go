// Package entities reads local entity documents and checks that every entry
// is translated exactly once into each project language.
//
// An entity document maps entry keys to translations keyed by composite
// language keys:
//
//	{"jaguar": {"en,nl": "Jaguar", "fr": "Jaguar"}}
//
// Document order is kept so report lines follow the file.
package entities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/constants"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/files"
	"github.com/agentstation/flowcheck/pkg/report"
)

// Entry is one entity value and its translations.
type Entry struct {
	Key          string
	LanguageKeys []string // composite language keys in document order
}

// Entity is the content of one entity document.
type Entity struct {
	Name    string
	Entries []Entry
}

// Keys returns the entry keys in document order.
func (e *Entity) Keys() []string {
	keys := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Parse decodes a YAML entity document.
func Parse(name string, data []byte) (*Entity, error) {
	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}

	e := &Entity{Name: name}
	for _, item := range doc {
		entry := Entry{Key: fmt.Sprint(item.Key)}
		if translations, ok := item.Value.(yaml.MapSlice); ok {
			for _, t := range translations {
				entry.LanguageKeys = append(entry.LanguageKeys, fmt.Sprint(t.Key))
			}
		}
		e.Entries = append(e.Entries, entry)
	}
	return e, nil
}

// ParseJSON decodes a JSON entity document. The document must be an object
// without duplicate keys at either level.
func ParseJSON(name string, data []byte) (*Entity, error) {
	keys, values, err := objectMembers(data)
	if err != nil {
		return nil, err
	}

	e := &Entity{Name: name}
	for i, key := range keys {
		entry := Entry{Key: key}
		if v := bytes.TrimSpace(values[i]); len(v) > 0 && v[0] == '{' {
			languageKeys, _, err := objectMembers(v)
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", key, err)
			}
			entry.LanguageKeys = languageKeys
		}
		e.Entries = append(e.Entries, entry)
	}
	return e, nil
}

// objectMembers returns the keys and raw values of a JSON object in
// document order.
func objectMembers(data []byte) ([]string, []json.RawMessage, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected an object, got %v", tok)
	}

	seen := make(map[string]struct{})
	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		if _, dup := seen[key]; dup {
			return nil, nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, raw)
	}
	return keys, values, nil
}

// ReadFile reads one entity document. The entity is named after the file.
// Files with a .yaml or .yml extension are YAML, everything else is JSON.
func ReadFile(fsys afero.Fs, name string) (*Entity, error) {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	parse, format := ParseJSON, "json"
	if ext := strings.ToLower(path.Ext(name)); ext == ".yaml" || ext == ".yml" {
		parse, format = Parse, "yaml"
	}
	e, err := parse(files.BaseName(name), data)
	if err != nil {
		return nil, errors.WrapParse(format, name, err)
	}
	return e, nil
}

// LoadDir reads every entity document in dir matching pattern, in file name order.
func LoadDir(ctx context.Context, fsys afero.Fs, dir, pattern string) ([]*Entity, error) {
	names, err := files.ListFileNames(fsys, dir, pattern)
	if err != nil {
		return nil, err
	}

	out := make([]*Entity, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Tokens flattens the composite language keys of an entry.
func (e Entry) Tokens(delimiter string) []string {
	if delimiter == "" {
		delimiter = constants.LanguageDelimiter
	}
	var tokens []string
	for _, key := range e.LanguageKeys {
		for _, tok := range strings.Split(key, delimiter) {
			tokens = append(tokens, strings.TrimSpace(tok))
		}
	}
	return tokens
}

// CheckLanguageCoverage compares the number of language tokens of every entry
// with the number of project languages. Fewer tokens yields one incomplete
// translation warning, more yields one duplicate warning. Entries are checked
// independently.
func CheckLanguageCoverage(e *Entity, languages []string, delimiter string) []report.Entry {
	var out []report.Entry
	expected := strings.Join(languages, ",")
	for _, entry := range e.Entries {
		tokens := entry.Tokens(delimiter)
		switch {
		case len(tokens) < len(languages):
			out = append(out, report.Warnf("Not all languages (%s) were defined in %s:%s (has only %s)",
				expected, e.Name, entry.Key, strings.Join(tokens, ",")))
		case len(tokens) > len(languages):
			out = append(out, report.Warnf("A language has been defined more than once for %s:%s (%s)",
				e.Name, entry.Key, strings.Join(tokens, ",")))
		}
	}
	return out
}
