// Package files reads the structured documents of a project directory.
// All functions operate on an afero.Fs so callers can point them at the
// real filesystem, a base-path view of a project, or an in-memory tree.
package files

import (
	"encoding/json"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/errors"
)

// ListFileNames returns the names of the files in dir matching pattern,
// relative to dir and sorted. pattern supports doublestar syntax, so "**/*.json"
// descends into subdirectories. A missing dir is an error.
func ListFileNames(fsys afero.Fs, dir, pattern string) ([]string, error) {
	dir = cleanDir(dir)
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, errors.WrapIO("list", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewIOError("list", dir, errors.New("not a directory"))
	}

	matches, err := doublestar.Glob(afero.NewIOFS(fsys), path.Join(dir, pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.WrapIO("list", dir, err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		rel := strings.TrimPrefix(m, dir+"/")
		if dir == "." {
			rel = m
		}
		names = append(names, rel)
	}
	slices.Sort(names)
	return names, nil
}

// ReadJSONFile decodes one document into v. Files with a .yaml or .yml
// extension are decoded as YAML.
func ReadJSONFile(fsys afero.Fs, name string, v any) error {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return errors.WrapIO("read", name, err)
	}
	return decode(name, data, v)
}

// ReadJSONFiles decodes the named documents of dir into generic objects.
// The result is parallel to names.
func ReadJSONFiles(fsys afero.Fs, dir string, names []string) ([]map[string]any, error) {
	docs := make([]map[string]any, 0, len(names))
	for _, name := range names {
		var doc map[string]any
		if err := ReadJSONFile(fsys, path.Join(cleanDir(dir), name), &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ParseJSONFilesIntoObject reads every document in dir matching pattern and
// returns them keyed by file name without extension.
func ParseJSONFilesIntoObject(fsys afero.Fs, dir, pattern string) (map[string]map[string]any, error) {
	names, err := ListFileNames(fsys, dir, pattern)
	if err != nil {
		return nil, err
	}
	docs, err := ReadJSONFiles(fsys, dir, names)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any, len(names))
	for i, name := range names {
		out[BaseName(name)] = docs[i]
	}
	return out, nil
}

// BaseName returns the file name without directory and extension.
func BaseName(name string) string {
	base := path.Base(filepath.ToSlash(name))
	return strings.TrimSuffix(base, path.Ext(base))
}

func decode(name string, data []byte, v any) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return errors.WrapParse("yaml", name, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return errors.WrapParse("json", name, err)
		}
	}
	return nil
}

func cleanDir(dir string) string {
	if dir == "" {
		return "."
	}
	return path.Clean(filepath.ToSlash(dir))
}
