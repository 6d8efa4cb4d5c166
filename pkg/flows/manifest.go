package flows

import (
	"fmt"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/errors"
)

// LoadManifest reads a flow manifest from fsys. See ParseManifest for the format.
func LoadManifest(fsys afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	reg, err := ParseManifest(data)
	if err != nil {
		return nil, errors.WrapParse(formatOf(path), path, err)
	}
	return reg, nil
}

// ParseManifest decodes a YAML or JSON flow manifest. Document order is kept.
//
//	booking:
//	  confirmed:          # mapping: context group
//	    cancel: Cancel    # string: handler reference
//	    reschedule: ~     # anything else: non-callable leaf
//	  start: Start        # string directly under a flow: direct handler
func ParseManifest(data []byte) (*Registry, error) {
	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for _, item := range doc {
		name := fmt.Sprint(item.Key)
		flow := NewFlow(name)

		switch body := item.Value.(type) {
		case nil:
		case yaml.MapSlice:
			for _, entry := range body {
				flow.Entries = append(flow.Entries, manifestEntry(fmt.Sprint(entry.Key), entry.Value))
			}
		default:
			return nil, fmt.Errorf("flow %q must be a mapping, got %T", name, item.Value)
		}

		reg.Add(flow)
	}
	return reg, nil
}

func manifestEntry(name string, value any) Entry {
	if group, ok := value.(yaml.MapSlice); ok {
		ctx := ContextGroup{Name: name}
		for _, m := range group {
			ctx.Methods = append(ctx.Methods, manifestHandler(fmt.Sprint(m.Key), m.Value))
		}
		return ctx
	}
	return manifestHandler(name, value)
}

func manifestHandler(name string, value any) Handler {
	if ref, ok := value.(string); ok {
		return Handler{Name: name, Fn: Ref(ref)}
	}
	return Handler{Name: name, Fn: value}
}

func formatOf(path string) string {
	if filepath.Ext(path) == ".json" {
		return "json"
	}
	return "yaml"
}
