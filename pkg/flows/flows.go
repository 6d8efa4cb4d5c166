// Package flows models the handler definitions of a conversational agent.
//
// A Registry holds flows in declaration order. Each flow holds entries which
// are either a ContextGroup (named methods bound to one conversational
// context) or a direct Handler that is reachable without a context. The
// variant of an entry is fixed when the registry is built, either in-process
// by the embedding application or from a manifest file.
//
// Example usage:
//
//	reg := flows.NewRegistry(
//	    flows.NewFlow("booking",
//	        flows.Context("confirmed",
//	            flows.Method("cancel", booking.Cancel),
//	        ),
//	        flows.Method("start", booking.Start),
//	    ),
//	)
package flows

import (
	"reflect"
	"slices"
)

// Entry is either a ContextGroup or a Handler.
type Entry interface {
	// EntryName returns the key of the entry within its flow.
	EntryName() string
	isEntry()
}

// Ref is a symbolic handler reference, used when handlers are declared in a
// manifest instead of being bound to function values.
type Ref string

// Handler is a named leaf that should hold something invocable.
type Handler struct {
	Name string
	Fn   any
}

// EntryName implements Entry.
func (h Handler) EntryName() string { return h.Name }

func (Handler) isEntry() {}

// Callable reports whether the handler can be invoked. A non-empty Ref counts
// as callable; any other value must be a non-nil function.
func (h Handler) Callable() bool {
	switch fn := h.Fn.(type) {
	case nil:
		return false
	case Ref:
		return fn != ""
	default:
		v := reflect.ValueOf(fn)
		return v.Kind() == reflect.Func && !v.IsNil()
	}
}

// ContextGroup is a set of methods available while the conversation is in one context.
type ContextGroup struct {
	Name    string
	Methods []Handler
}

// EntryName implements Entry.
func (c ContextGroup) EntryName() string { return c.Name }

func (ContextGroup) isEntry() {}

// Method returns the method with the given name.
func (c ContextGroup) Method(name string) (Handler, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Handler{}, false
}

// Flow is a named conversational flow.
type Flow struct {
	Name    string
	Entries []Entry
}

// Context returns the context group with the given name.
func (f *Flow) Context(name string) (ContextGroup, bool) {
	for _, e := range f.Entries {
		if g, ok := e.(ContextGroup); ok && g.Name == name {
			return g, true
		}
	}
	return ContextGroup{}, false
}

// Handler returns the direct handler with the given name.
func (f *Flow) Handler(name string) (Handler, bool) {
	for _, e := range f.Entries {
		if h, ok := e.(Handler); ok && h.Name == name {
			return h, true
		}
	}
	return Handler{}, false
}

// Registry is an ordered collection of flows.
type Registry struct {
	flows []*Flow
}

// NewRegistry creates a registry holding the given flows in order.
func NewRegistry(flows ...*Flow) *Registry {
	r := &Registry{}
	for _, f := range flows {
		r.Add(f)
	}
	return r
}

// Add appends a flow, replacing any flow already registered under the same name.
func (r *Registry) Add(f *Flow) {
	if f == nil {
		return
	}
	for i, existing := range r.flows {
		if existing.Name == f.Name {
			r.flows[i] = f
			return
		}
	}
	r.flows = append(r.flows, f)
}

// Flows returns the flows in declaration order.
func (r *Registry) Flows() []*Flow {
	if r == nil {
		return nil
	}
	return slices.Clone(r.flows)
}

// Flow returns the flow with the given name.
func (r *Registry) Flow(name string) (*Flow, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.flows {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Names returns the flow names in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.flows))
	for _, f := range r.flows {
		names = append(names, f.Name)
	}
	return names
}

// ContextNames returns the distinct context group names across all flows,
// in traversal order.
func (r *Registry) ContextNames() []string {
	if r == nil {
		return nil
	}
	var names []string
	seen := make(map[string]struct{})
	for _, f := range r.flows {
		for _, e := range f.Entries {
			g, ok := e.(ContextGroup)
			if !ok {
				continue
			}
			if _, dup := seen[g.Name]; dup {
				continue
			}
			seen[g.Name] = struct{}{}
			names = append(names, g.Name)
		}
	}
	return names
}

// NewFlow creates a flow with the given entries.
func NewFlow(name string, entries ...Entry) *Flow {
	return &Flow{Name: name, Entries: entries}
}

// Context creates a context group entry.
func Context(name string, methods ...Handler) ContextGroup {
	return ContextGroup{Name: name, Methods: methods}
}

// Method creates a handler. fn is normally a function value or a Ref.
func Method(name string, fn any) Handler {
	return Handler{Name: name, Fn: fn}
}
