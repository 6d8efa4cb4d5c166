package sources

import (
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/flows"
	"github.com/agentstation/flowcheck/pkg/identifier"
	"github.com/agentstation/flowcheck/pkg/report"
)

// CodeHandlers returns the identifier of every callable handler in reg, in
// traversal order. Each non-callable leaf yields a warning entry instead.
func CodeHandlers(reg *flows.Registry) ([]string, []report.Entry) {
	var ids []string
	var issues []report.Entry

	for _, flow := range reg.Flows() {
		for _, entry := range flow.Entries {
			switch e := entry.(type) {
			case flows.ContextGroup:
				for _, m := range e.Methods {
					if !m.Callable() {
						issues = append(issues, report.FromError(&errors.NonCallableLeafError{
							Flow: flow.Name, Context: e.Name, Method: m.Name,
						}))
						continue
					}
					ids = append(ids, identifier.Build(flow.Name, e.Name, m.Name))
				}
			case flows.Handler:
				if !e.Callable() {
					issues = append(issues, report.FromError(&errors.NonCallableLeafError{
						Flow: flow.Name, Method: e.Name,
					}))
					continue
				}
				ids = append(ids, identifier.Build(flow.Name, "", e.Name))
			}
		}
	}
	return ids, issues
}

// CodeFlows returns defaults followed by the flow names of reg, without duplicates.
func CodeFlows(reg *flows.Registry, defaults []string) []string {
	seen := make(map[string]struct{})
	out := appendUnique(nil, seen, defaults...)
	return appendUnique(out, seen, reg.Names()...)
}

// CodeContexts returns defaults followed by the context names used in reg,
// without duplicates.
func CodeContexts(reg *flows.Registry, defaults []string) []string {
	seen := make(map[string]struct{})
	out := appendUnique(nil, seen, defaults...)
	return appendUnique(out, seen, reg.ContextNames()...)
}
