package sources

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/flows"
	"github.com/agentstation/flowcheck/pkg/identifier"
	"github.com/agentstation/flowcheck/pkg/intents"
	"github.com/agentstation/flowcheck/pkg/report"
)

// ContextMode selects how documents with several contexts contribute identifiers.
type ContextMode int

const (
	// ContextModeAll emits one identifier per context.
	ContextModeAll ContextMode = iota
	// ContextModeLast keeps only the identifier of the last context of each
	// document. Earlier releases behaved this way.
	ContextModeLast
)

// String returns the string representation of a context mode.
func (m ContextMode) String() string {
	switch m {
	case ContextModeAll:
		return "all"
	case ContextModeLast:
		return "last"
	default:
		return fmt.Sprintf("ContextMode(%d)", int(m))
	}
}

// ParseContextMode parses "all" or "last".
func ParseContextMode(s string) (ContextMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ContextModeAll, nil
	case "last":
		return ContextModeLast, nil
	default:
		return ContextModeAll, errors.NewValidationError("context_mode", s, "must be all or last")
	}
}

// IntentHandlers returns the handler identifiers targeted by docs, in
// document order. A document without contexts yields one context-less
// identifier.
func IntentHandlers(docs []intents.Document, mode ContextMode) []string {
	var ids []string
	for _, doc := range docs {
		if len(doc.Contexts) == 0 {
			ids = append(ids, identifier.Build(doc.Flow, "", doc.Method))
			continue
		}
		if mode == ContextModeLast {
			ids = append(ids, identifier.Build(doc.Flow, doc.Contexts[len(doc.Contexts)-1], doc.Method))
			continue
		}
		for _, ctx := range doc.Contexts {
			ids = append(ids, identifier.Build(doc.Flow, ctx, doc.Method))
		}
	}
	return ids
}

// IntentFlows returns the distinct flow names targeted by docs, in document order.
func IntentFlows(docs []intents.Document) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, doc := range docs {
		if doc.Flow == "" {
			continue
		}
		out = appendUnique(out, seen, doc.Flow)
	}
	return out
}

// IntentContexts returns the distinct contexts used by docs, in document order.
func IntentContexts(docs []intents.Document) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, doc := range docs {
		out = appendUnique(out, seen, doc.Contexts...)
	}
	return out
}

// ResolveReferences looks up, for every context of every document, the flow,
// context and method it targets in reg. Each failed lookup yields one entry.
// Flows named in defaultFlows are provided by the platform and are not
// reported when missing. Whitelisted documents have no flow and are skipped.
func ResolveReferences(docs []intents.Document, reg *flows.Registry, defaultFlows []string) []report.Entry {
	var out []report.Entry
	for _, doc := range docs {
		if doc.Default {
			continue
		}
		for _, ctxName := range doc.Contexts {
			if err := resolve(reg, doc.Flow, ctxName, doc.Method, defaultFlows); err != nil {
				out = append(out, report.FromError(err))
			}
		}
	}
	return out
}

func resolve(reg *flows.Registry, flowName, ctxName, method string, defaultFlows []string) error {
	flow, ok := reg.Flow(flowName)
	if !ok {
		if slices.Contains(defaultFlows, flowName) {
			return nil
		}
		return &errors.MissingReferenceError{Kind: errors.RefFlow, Flow: flowName}
	}

	group, ok := flow.Context(ctxName)
	if !ok {
		return &errors.MissingReferenceError{Kind: errors.RefContext, Flow: flowName, Context: ctxName}
	}

	handler, ok := group.Method(method)
	if !ok {
		return &errors.MissingReferenceError{Kind: errors.RefMethod, Flow: flowName, Context: ctxName, Method: method}
	}

	if !handler.Callable() {
		return &errors.NonCallableLeafError{Flow: flowName, Context: ctxName, Method: method}
	}
	return nil
}
