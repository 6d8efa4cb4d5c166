// Package sources extracts comparable identifiers from each source of truth
// of a conversational agent project: handler code, intent documents, the
// reference store and local JSON documents.
//
// Every extractor builds identifiers with identifier.Build so results from
// different sources can be compared directly. Per-item problems are returned
// as report entries; failure to read a whole source is returned as an error.
package sources

// ID represents the identifier of a data source. It doubles as the label
// used in discrepancy lines.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Common source names.
const (
	IntentsID   ID = "intents"
	CodeID      ID = "code"
	DatabaseID  ID = "database"
	LocalJSONID ID = "local json"
	LocalCodeID ID = "local code"
)

// appendUnique appends values not yet seen, preserving order.
func appendUnique(dst []string, seen map[string]struct{}, values ...string) []string {
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
