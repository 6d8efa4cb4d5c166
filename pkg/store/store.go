// Package store defines the read-only query interface flowcheck uses to look
// at reference records held in a document store.
//
// Backends live in subpackages: memstore for in-memory and snapshot data,
// datastore for Google Cloud Datastore and natskv for NATS JetStream
// key-value buckets. Credentials are passed explicitly when a backend is
// constructed.
package store

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// Record is one document of a collection.
type Record struct {
	Key    string         `json:"key" yaml:"key"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// Value returns the value of a field.
func (r Record) Value(field string) (any, bool) {
	v, ok := r.Fields[field]
	return v, ok
}

// Order sorts query results by one field.
type Order struct {
	Field      string
	Descending bool
}

// Query narrows the records returned by Get. The zero value returns everything.
type Query struct {
	// Where holds equality filters, all of which must match.
	Where map[string]any
	// Order is applied in sequence, first entry most significant.
	Order  []Order
	Offset int
	Limit  int
}

// Store is a read-only document store.
type Store interface {
	// Get returns the records of collection matching q.
	Get(ctx context.Context, collection string, q Query) ([]Record, error)

	// Close releases any connection held by the store.
	Close() error
}

// Unavailable returns a Store whose queries all fail with err. It stands in
// for a backend that could not be opened.
func Unavailable(err error) Store {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) Get(context.Context, string, Query) ([]Record, error) {
	return nil, u.err
}

func (unavailable) Close() error { return nil }

// Apply filters, orders and pages records in memory. Backends without native
// querying use it to honour Query.
func Apply(records []Record, q Query) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, q.Where) {
			out = append(out, r)
		}
	}

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				a, _ := out[i].Value(o.Field)
				b, _ := out[j].Value(o.Field)
				c := compareValues(a, b)
				if c == 0 {
					continue
				}
				if o.Descending {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []Record{}
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

func matches(r Record, where map[string]any) bool {
	for _, field := range slices.Sorted(maps.Keys(where)) {
		v, ok := r.Value(field)
		if !ok || !equalValues(v, where[field]) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders nil first, then numbers numerically, then everything
// else by its string form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
