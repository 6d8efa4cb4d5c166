// Package datastore implements store.Store on Google Cloud Datastore.
package datastore

import (
	"context"
	"maps"
	"slices"
	"strconv"

	gds "cloud.google.com/go/datastore"
	"google.golang.org/api/option"

	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/store"
)

// Config selects the project and credentials used to connect.
type Config struct {
	ProjectID string
	Namespace string
	// CredentialsFile is a service account key file. Application default
	// credentials are used when empty.
	CredentialsFile string
}

// client is the subset of *gds.Client used by Store.
type client interface {
	GetAll(ctx context.Context, q *gds.Query, dst interface{}) ([]*gds.Key, error)
	Close() error
}

// Store queries Datastore kinds as collections.
type Store struct {
	client    client
	namespace string
}

var _ store.Store = (*Store)(nil)

// New connects to Datastore.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	c, err := gds.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, errors.WrapResource("connect", "datastore", cfg.ProjectID, err)
	}
	return &Store{client: c, namespace: cfg.Namespace}, nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	var entities []gds.PropertyList
	keys, err := s.client.GetAll(ctx, buildQuery(collection, s.namespace, q), &entities)
	if err != nil {
		return nil, errors.WrapResource("query", "collection", collection, err)
	}

	records := make([]store.Record, 0, len(entities))
	for i, props := range entities {
		rec := store.Record{Fields: make(map[string]any, len(props))}
		if i < len(keys) {
			rec.Key = keyString(keys[i])
		}
		for _, p := range props {
			rec.Fields[p.Name] = p.Value
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.client.Close()
}

func buildQuery(kind, namespace string, q store.Query) *gds.Query {
	query := gds.NewQuery(kind)
	if namespace != "" {
		query = query.Namespace(namespace)
	}
	for _, field := range slices.Sorted(maps.Keys(q.Where)) {
		query = query.FilterField(field, "=", q.Where[field])
	}
	for _, o := range q.Order {
		name := o.Field
		if o.Descending {
			name = "-" + name
		}
		query = query.Order(name)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

func keyString(k *gds.Key) string {
	if k == nil {
		return ""
	}
	if k.Name != "" {
		return k.Name
	}
	return strconv.FormatInt(k.ID, 10)
}
