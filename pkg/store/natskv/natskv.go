// Package natskv implements store.Store on NATS JetStream key-value buckets.
// Each collection is a bucket and each key holds one JSON document.
package natskv

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/agentstation/flowcheck/pkg/constants"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/logging"
	"github.com/agentstation/flowcheck/pkg/store"
)

// Config configures the connection.
type Config struct {
	URL string
	// BucketPrefix is prepended to collection names to form bucket names.
	BucketPrefix string
}

// Bucket is the read surface of a key-value bucket.
type Bucket interface {
	Keys(ctx context.Context) ([]string, error)
	Value(ctx context.Context, key string) ([]byte, error)
}

// OpenFunc resolves a collection to its bucket.
type OpenFunc func(ctx context.Context, collection string) (Bucket, error)

// Store reads collections from key-value buckets.
type Store struct {
	conn *nats.Conn
	open OpenFunc
}

var _ store.Store = (*Store)(nil)

// Connect dials the server and prepares a JetStream context.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	url := cfg.URL
	if url == "" {
		url = constants.DefaultNATSURL
	}

	conn, err := nats.Connect(url, nats.Name("flowcheck"), nats.Timeout(constants.DialTimeout))
	if err != nil {
		return nil, errors.WrapResource("connect", "nats", url, err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapResource("connect", "jetstream", url, err)
	}

	logging.FromContext(ctx).Debug().Str("url", url).Msg("Connected to NATS")

	s := New(func(ctx context.Context, collection string) (Bucket, error) {
		kv, err := js.KeyValue(ctx, cfg.BucketPrefix+collection)
		if err != nil {
			if errors.Is(err, jetstream.ErrBucketNotFound) {
				return nil, errors.NewNotFoundError("bucket", cfg.BucketPrefix+collection)
			}
			return nil, err
		}
		return kvBucket{kv: kv}, nil
	})
	s.conn = conn
	return s, nil
}

// New creates a store over buckets resolved by open.
func New(open OpenFunc) *Store {
	return &Store{open: open}
}

// Get implements store.Store. Filtering, ordering and paging happen in memory.
func (s *Store) Get(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	bucket, err := s.open(ctx, collection)
	if err != nil {
		return nil, errors.WrapResource("open", "collection", collection, err)
	}

	keys, err := bucket.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []store.Record{}, nil
		}
		return nil, errors.WrapResource("list", "collection", collection, err)
	}

	logger := logging.FromContext(ctx)
	records := make([]store.Record, 0, len(keys))
	for _, key := range keys {
		data, err := bucket.Value(ctx, key)
		if err != nil {
			// deleted between listing and reading
			if errors.Is(err, jetstream.ErrKeyDeleted) || errors.Is(err, jetstream.ErrKeyNotFound) {
				continue
			}
			return nil, errors.WrapResource("get", "collection", collection+"/"+key, err)
		}

		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			logger.Warn().Str("collection", collection).Str("key", key).Err(err).Msg("Skipping undecodable record")
			continue
		}
		records = append(records, store.Record{Key: key, Fields: fields})
	}

	return store.Apply(records, q), nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}

type kvBucket struct {
	kv jetstream.KeyValue
}

func (b kvBucket) Keys(ctx context.Context) ([]string, error) {
	return b.kv.Keys(ctx)
}

func (b kvBucket) Value(ctx context.Context, key string) ([]byte, error) {
	entry, err := b.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return entry.Value(), nil
}
