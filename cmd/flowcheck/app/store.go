package app

import (
	"context"

	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/store"
	"github.com/agentstation/flowcheck/pkg/store/datastore"
	"github.com/agentstation/flowcheck/pkg/store/memstore"
	"github.com/agentstation/flowcheck/pkg/store/natskv"
)

// Store returns the reference store, opening it on first use. A backend that
// cannot be opened yields a store whose queries fail, so only the checks
// reading the store report the problem. The file backend reads its snapshot
// directory on every query.
func (a *App) Store(ctx context.Context) store.Store {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store
	}

	s, err := a.openStore(ctx)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("backend", a.config.Store.Backend).
			Msg("Reference store unavailable")
		s = store.Unavailable(err)
	}
	a.store = s
	return s
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	cfg := a.config.Store

	switch cfg.Backend {
	case BackendFile, "":
		return memstore.NewDirStore(a.projectFS(), cfg.Dir), nil
	case BackendDatastore:
		return datastore.New(ctx, datastore.Config{
			ProjectID:       cfg.ProjectID,
			Namespace:       cfg.Namespace,
			CredentialsFile: cfg.CredentialsFile,
		})
	case BackendNATS:
		return natskv.Connect(ctx, natskv.Config{
			URL:          cfg.NATSURL,
			BucketPrefix: cfg.BucketPrefix,
		})
	default:
		return nil, errors.NewConfigError("store", "unknown backend "+cfg.Backend, nil)
	}
}
