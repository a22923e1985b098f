package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a profile repository on top of an open backend.
//
// Returns storage.ProfileRepository interface to enforce abstraction.
func NewProfileRepository(backend *Backend) storage.ProfileRepository {
	return &ProfileRepository{backend: backend}
}

// PutProfiles stores profiles, overwriting existing IDs.
func (r *ProfileRepository) PutProfiles(ctx context.Context, profiles ...*core.Profile) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(profiles) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, profile := range profiles {
			key := makeProfileKey(profile.ID)
			if err := tx.Set(key, storage.MarshalProfile(profile)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetProfile retrieves a single profile by person ID.
func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (*core.Profile, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProfile(tx, makeProfileKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetProfiles retrieves multiple profiles, skipping missing IDs.
func (r *ProfileRepository) GetProfiles(ctx context.Context, ids ...string) ([]*core.Profile, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result []*core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			profile, err := readProfile(tx, makeProfileKey(id))
			if err != nil {
				return err
			}
			if profile != nil {
				result = append(result, profile)
			}
		}
		return nil
	}, false)
	return result, err
}

// Close is a no-op; the backend lifecycle is owned by the caller.
func (r *ProfileRepository) Close() error {
	return nil
}

// readProfile reads a profile from the transaction.
// Returns nil without error when the key doesn't exist.
func readProfile(tx *badger.Txn, key []byte) (*core.Profile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.Profile
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		profile, unmarshalErr = storage.UnmarshalProfile(val)
		return unmarshalErr
	})
	return profile, err
}
