package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v2"
	"github.com/ruteri/shamir-reconstruct/interfaces"
)

// BadgerBackend keeps objects in an embedded badger key-value store. Keys
// are "<content type>/<hex id>".
type BadgerBackend struct {
	db          *badger.DB
	dir         string
	log         *slog.Logger
	locationURI string
}

// NewBadgerBackend opens (or creates) a store in dir. An empty dir with
// inMemory set gives a throwaway store.
func NewBadgerBackend(dir string, inMemory bool, log *slog.Logger) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	uri := "badger://" + dir
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
		uri = "badger://?inmemory=true"
	} else if dir == "" {
		return nil, fmt.Errorf("%w: empty badger directory", interfaces.ErrInvalidLocationURI)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	return &BadgerBackend{db: db, dir: dir, log: log, locationURI: uri}, nil
}

func (b *BadgerBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id, contentType))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, interfaces.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger read failed: %w", err)
	}
	if err := verifyContent(id, data); err != nil {
		return nil, err
	}

	b.log.Debug("Fetched content from badger", slog.String("content_id", id.Short()), slog.Int("size", len(data)))
	return data, nil
}

func (b *BadgerBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(id, contentType), data)
	})
	if err != nil {
		return id, fmt.Errorf("badger write failed: %w", err)
	}

	b.log.Debug("Stored content in badger", slog.String("content_id", id.String()))
	return id, nil
}

func (b *BadgerBackend) Available(ctx context.Context) bool {
	return !b.db.IsClosed()
}

func (b *BadgerBackend) Name() string {
	if b.dir == "" {
		return "badger-memory"
	}
	return "badger-" + b.dir
}

func (b *BadgerBackend) LocationURI() string {
	return b.locationURI
}

// Close releases the store. The backend is unavailable afterwards.
func (b *BadgerBackend) Close() error {
	if b.db.IsClosed() {
		return nil
	}
	return b.db.Close()
}

func badgerKey(id interfaces.ContentID, contentType interfaces.ContentType) []byte {
	return []byte(objectKey("", id, contentType))
}
