// Package badgerstore implements the store contracts on top of an embedded
// Badger key-value database. Documents are JSON values under
// users/<uid>/<collection>/<id> keys; subscriptions are layered over an
// in-process change notifier.
package badgerstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/edupilot/edupilot-api/internal/store"
)

// DB wraps the Badger handle shared by all entity stores.
type DB struct {
	db       *badger.DB
	notifier *notifier
	logger   *slog.Logger
}

// Open opens (or creates) the database at path.
func Open(path string, logger *slog.Logger) (*DB, error) {
	opts := badger.DefaultOptions(path).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database at %s: %w", path, err)
	}

	return &DB{
		db:       db,
		notifier: newNotifier(),
		logger:   logger.With("component", "badgerstore"),
	}, nil
}

// Close flushes and closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// userKey builds a users/<uid>/<collection>/<id> document key.
func userKey(userID, collection, id string) []byte {
	return []byte("users/" + userID + "/" + collection + "/" + id)
}

// userPrefix builds the key prefix for one user's collection.
func userPrefix(userID, collection string) []byte {
	return []byte("users/" + userID + "/" + collection + "/")
}

// put stores a JSON-marshalled value and notifies watchers of the prefix.
func (d *DB) put(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", key, err)
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("put document %s: %w", key, err)
	}

	d.notifier.publish(prefixOf(key))
	return nil
}

// get reads a document into out. Returns store.ErrNotFound when absent.
func (d *DB) get(key []byte, out any) error {
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get document %s: %w", key, err)
	}
	return nil
}

// delete removes a document. Returns store.ErrNotFound when absent.
func (d *DB) delete(key []byte) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}

	d.notifier.publish(prefixOf(key))
	return nil
}

// listPrefix calls fn with the raw value of every document under prefix.
func (d *DB) listPrefix(prefix []byte, fn func(val []byte) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				return fn(val)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// prefixOf reduces a document key to its collection prefix, the unit of
// change notification (users/<uid>/<collection>/).
func prefixOf(key []byte) string {
	s := string(key)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[:i+1]
	}
	return s
}

// notifier fans change signals out to subscription channels per key prefix.
type notifier struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[int]chan struct{})}
}

// subscribe registers interest in a prefix. The returned channel receives a
// coalesced signal per change burst; cancel unregisters it.
func (n *notifier) subscribe(prefix string) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan struct{}, 1)
	id := n.next
	n.next++

	if n.subs[prefix] == nil {
		n.subs[prefix] = make(map[int]chan struct{})
	}
	n.subs[prefix][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if subs, ok := n.subs[prefix]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(n.subs, prefix)
			}
		}
	}
	return ch, cancel
}

func (n *notifier) publish(prefix string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[prefix] {
		select {
		case ch <- struct{}{}:
		default: // signal already pending
		}
	}
}
