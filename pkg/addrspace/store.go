package addrspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/log"
	"github.com/cuemby/opcuad/pkg/model"
	bolt "go.etcd.io/bbolt"
)

var (
	// ErrAlreadyExists is returned by Insert when the requested NodeId is
	// already present in the store.
	ErrAlreadyExists = errors.New("node already exists")
	// ErrNotFound is returned by Get/Remove/reference operations when the
	// referenced NodeId is not present.
	ErrNotFound = errors.New("node not found")
	// ErrDuplicateReference is returned when installing a reference pair
	// that already exists (same source, type, target, direction).
	ErrDuplicateReference = errors.New("reference already exists")
)

var (
	bucketNodes = []byte("nodes")
	bucketMeta  = []byte("meta")
)

// Store owns the node store and reference index for a single server
// instance. It is safe for concurrent use; each exported method is
// atomic, but a caller composing several calls into one logical
// operation must hold its own lock (see pkg/server).
type Store struct {
	db        *bolt.DB
	dir       string
	Namespace uint16 // the server's dedicated namespace for assigned NodeIds
}

// Open creates a new Store backed by a bolt database file in a fresh
// temp directory under os.TempDir, named with the given prefix. The
// directory is removed on Close: the address space never persists
// across restarts.
func Open(tempDirPrefix string, namespace uint16) (*Store, error) {
	dir, err := os.MkdirTemp("", tempDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("addrspace: create temp dir: %w", err)
	}

	db, err := bolt.Open(dir+"/addrspace.db", 0600, nil)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("addrspace: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketNodes); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	})
	if err != nil {
		db.Close()
		os.RemoveAll(dir)
		return nil, fmt.Errorf("addrspace: create buckets: %w", err)
	}

	return &Store{db: db, dir: dir, Namespace: namespace}, nil
}

// Close closes the underlying database and removes its backing temp
// directory.
func (s *Store) Close() error {
	err := s.db.Close()
	if rmErr := os.RemoveAll(s.dir); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

func key(id ids.NodeId) []byte {
	return []byte(id.String())
}

// nextID allocates a fresh numeric NodeId in the store's namespace.
func (s *Store) nextID(tx *bolt.Tx) (ids.NodeId, error) {
	b := tx.Bucket(bucketMeta)
	seq, err := b.NextSequence()
	if err != nil {
		return ids.NULL, err
	}
	return ids.NewNumeric(s.Namespace, uint32(seq)), nil
}

// Insert adds node to the store. If node.Id is NULL, a fresh NodeId is
// assigned in the store's namespace and returned; the caller's node is
// not mutated. If node.Id is non-NULL and already present,
// ErrAlreadyExists is returned and nothing is mutated.
func (s *Store) Insert(node *model.Node) (ids.NodeId, error) {
	var assigned ids.NodeId
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)

		id := node.Id
		if id.IsNull() {
			var err error
			id, err = s.nextID(tx)
			if err != nil {
				return err
			}
		} else if b.Get(key(id)) != nil {
			return ErrAlreadyExists
		}

		toStore := node.Clone()
		toStore.Id = id

		data, err := json.Marshal(toStore)
		if err != nil {
			return fmt.Errorf("marshal node %s: %w", id, err)
		}
		if err := b.Put(key(id), data); err != nil {
			return err
		}
		assigned = id
		return nil
	})
	if err != nil {
		return ids.NULL, err
	}
	log.WithNodeID(assigned.String()).Debug().Msg("node inserted")
	return assigned, nil
}

// Get returns a copy of the node with the given id.
func (s *Store) Get(id ids.NodeId) (*model.Node, error) {
	var node *model.Node
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		data := b.Get(key(id))
		if data == nil {
			return ErrNotFound
		}
		var n model.Node
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unmarshal node %s: %w", id, err)
		}
		node = &n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Exists reports whether id is present in the store.
func (s *Store) Exists(id ids.NodeId) bool {
	_, err := s.Get(id)
	return err == nil
}

// Update reads the node at id, applies fn, and writes the result back in
// the same transaction. fn may return an error to abort the write.
func (s *Store) Update(id ids.NodeId, fn func(*model.Node) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		data := b.Get(key(id))
		if data == nil {
			return ErrNotFound
		}
		var n model.Node
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unmarshal node %s: %w", id, err)
		}
		if err := fn(&n); err != nil {
			return err
		}
		out, err := json.Marshal(&n)
		if err != nil {
			return fmt.Errorf("marshal node %s: %w", id, err)
		}
		return b.Put(key(id), out)
	})
}

// Remove deletes and returns the node with the given id.
func (s *Store) Remove(id ids.NodeId) (*model.Node, error) {
	var removed *model.Node
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		data := b.Get(key(id))
		if data == nil {
			return ErrNotFound
		}
		var n model.Node
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unmarshal node %s: %w", id, err)
		}
		removed = &n
		return b.Delete(key(id))
	})
	if err != nil {
		return nil, err
	}
	log.WithNodeID(id.String()).Debug().Msg("node removed")
	return removed, nil
}

// Iterate calls fn once per node in the store, in bolt's key order
// (lexicographic on the textual NodeId, not insertion order). Iteration
// stops early if fn returns false.
func (s *Store) Iterate(fn func(*model.Node) bool) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var n model.Node
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("unmarshal node: %w", err)
			}
			if !fn(&n) {
				break
			}
		}
		return nil
	})
}

// Count returns the number of nodes currently in the store.
func (s *Store) Count() int {
	count := 0
	_ = s.Iterate(func(*model.Node) bool {
		count++
		return true
	})
	return count
}
