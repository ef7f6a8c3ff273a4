package addrspace

import (
	"encoding/json"
	"fmt"

	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/model"
	bolt "go.etcd.io/bbolt"
)

// AddReferencePair installs a reference and its inverse atomically: the
// forward half is appended to source's reference list, the inverse half
// to target's. Both must already exist in the store. If either endpoint
// already carries the corresponding half of this reference,
// ErrDuplicateReference is returned and neither node is modified.
func (s *Store) AddReferencePair(source, referenceType, target ids.NodeId, isForward bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)

		src, err := loadTx(b, source)
		if err != nil {
			return err
		}
		tgt, err := loadTx(b, target)
		if err != nil {
			return err
		}

		fwdRef := model.Reference{ReferenceTypeId: referenceType, TargetId: target, IsForward: isForward}
		invRef := model.Reference{ReferenceTypeId: referenceType, TargetId: source, IsForward: !isForward}

		if src.HasReference(fwdRef) || tgt.HasReference(invRef) {
			return ErrDuplicateReference
		}

		src.AddReference(fwdRef)
		tgt.AddReference(invRef)

		if err := putTx(b, src); err != nil {
			return err
		}
		return putTx(b, tgt)
	})
}

// RemoveReferencePair removes a reference and its inverse atomically. It
// is not an error for the reference to be partially or wholly absent —
// callers that only know one endpoint still exists (e.g. deleting a node
// whose target was already removed) can call this safely.
func (s *Store) RemoveReferencePair(source, referenceType, target ids.NodeId, isForward bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)

		fwdRef := model.Reference{ReferenceTypeId: referenceType, TargetId: target, IsForward: isForward}
		invRef := model.Reference{ReferenceTypeId: referenceType, TargetId: source, IsForward: !isForward}

		if src, err := loadTx(b, source); err == nil {
			src.RemoveReference(fwdRef)
			if err := putTx(b, src); err != nil {
				return err
			}
		}
		if tgt, err := loadTx(b, target); err == nil {
			tgt.RemoveReference(invRef)
			if err := putTx(b, tgt); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveAllReferencesTo removes, from every node in the store that
// forward- or inverse-references id, the half of the pair pointing at
// id. Used by DeleteNode(id, deleteTargetReferences=true) to purge
// dangling references to a node being deleted.
func (s *Store) RemoveAllReferencesTo(id ids.NodeId) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var n model.Node
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("unmarshal node: %w", err)
			}
			changed := false
			kept := n.References[:0]
			for _, ref := range n.References {
				if ref.TargetId == id {
					changed = true
					continue
				}
				kept = append(kept, ref)
			}
			if !changed {
				continue
			}
			n.References = kept
			out, err := json.Marshal(&n)
			if err != nil {
				return fmt.Errorf("marshal node %s: %w", n.Id, err)
			}
			if err := b.Put(k, out); err != nil {
				return err
			}
		}
		return nil
	})
}

func loadTx(b *bolt.Bucket, id ids.NodeId) (*model.Node, error) {
	data := b.Get(key(id))
	if data == nil {
		return nil, ErrNotFound
	}
	var n model.Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("unmarshal node %s: %w", id, err)
	}
	return &n, nil
}

func putTx(b *bolt.Bucket, n *model.Node) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal node %s: %w", n.Id, err)
	}
	return b.Put(key(n.Id), data)
}
