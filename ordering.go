package cosign

import (
	"bytes"
	"sort"

	"github.com/google/btree"
	"github.com/iov-one/cosign/errors"
)

// Compare returns an integer comparing two account ids by their raw bytes,
// as unsigned values. The result is 0 if a == b, -1 if a < b and +1 if
// a > b.
func Compare(a, b AccountID) int {
	return bytes.Compare(a[:], b[:])
}

// Sort orders account ids in place, ascending by Compare.
func Sort(ids []AccountID) {
	sort.Slice(ids, func(i, j int) bool { return Compare(ids[i], ids[j]) < 0 })
}

// IsCanonical returns nil if ids are strictly ascending by Compare, that is
// sorted and without duplicates.
func IsCanonical(ids []AccountID) error {
	for i := 1; i < len(ids); i++ {
		switch Compare(ids[i-1], ids[i]) {
		case 0:
			return errors.Wrapf(errors.ErrCanonical, "signatory %d is a duplicate of %d", i, i-1)
		case 1:
			return errors.Wrapf(errors.ErrCanonical, "signatory %d is out of order", i)
		}
	}
	return nil
}

// SignatorySet is an ordered set of unique account ids. Iteration always
// follows the canonical order.
//
// SignatorySet is not safe for concurrent modification.
type SignatorySet struct {
	tree *btree.BTree
}

// btree degree, the sets are small.
const setDegree = 4

type setItem AccountID

func (i setItem) Less(than btree.Item) bool {
	other := than.(setItem)
	return bytes.Compare(i[:], other[:]) < 0
}

// NewSignatorySet returns a set of given ids.
func NewSignatorySet(ids ...AccountID) *SignatorySet {
	s := &SignatorySet{tree: btree.New(setDegree)}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an id. It returns false if the id was already present.
func (s *SignatorySet) Add(id AccountID) bool {
	return s.tree.ReplaceOrInsert(setItem(id)) == nil
}

// Remove deletes an id. It returns false if the id was not present.
func (s *SignatorySet) Remove(id AccountID) bool {
	return s.tree.Delete(setItem(id)) != nil
}

// Has returns true if the id is a member of the set.
func (s *SignatorySet) Has(id AccountID) bool {
	return s.tree.Has(setItem(id))
}

// Len returns the number of members.
func (s *SignatorySet) Len() int {
	return s.tree.Len()
}

// List returns all members in canonical order.
func (s *SignatorySet) List() []AccountID {
	out := make([]AccountID, 0, s.tree.Len())
	s.tree.Ascend(func(i btree.Item) bool {
		out = append(out, AccountID(i.(setItem)))
		return true
	})
	return out
}

// Intersect returns the members of this set that are present in ids, in
// canonical order.
func (s *SignatorySet) Intersect(ids []AccountID) []AccountID {
	other := NewSignatorySet(ids...)
	var out []AccountID
	s.tree.Ascend(func(i btree.Item) bool {
		if other.tree.Has(i) {
			out = append(out, AccountID(i.(setItem)))
		}
		return true
	})
	return out
}

// Others returns the signatories passed to a co-signing call made by
// acting: the full set without acting, in canonical order. The acting
// account is matched by its raw bytes.
func Others(signatories []AccountID, acting AccountID) []AccountID {
	set := NewSignatorySet(signatories...)
	set.Remove(acting)
	return set.List()
}
