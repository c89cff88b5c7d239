// Package relation stores a transitively closed directed relation over a
// dense integer id space.
package relation

import "github.com/avalon-vm/panda/intset"

// Relation is a transitively closed directed relation on dense integer ids.
// It is not safe for concurrent use.
type Relation struct {
	direct  []*intset.IntSet // direct[a] = { b : a -> b }
	inverse []*intset.IntSet // inverse[b] = { a : a -> b }
}

// New returns an empty relation sized to hold ids in [0, n).
func New(n int) *Relation {
	r := &Relation{
		direct:  make([]*intset.IntSet, n),
		inverse: make([]*intset.IntSet, n),
	}
	for i := range r.direct {
		r.direct[i] = intset.New()
		r.inverse[i] = intset.New()
	}
	return r
}

func (r *Relation) ensure(id int) {
	for id >= len(r.direct) {
		r.direct = append(r.direct, intset.New())
		r.inverse = append(r.inverse, intset.New())
	}
}

// Relate inserts b (and a-transitive closure of it) into direct[a], a into
// inverse[b], and propagates the new closure through existing predecessors
// of a and successors of b, keeping the relation transitively closed.
func (r *Relation) Relate(a, b int) {
	r.ensure(a)
	r.ensure(b)

	if r.direct[a].Contains(uint64(b)) {
		return // already related; closure already holds
	}

	// b and everything b already reaches become reachable from a.
	r.direct[a].Insert(uint64(b))
	r.inverse[b].Insert(uint64(a))
	r.direct[b].ForAll(func(c uint64) bool {
		r.addDirect(a, int(c))
		return true
	})

	// Propagate through existing predecessors of a: anyone who could reach a
	// can now reach b and its closure.
	r.inverse[a].ForAll(func(p uint64) bool {
		r.addDirect(int(p), b)
		r.direct[b].ForAll(func(c uint64) bool {
			r.addDirect(int(p), int(c))
			return true
		})
		return true
	})
}

// addDirect inserts the single edge p->c (not recursively closing further);
// used internally while propagating an already-known closure.
func (r *Relation) addDirect(p, c int) {
	r.ensure(p)
	r.ensure(c)
	if r.direct[p].Contains(uint64(c)) {
		return
	}
	r.direct[p].Insert(uint64(c))
	r.inverse[c].Insert(uint64(p))
}

// SymmRelate relates a->b and b->a.
func (r *Relation) SymmRelate(a, b int) {
	r.Relate(a, b)
	r.Relate(b, a)
}

// IsInDirect reports whether a->b holds.
func (r *Relation) IsInDirect(a, b int) bool {
	if a < 0 || a >= len(r.direct) {
		return false
	}
	return r.direct[a].Contains(uint64(b))
}

// IsInInverse reports whether a->b holds (i.e. a is a predecessor of b,
// queried from b's side).
func (r *Relation) IsInInverse(b, a int) bool {
	if b < 0 || b >= len(r.inverse) {
		return false
	}
	return r.inverse[b].Contains(uint64(a))
}

// IsInEither reports whether a->b or b->a holds.
func (r *Relation) IsInEither(a, b int) bool {
	return r.IsInDirect(a, b) || r.IsInDirect(b, a)
}

// IsInIso ("both") reports whether a->b and b->a both hold.
func (r *Relation) IsInIso(a, b int) bool {
	return r.IsInDirect(a, b) && r.IsInDirect(b, a)
}

// From returns the set of ids reachable directly from a, in ascending order.
func (r *Relation) From(a int) []int {
	if a < 0 || a >= len(r.direct) {
		return nil
	}
	return toSlice(r.direct[a])
}

// To returns the set of ids that reach b, in ascending order.
func (r *Relation) To(b int) []int {
	if b < 0 || b >= len(r.inverse) {
		return nil
	}
	return toSlice(r.inverse[b])
}

// Between returns direct[a] ∩ inverse[b], in ascending order: the ids that
// are both reachable from a and able to reach b.
func (r *Relation) Between(a, b int) []int {
	if a < 0 || a >= len(r.direct) || b < 0 || b >= len(r.inverse) {
		return nil
	}
	inter := r.direct[a].Intersect(r.inverse[b])
	return toSlice(inter)
}

func toSlice(s *intset.IntSet) []int {
	var out []int
	s.ForAll(func(v uint64) bool { out = append(out, int(v)); return true })
	return out
}
