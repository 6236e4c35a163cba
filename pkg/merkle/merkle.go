// Package merkle implements the commitment scheme shared with the
// off-chain authority: keccak256 leaves combined pairwise with a
// sorted-pair rule, so proofs verify without sibling position flags.
//
// Tree construction convention (wire format, fixed):
//   - leaves are 32-byte keccak256 digests, in the authority's order
//   - parent = keccak256(min(a,b) || max(a,b)) by byte comparison
//   - an odd node at the end of a level is promoted unchanged
package merkle

import (
	"bytes"
	"errors"

	"golang.org/x/crypto/sha3"
)

// HashSize is the digest size of the tree's hash function.
const HashSize = 32

var errNoLeaves = errors.New("merkle: tree requires at least one leaf")

func keccak256(parts ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Combine hashes a sibling pair with the canonical order-independent
// rule: the lexicographically smaller digest goes first.
func Combine(a, b []byte) []byte {
	if bytes.Compare(a, b) <= 0 {
		return keccak256(a, b)
	}
	return keccak256(b, a)
}

// Verify checks a Merkle inclusion proof of leaf against root. The
// proof is the sibling path from the leaf up to, but excluding, the
// root.
func Verify(leaf []byte, proof [][]byte, root []byte) bool {
	if len(leaf) != HashSize || len(root) != HashSize {
		return false
	}
	computed := leaf
	for _, sibling := range proof {
		if len(sibling) != HashSize {
			return false
		}
		computed = Combine(computed, sibling)
	}
	return bytes.Equal(computed, root)
}

// Tree is a fully built Merkle tree over a fixed leaf set. It exists
// for the authority-side tooling and for tests; the engine itself only
// ever verifies proofs.
type Tree struct {
	levels [][][]byte // levels[0] = leaves, last level = [root]
}

// NewTree builds a tree over the given leaf digests.
func NewTree(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, errNoLeaves
	}
	for _, l := range leaves {
		if len(l) != HashSize {
			return nil, errors.New("merkle: leaf must be a 32-byte digest")
		}
	}

	level := make([][]byte, len(leaves))
	copy(level, leaves)
	levels := [][][]byte{level}

	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, Combine(level[i], level[i+1]))
			} else {
				// odd node promoted unchanged
				next = append(next, level[i])
			}
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{levels: levels}, nil
}

// Root returns the tree's commitment root.
func (t *Tree) Root() []byte {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// ProofFor returns the sibling path for the leaf at index.
func (t *Tree) ProofFor(index int) ([][]byte, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, errors.New("merkle: leaf index out of range")
	}

	var proof [][]byte
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := index ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		index /= 2
	}
	return proof, nil
}
