package merkle_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/letterdraw/letterdraw-backend/pkg/merkle"
)

func randomLeaves(t *testing.T, n int) [][]byte {
	t.Helper()
	leaves := make([][]byte, n)
	for i := range leaves {
		leaves[i] = make([]byte, merkle.HashSize)
		if _, err := rand.Read(leaves[i]); err != nil {
			t.Fatalf("failed to generate leaf: %v", err)
		}
	}
	return leaves
}

func TestTreeProofRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 33} {
		leaves := randomLeaves(t, n)
		tree, err := merkle.NewTree(leaves)
		if err != nil {
			t.Fatalf("NewTree(%d leaves): %v", n, err)
		}
		root := tree.Root()

		for i, leaf := range leaves {
			proof, err := tree.ProofFor(i)
			if err != nil {
				t.Fatalf("ProofFor(%d) with %d leaves: %v", i, n, err)
			}
			if !merkle.Verify(leaf, proof, root) {
				t.Errorf("proof for leaf %d of %d failed to verify", i, n)
			}
		}
	}
}

func TestVerifyRejectsMutatedLeaf(t *testing.T) {
	leaves := randomLeaves(t, 8)
	tree, err := merkle.NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	proof, err := tree.ProofFor(3)
	if err != nil {
		t.Fatalf("ProofFor: %v", err)
	}

	mutated := make([]byte, merkle.HashSize)
	copy(mutated, leaves[3])
	mutated[0] ^= 0x01
	if merkle.Verify(mutated, proof, tree.Root()) {
		t.Error("mutated leaf verified against root")
	}
}

func TestVerifyRejectsWrongProof(t *testing.T) {
	leaves := randomLeaves(t, 8)
	tree, err := merkle.NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	proofForOther, err := tree.ProofFor(5)
	if err != nil {
		t.Fatalf("ProofFor: %v", err)
	}
	if merkle.Verify(leaves[2], proofForOther, tree.Root()) {
		t.Error("leaf verified with another leaf's proof")
	}
}

func TestCombineOrderIndependent(t *testing.T) {
	pair := randomLeaves(t, 2)
	ab := merkle.Combine(pair[0], pair[1])
	ba := merkle.Combine(pair[1], pair[0])
	if !bytes.Equal(ab, ba) {
		t.Error("Combine depends on argument order")
	}
	if len(ab) != merkle.HashSize {
		t.Errorf("Combine returned %d bytes, want %d", len(ab), merkle.HashSize)
	}
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	leaves := randomLeaves(t, 2)
	tree, err := merkle.NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	if merkle.Verify([]byte("short"), nil, tree.Root()) {
		t.Error("short leaf accepted")
	}
	if merkle.Verify(leaves[0], [][]byte{[]byte("short")}, tree.Root()) {
		t.Error("short proof node accepted")
	}
}

func TestNewTreeRejectsBadLeaves(t *testing.T) {
	if _, err := merkle.NewTree(nil); err == nil {
		t.Error("empty leaf set accepted")
	}
	if _, err := merkle.NewTree([][]byte{[]byte("short")}); err == nil {
		t.Error("short leaf accepted")
	}
}

func TestSingleLeafTree(t *testing.T) {
	leaves := randomLeaves(t, 1)
	tree, err := merkle.NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if !bytes.Equal(tree.Root(), leaves[0]) {
		t.Error("single-leaf root should equal the leaf")
	}
	proof, err := tree.ProofFor(0)
	if err != nil {
		t.Fatalf("ProofFor: %v", err)
	}
	if len(proof) != 0 {
		t.Errorf("single-leaf proof should be empty, got %d nodes", len(proof))
	}
}
