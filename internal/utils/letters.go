package utils

import "math/big"

// Alphabet parameters of the draw. Letters are the integers 1..26.
const (
	AlphabetSize   = 26
	WinningSetSize = 8
)

var alphabetBig = big.NewInt(AlphabetSize)

// ExpandWinningLetters deterministically expands one random value into
// eight pairwise-distinct letters in [1,26].
//
// The expansion extracts successive base-26 digits from the value:
// candidate = (remainder mod 26) + 1, then remainder /= 26. When a
// candidate is already taken, the next free letter is found by probing
// forward through the alphabet, wrapping from 26 back to 1. The exact
// arithmetic, probe direction and digit order are fixed: changing any
// of them breaks compatibility with commitments built by the off-chain
// authority against historical draws.
func ExpandWinningLetters(randomValue *big.Int) []int {
	remainder := new(big.Int).Set(randomValue)
	mod := new(big.Int)

	used := make([]bool, AlphabetSize+1)
	letters := make([]int, 0, WinningSetSize)

	for i := 0; i < WinningSetSize; i++ {
		remainder.DivMod(remainder, alphabetBig, mod)
		candidate := int(mod.Int64()) + 1

		for used[candidate] {
			candidate++
			if candidate > AlphabetSize {
				candidate = 1
			}
		}

		used[candidate] = true
		letters = append(letters, candidate)
	}

	return letters
}
