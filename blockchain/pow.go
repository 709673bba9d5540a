package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 11/12/2025
 * Time: 10:05
 */

// DefaultDifficultyPrefix is the lowercase hex prefix a valid proof's hash
// must begin with. Configurable via the DIFFICULTY_PREFIX environment
// variable (see config/config.go); the teacher's proof.go used a big.Int target
// over the block hash, which is a different algorithm and does not apply
// here — the spec's puzzle operates on the decimal difference of squares of
// adjacent proofs, not on a block hash.
const DefaultDifficultyPrefix = "0000"

// ComputeProof finds the smallest positive integer newProof such that the
// lowercase hex SHA-256 of the decimal string form of
// (newProof^2 - previousProof^2) begins with difficultyPrefix. The search
// is purely sequential starting at 1 — this is the system's one CPU-bound
// hot path (spec §5).
func ComputeProof(previousProof int64, difficultyPrefix string) int64 {
	var newProof int64 = 1
	for !validProof(previousProof, newProof, difficultyPrefix) {
		newProof++
	}
	return newProof
}

// ValidProof reports whether newProof satisfies the puzzle against
// previousProof under difficultyPrefix. Exported so ValidateChain can reuse
// it without recomputing a search.
func ValidProof(previousProof, newProof int64, difficultyPrefix string) bool {
	return validProof(previousProof, newProof, difficultyPrefix)
}

func validProof(previousProof, newProof int64, difficultyPrefix string) bool {
	diff := newProof*newProof - previousProof*previousProof
	guess := strconv.FormatInt(diff, 10)
	sum := sha256.Sum256([]byte(guess))
	digest := hex.EncodeToString(sum[:])
	return strings.HasPrefix(digest, difficultyPrefix)
}

func formatProof(proof int64) string {
	return strconv.FormatInt(proof, 10)
}
