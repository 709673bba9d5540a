package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProof_SatisfiesDifficultyPrefix(t *testing.T) {
	proof := ComputeProof(1, DefaultDifficultyPrefix)
	assert.True(t, ValidProof(1, proof, DefaultDifficultyPrefix))
}

func TestComputeProof_IsDeterministicAndMinimal(t *testing.T) {
	a := ComputeProof(1, DefaultDifficultyPrefix)
	b := ComputeProof(1, DefaultDifficultyPrefix)
	require.Equal(t, a, b)

	for candidate := int64(1); candidate < a; candidate++ {
		assert.False(t, ValidProof(1, candidate, DefaultDifficultyPrefix),
			"proof search must return the smallest satisfying candidate")
	}
}

func TestValidProof_RejectsWrongPrefix(t *testing.T) {
	assert.False(t, ValidProof(1, 1, DefaultDifficultyPrefix))
}

func TestComputeProof_EasierPrefixYieldsValidProof(t *testing.T) {
	easy := ComputeProof(1, "0")
	assert.True(t, ValidProof(1, easy, "0"))
}
