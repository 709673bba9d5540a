package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func txWithFee(id string, fee int64) *Transaction {
	return &Transaction{TxID: id, Fee: fee, Signature: []byte(id)}
}

func TestMempool_FeeDescendingIsStableOnTies(t *testing.T) {
	m := NewMempool()
	m.Add(txWithFee("a", 5))
	m.Add(txWithFee("b", 10))
	m.Add(txWithFee("c", 10))
	m.Add(txWithFee("d", 1))

	ordered := m.FeeDescending()
	ids := make([]string, len(ordered))
	for i, tx := range ordered {
		ids[i] = tx.TxID
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
}

func TestMempool_HasSignatureConflict(t *testing.T) {
	m := NewMempool()
	m.Add(txWithFee("a", 1))
	assert.True(t, m.HasSignatureConflict([]byte("a")))
	assert.False(t, m.HasSignatureConflict([]byte("z")))
}

func TestMempool_HasInputConflict(t *testing.T) {
	m := NewMempool()
	pending := &Transaction{TxID: "a", Inputs: []TxInput{{TxID: "x", OutputIndex: 0}}}
	m.Add(pending)

	assert.True(t, m.HasInputConflict([]TxInput{{TxID: "x", OutputIndex: 0}}))
	assert.False(t, m.HasInputConflict([]TxInput{{TxID: "x", OutputIndex: 1}}))
}

func TestMempool_RemoveDropsOnlyMatchingEntry(t *testing.T) {
	m := NewMempool()
	m.Add(txWithFee("a", 1))
	m.Add(txWithFee("b", 2))

	m.Remove("a")

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "b", m.Snapshot()[0].TxID)
}

func TestMempool_FilterByChainDropsConfirmedEntries(t *testing.T) {
	m := NewMempool()
	m.Add(txWithFee("a", 1))
	m.Add(txWithFee("b", 2))

	chain := []*Block{{Transactions: []*Transaction{{TxID: "a"}}}}
	m.filterByChain(chain)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "b", m.Snapshot()[0].TxID)
}
