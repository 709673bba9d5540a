package blockchain

import (
	"bytes"
	"sort"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 11/12/2025
 * Time: 11:40
 */

// Mempool is the ordered collection of admitted-but-unconfirmed
// transactions. It is guarded by the owning Ledger's lock, grounded in
// shape on Roasted12's mutex-guarded mempool but generalized here to
// fee-descending selection since the core itself (not an external caller)
// drives block assembly.
type Mempool struct {
	entries []*Transaction
}

func NewMempool() *Mempool {
	return &Mempool{}
}

// Add appends tx, preserving admission order. Callers (Ledger.AdmitTransaction)
// are responsible for the admission-rule checks; Mempool itself only
// exposes the conflict predicates those checks are built from.
func (m *Mempool) Add(tx *Transaction) {
	m.entries = append(m.entries, tx)
}

// Remove deletes the first entry with a matching TxID, if any.
func (m *Mempool) Remove(txID string) {
	for i, tx := range m.entries {
		if tx.TxID == txID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

// Len reports the number of pending transactions.
func (m *Mempool) Len() int {
	return len(m.entries)
}

// HasSignatureConflict reports whether any pending entry shares signature.
func (m *Mempool) HasSignatureConflict(signature []byte) bool {
	for _, tx := range m.entries {
		if bytes.Equal(tx.Signature, signature) {
			return true
		}
	}
	return false
}

// HasInputConflict reports whether any input of inputs is already
// referenced by a pending entry (intra-mempool double-spend guard).
func (m *Mempool) HasInputConflict(inputs []TxInput) bool {
	for _, pending := range m.entries {
		for _, pendingIn := range pending.Inputs {
			for _, in := range inputs {
				if pendingIn.TxID == in.TxID && pendingIn.OutputIndex == in.OutputIndex {
					return true
				}
			}
		}
	}
	return false
}

// FeeDescending returns a stable-sorted-by-fee-descending copy of the
// pending entries, leaving admission order in the mempool itself untouched.
func (m *Mempool) FeeDescending() []*Transaction {
	out := make([]*Transaction, len(m.entries))
	copy(out, m.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Fee > out[j].Fee
	})
	return out
}

// Snapshot returns the pending entries in admission order, by reference;
// callers that must not mutate the mempool should treat this as read-only.
func (m *Mempool) Snapshot() []*Transaction {
	out := make([]*Transaction, len(m.entries))
	copy(out, m.entries)
	return out
}

// filterByChain drops any entry whose TxID already appears in chain, per
// Ledger.ReplaceChain's sync_mempool step.
func (m *Mempool) filterByChain(chain []*Block) {
	inChain := make(map[string]struct{})
	for _, block := range chain {
		for _, tx := range block.Transactions {
			inChain[tx.TxID] = struct{}{}
		}
	}
	kept := m.entries[:0]
	for _, tx := range m.entries {
		if _, found := inChain[tx.TxID]; !found {
			kept = append(kept, tx)
		}
	}
	m.entries = kept
}

// filterByUtxo drops any remaining entry with an input that no longer
// references an unspent UtxoIndex entry, per Ledger.ReplaceChain's
// sync_mempool step (evaluated after UTXO resync).
func (m *Mempool) filterByUtxo(idx *UtxoIndex) {
	kept := m.entries[:0]
	for _, tx := range m.entries {
		ok := true
		for _, in := range tx.Inputs {
			if !idx.IsUnspent(in.TxID, in.OutputIndex) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, tx)
		}
	}
	m.entries = kept
}
