package blockchain

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 10/12/2025
 * Time: 11:20
 */

// UtxoIndex is the single source of truth for spent-state. It is an
// in-memory map guarded by the owning Ledger's lock — THE CORE carries no
// durable persistence for chain state, so no on-disk index backs this
// (contrast wallet.Keystore, which does persist).
type UtxoIndex struct {
	entries map[string]*UTXO
}

func NewUtxoIndex() *UtxoIndex {
	return &UtxoIndex{entries: make(map[string]*UTXO)}
}

// Add stores a copy of utxo under its composite key, replacing any entry
// already stored under that key. It does not compare the old and new
// content: a re-add with different content overwrites the earlier entry.
func (idx *UtxoIndex) Add(utxo *UTXO) {
	cp := *utxo
	idx.entries[cp.Key()] = &cp
}

// MarkSpent sets the spent flag on the entry keyed by (txID, outputIndex).
// It reports whether the entry existed; a miss is not an error.
func (idx *UtxoIndex) MarkSpent(txID string, outputIndex int) bool {
	entry, ok := idx.entries[utxoKey(txID, outputIndex)]
	if !ok {
		return false
	}
	entry.Spent = true
	return true
}

// Get looks up a UTXO by its composite key. A miss returns (nil, false),
// never an error.
func (idx *UtxoIndex) Get(txID string, outputIndex int) (*UTXO, bool) {
	entry, ok := idx.entries[utxoKey(txID, outputIndex)]
	if !ok {
		return nil, false
	}
	cp := *entry
	return &cp, true
}

// IsUnspent reports whether (txID, outputIndex) names an entry that exists
// and is not marked spent.
func (idx *UtxoIndex) IsUnspent(txID string, outputIndex int) bool {
	entry, ok := idx.entries[utxoKey(txID, outputIndex)]
	return ok && !entry.Spent
}

// BalanceOf sums the amount of every unspent entry owned by address.
func (idx *UtxoIndex) BalanceOf(address string) int64 {
	var total int64
	for _, entry := range idx.entries {
		if entry.OwnerAddress == address && !entry.Spent {
			total += entry.Amount
		}
	}
	return total
}

// Clear empties the index. Used only during chain adoption (Ledger.ReplaceChain).
func (idx *UtxoIndex) Clear() {
	idx.entries = make(map[string]*UTXO)
}

// Snapshot returns a defensive by-value copy of every entry, for callers
// that must not alias the Ledger's internal state.
func (idx *UtxoIndex) Snapshot() []UTXO {
	out := make([]UTXO, 0, len(idx.entries))
	for _, entry := range idx.entries {
		out = append(out, *entry)
	}
	return out
}
