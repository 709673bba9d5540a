package blockchain

import "fmt"

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 10/12/2025
 * Time: 11:19
 */

// MinerFeeSentinel is the placeholder owner_address used by a client that
// still wants to name a fee output explicitly. This implementation never
// constructs one itself (the coinbase folds fees in directly, see
// Ledger.MineBlock), but an output bearing it is dropped rather than
// admitted to the UtxoIndex if one ever arrives from a client.
const MinerFeeSentinel = "miner_fee"

// GenesisAddress receives the one synthetic UTXO a freshly constructed
// Ledger seeds itself with.
const GenesisAddress = "genesis_address"

// GenesisTxID is the literal id of the ledger's seed transaction. It is the
// only transaction in the system permitted to bypass signature and
// input-unspent checks at admission.
const GenesisTxID = "genesis"

// GenesisReward is the amount, in minor units, of the synthetic genesis UTXO.
const GenesisReward int64 = 1_000_000

// UTXO is a single unspent-transaction-output record: a value locked to an
// address, identified once bound by the pair (TxID, OutputIndex).
type UTXO struct {
	Amount       int64  `json:"amount"`
	OwnerAddress string `json:"owner_address"`
	TxID         string `json:"tx_id"`
	OutputIndex  int    `json:"output_index"`
	Spent        bool   `json:"spent"`
	Timestamp    int64  `json:"timestamp"`
}

// Key returns the UtxoIndex's composite lookup key "{tx_id}:{output_index}".
func (u UTXO) Key() string {
	return utxoKey(u.TxID, u.OutputIndex)
}

func utxoKey(txID string, outputIndex int) string {
	return fmt.Sprintf("%s:%d", txID, outputIndex)
}
