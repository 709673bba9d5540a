package blockchain

import "time"

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 26/11/2025
 * Time: 11:20
 */

// Block is an ordered sequence of transactions with header fields
// (index, timestamp, proof, previous_hash). Construction is pure: given the
// four header inputs plus a transaction list, BlockSize is derived by
// summation, nothing is hashed or looked up.
type Block struct {
	Index        int            `json:"index"`
	Timestamp    int64          `json:"timestamp"`
	Proof        int64          `json:"proof"`
	PreviousHash string         `json:"previous_hash"`
	Transactions []*Transaction `json:"transactions"`
	BlockSize    int            `json:"block_size"`
}

// NewBlock assembles a Block from its header fields and transaction list.
// For non-genesis blocks, transactions[0] is expected to be the coinbase.
func NewBlock(index int, proof int64, previousHash string, transactions []*Transaction) *Block {
	size := 0
	for _, tx := range transactions {
		size += tx.Size
	}
	return &Block{
		Index:        index,
		Timestamp:    time.Now().Unix(),
		Proof:        proof,
		PreviousHash: previousHash,
		Transactions: transactions,
		BlockSize:    size,
	}
}

// IsGenesis reports whether b is the chain's first block, trusted by
// construction rather than by proof check (spec §4.8).
func (b *Block) IsGenesis() bool {
	return b.PreviousHash == "0"
}
