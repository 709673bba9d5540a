package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 11/12/2025
 * Time: 09:30
 */

// Canonical JSON here means UTF-8 JSON with lexicographically sorted object
// keys. encoding/json already sorts map[string]interface{} keys when
// marshaling, so building the document as nested maps (rather than structs,
// whose field order would otherwise leak through) gives us the canonical
// form for free, the same trick Roasted12's CanonicalTxBytes reaches for
// with sorted slices.

func utxoCanonicalMap(u UTXO) map[string]interface{} {
	return map[string]interface{}{
		"amount":        u.Amount,
		"owner_address": u.OwnerAddress,
		"tx_id":         u.TxID,
		"output_index":  u.OutputIndex,
		"spent":         u.Spent,
		"timestamp":     u.Timestamp,
	}
}

func txInputCanonicalMap(in TxInput) map[string]interface{} {
	return map[string]interface{}{
		"tx_id":        in.TxID,
		"output_index": in.OutputIndex,
		"amount":       in.Amount,
	}
}

func transactionCanonicalMap(tx *Transaction) map[string]interface{} {
	inputs := make([]map[string]interface{}, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = txInputCanonicalMap(in)
	}
	outputs := make([]map[string]interface{}, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = utxoCanonicalMap(out)
	}
	return map[string]interface{}{
		"tx_id":      tx.TxID,
		"timestamp":  tx.Timestamp,
		"fee":        tx.Fee,
		"signature":  hex.EncodeToString(tx.Signature),
		"public_key": hex.EncodeToString(tx.SenderPublicKey),
		"inputs":     inputs,
		"outputs":    outputs,
	}
}

func blockCanonicalMap(b *Block) map[string]interface{} {
	txs := make([]map[string]interface{}, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = transactionCanonicalMap(tx)
	}
	return map[string]interface{}{
		"index":         b.Index,
		"timestamp":     b.Timestamp,
		"proof":         b.Proof,
		"previous_hash": b.PreviousHash,
		"transactions":  txs,
		"block_size":    b.BlockSize,
	}
}

// CanonicalJSON marshals b as sorted-key UTF-8 JSON, including the full
// nested transaction/input/output structure, per the spec's hashing
// discipline.
func (b *Block) CanonicalJSON() ([]byte, error) {
	data, err := json.Marshal(blockCanonicalMap(b))
	if err != nil {
		return nil, newInternalError(err, "failed to marshal block to canonical JSON")
	}
	return data, nil
}

// HashBlock returns the lowercase hex SHA-256 digest of b's canonical JSON
// form. This is the value a successor block must echo as its previous_hash.
func HashBlock(b *Block) (string, error) {
	data, err := b.CanonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalMessage reproduces the spec's signing message bit-for-bit:
//
//	message    = input_str || "||" || output_str
//	input_str  = join("|", tx_id:output_index:amount)
//	output_str = join("|", owner_address:amount)
func canonicalMessage(inputs []TxInput, outputs []UTXO) string {
	inParts := make([]string, len(inputs))
	for i, in := range inputs {
		inParts[i] = joinInputField(in)
	}
	outParts := make([]string, len(outputs))
	for i, out := range outputs {
		outParts[i] = joinOutputField(out)
	}
	return strings.Join(inParts, "|") + "||" + strings.Join(outParts, "|")
}

func joinInputField(in TxInput) string {
	return in.TxID + ":" + strconv.Itoa(in.OutputIndex) + ":" + strconv.FormatInt(in.Amount, 10)
}

func joinOutputField(out UTXO) string {
	return out.OwnerAddress + ":" + strconv.FormatInt(out.Amount, 10)
}
