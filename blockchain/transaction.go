package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 04/12/2025
 * Time: 16:45
 */

// TxInput references a previous output that is being spent. It carries
// enough of the referenced UTXO (the amount) to be included in the
// canonical signing message without a second lookup at verification time.
type TxInput struct {
	TxID        string `json:"tx_id"`
	OutputIndex int    `json:"output_index"`
	Amount      int64  `json:"amount"`
}

// Transaction is a set of input UTXO references and a set of freshly
// constructed output UTXOs, plus a detached signature and derived metadata.
//
// tx_id generation (Open Question, resolved): ordinary transactions derive
// their id from sha256(sha256(canonical_message) || signature), computed once at
// Sign time, rather than from a random nonce, so that the id is a content
// commitment any party can recompute. The one exception is the ledger's
// seed transaction, whose id is the literal GenesisTxID.
// JSON encoding is entirely handled by MarshalJSON/UnmarshalJSON below, so
// no field here carries a json tag.
type Transaction struct {
	TxID            string
	Inputs          []TxInput
	Outputs         []UTXO
	Fee             int64
	Signature       []byte
	SenderPublicKey []byte
	Size            int
	Timestamp       int64
}

// transactionWire is Transaction's wire form: signature and sender public
// key travel as lowercase hex, the same encoding canonical.go folds into
// the block hash, so a transaction survives a serialize/deserialize cycle
// with its signature intact instead of being silently dropped.
type transactionWire struct {
	TxID            string    `json:"tx_id"`
	Inputs          []TxInput `json:"inputs"`
	Outputs         []UTXO    `json:"outputs"`
	Fee             int64     `json:"fee"`
	Signature       string    `json:"signature"`
	SenderPublicKey string    `json:"public_key"`
	Size            int       `json:"size"`
	Timestamp       int64     `json:"timestamp"`
}

// MarshalJSON encodes Signature/SenderPublicKey as hex so a transaction can
// cross the wire (peer sync, the HTTP API) without losing the fields the
// canonical hash is computed over.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionWire{
		TxID:            tx.TxID,
		Inputs:          tx.Inputs,
		Outputs:         tx.Outputs,
		Fee:             tx.Fee,
		Signature:       hex.EncodeToString(tx.Signature),
		SenderPublicKey: hex.EncodeToString(tx.SenderPublicKey),
		Size:            tx.Size,
		Timestamp:       tx.Timestamp,
	})
}

// UnmarshalJSON is MarshalJSON's counterpart, hex-decoding Signature and
// SenderPublicKey back into raw bytes.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var wire transactionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	sig, err := hex.DecodeString(wire.Signature)
	if err != nil {
		return newInternalError(err, "decoding transaction signature")
	}
	pubKey, err := hex.DecodeString(wire.SenderPublicKey)
	if err != nil {
		return newInternalError(err, "decoding transaction sender public key")
	}
	tx.TxID = wire.TxID
	tx.Inputs = wire.Inputs
	tx.Outputs = wire.Outputs
	tx.Fee = wire.Fee
	tx.Signature = sig
	tx.SenderPublicKey = pubKey
	tx.Size = wire.Size
	tx.Timestamp = wire.Timestamp
	return nil
}

// NewTransaction returns an empty transaction ready for AddInput/AddOutput.
func NewTransaction() *Transaction {
	return &Transaction{Timestamp: time.Now().Unix()}
}

// AddInput appends utxo as a spend reference. It rejects a utxo that is
// already marked spent, and rejects a duplicate (tx_id, output_index)
// within this transaction.
func (tx *Transaction) AddInput(utxo *UTXO) error {
	if utxo.Spent {
		return newValidationError("utxo %s is already spent", utxo.Key())
	}
	for _, in := range tx.Inputs {
		if in.TxID == utxo.TxID && in.OutputIndex == utxo.OutputIndex {
			return newValidationError("duplicate input %s in transaction", utxo.Key())
		}
	}
	tx.Inputs = append(tx.Inputs, TxInput{
		TxID:        utxo.TxID,
		OutputIndex: utxo.OutputIndex,
		Amount:      utxo.Amount,
	})
	return nil
}

// AddOutput appends a freshly constructed output. TxID/OutputIndex are
// bound later, when the transaction (or its containing block) commits.
func (tx *Transaction) AddOutput(utxo UTXO) {
	tx.Outputs = append(tx.Outputs, utxo)
}

// UpdateFee recomputes Fee as sum(inputs) - sum(outputs).
func (tx *Transaction) UpdateFee() {
	var inTotal, outTotal int64
	for _, in := range tx.Inputs {
		inTotal += in.Amount
	}
	for _, out := range tx.Outputs {
		outTotal += out.Amount
	}
	tx.Fee = inTotal - outTotal
}

// UpdateSize recomputes Size from the canonical string form.
func (tx *Transaction) UpdateSize() {
	tx.Size = len(canonicalMessage(tx.Inputs, tx.Outputs))
}

// VerifyAmounts fails if inputs or outputs are empty, if the input sum is
// less than the output sum, or if the declared fee is negative.
func (tx *Transaction) VerifyAmounts() error {
	if len(tx.Inputs) == 0 {
		return newValidationError("transaction has no inputs")
	}
	if len(tx.Outputs) == 0 {
		return newValidationError("transaction has no outputs")
	}
	var inTotal, outTotal int64
	for _, in := range tx.Inputs {
		inTotal += in.Amount
	}
	for _, out := range tx.Outputs {
		outTotal += out.Amount
	}
	if inTotal < outTotal {
		return newValidationError("input total %d is less than output total %d", inTotal, outTotal)
	}
	if tx.Fee < 0 {
		return newValidationError("fee would be negative")
	}
	return nil
}

// Sign hashes the canonical message under SHA-256 and signs the digest with
// ECDSA over SECP256K1, then binds TxID from the signed content.
func (tx *Transaction) Sign(privKey *secp256k1.PrivateKey) error {
	digest := sha256.Sum256([]byte(canonicalMessage(tx.Inputs, tx.Outputs)))
	sig := ecdsa.Sign(privKey, digest[:])
	tx.Signature = sig.Serialize()
	tx.SenderPublicKey = privKey.PubKey().SerializeUncompressed()
	tx.TxID = deriveTxID(tx.Signature, digest[:])
	return nil
}

// VerifySignature fails if the signature or public key is absent, if the
// public key is malformed, or if ECDSA rejects the signature over the
// canonical message hash.
func (tx *Transaction) VerifySignature() error {
	if len(tx.Signature) == 0 {
		return newCryptoError("transaction has no signature")
	}
	if len(tx.SenderPublicKey) == 0 {
		return newCryptoError("transaction has no sender public key")
	}
	pubKey, err := secp256k1.ParsePubKey(tx.SenderPublicKey)
	if err != nil {
		return newCryptoError("malformed sender public key: %v", err)
	}
	sig, err := ecdsa.ParseDERSignature(tx.Signature)
	if err != nil {
		return newCryptoError("malformed signature: %v", err)
	}
	digest := sha256.Sum256([]byte(canonicalMessage(tx.Inputs, tx.Outputs)))
	if !sig.Verify(digest[:], pubKey) {
		return newCryptoError("signature does not verify against canonical message")
	}
	return nil
}

// BindTxID recomputes TxID from the transaction's current inputs, outputs
// and signature. It is the counterpart to Sign's id derivation for a
// transaction arriving already-signed (the API layer's /transaction/add),
// so the id is still the recipient's own recomputation of the sender's
// content commitment, not a value merely copied from the request.
func (tx *Transaction) BindTxID() {
	digest := sha256.Sum256([]byte(canonicalMessage(tx.Inputs, tx.Outputs)))
	tx.TxID = deriveTxID(tx.Signature, digest[:])
}

// IsCoinbase reports whether tx is a mining-reward transaction: no inputs,
// no signature.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 0 && len(tx.Signature) == 0
}

// deriveTxID implements the transaction-id generation resolution: a
// content-addressed id, not a random nonce, so two parties recomputing it
// from the same signed content agree.
func deriveTxID(signature, digest []byte) string {
	h := sha256.Sum256(append(append([]byte{}, digest...), signature...))
	return hex.EncodeToString(h[:])
}

// newCoinbaseTxID derives the coinbase's id deterministically from its own
// canonical message plus the block context it is being minted into, so the
// id (and therefore the block's hash) is reproducible from content alone
// without needing a random nonce or an external counter.
func newCoinbaseTxID(inputs []TxInput, outputs []UTXO, previousHash string, proof int64) string {
	msg := canonicalMessage(inputs, outputs) + "|" + previousHash + "|" + formatProof(proof)
	h := sha256.Sum256([]byte(msg))
	return hex.EncodeToString(h[:])
}
