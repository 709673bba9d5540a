package blockchain

import (
	"crypto/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand.Reader)
	require.NoError(t, err)
	return priv
}

func TestTransaction_SignThenVerifySucceeds(t *testing.T) {
	priv := newTestKey(t)

	tx := NewTransaction()
	require.NoError(t, tx.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 100}))
	tx.AddOutput(UTXO{Amount: 90, OwnerAddress: "B"})
	tx.UpdateFee()
	tx.UpdateSize()

	require.NoError(t, tx.Sign(priv))
	assert.NoError(t, tx.VerifySignature())
	assert.NotEmpty(t, tx.TxID)
	assert.Equal(t, int64(10), tx.Fee)
}

func TestTransaction_VerifySignatureFailsOnTamperedOutput(t *testing.T) {
	priv := newTestKey(t)

	tx := NewTransaction()
	require.NoError(t, tx.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 100}))
	tx.AddOutput(UTXO{Amount: 90, OwnerAddress: "B"})
	tx.UpdateFee()
	tx.UpdateSize()
	require.NoError(t, tx.Sign(priv))

	tx.Outputs[0].Amount = 1

	err := tx.VerifySignature()
	require.Error(t, err)
	var ledgerErr *LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, CryptoError, ledgerErr.Kind)
}

func TestTransaction_AddInputRejectsSpentUTXO(t *testing.T) {
	tx := NewTransaction()
	err := tx.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 100, Spent: true})
	require.Error(t, err)
}

func TestTransaction_AddInputRejectsDuplicate(t *testing.T) {
	tx := NewTransaction()
	require.NoError(t, tx.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 100}))
	err := tx.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 100})
	require.Error(t, err)
}

func TestTransaction_VerifyAmountsRejectsOutputsExceedingInputs(t *testing.T) {
	tx := NewTransaction()
	require.NoError(t, tx.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 10}))
	tx.AddOutput(UTXO{Amount: 20, OwnerAddress: "B"})

	err := tx.VerifyAmounts()
	require.Error(t, err)
}

func TestTransaction_IsCoinbase(t *testing.T) {
	coinbase := &Transaction{Outputs: []UTXO{{Amount: 50, OwnerAddress: "M"}}}
	assert.True(t, coinbase.IsCoinbase())

	ordinary := NewTransaction()
	require.NoError(t, ordinary.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 10}))
	assert.False(t, ordinary.IsCoinbase())
}

func TestBindTxID_MatchesSignTimeDerivation(t *testing.T) {
	priv := newTestKey(t)

	tx := NewTransaction()
	require.NoError(t, tx.AddInput(&UTXO{TxID: "prev", OutputIndex: 0, Amount: 100}))
	tx.AddOutput(UTXO{Amount: 90, OwnerAddress: "B"})
	tx.UpdateFee()
	tx.UpdateSize()
	require.NoError(t, tx.Sign(priv))
	signedID := tx.TxID

	tx.TxID = ""
	tx.BindTxID()

	assert.Equal(t, signedID, tx.TxID)
}
