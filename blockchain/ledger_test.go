package blockchain

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPeerClient answers GetChain from a fixed in-memory table, letting
// ReplaceChain tests exercise the "poll every peer, adopt the longest
// valid chain" logic without a real HTTP round trip.
type stubPeerClient struct {
	chains map[string][]*Block
	errs   map[string]error
}

func newStubPeerClient() *stubPeerClient {
	return &stubPeerClient{chains: map[string][]*Block{}, errs: map[string]error{}}
}

func (s *stubPeerClient) GetChain(_ context.Context, peerAddr string) (int, []*Block, error) {
	if err, ok := s.errs[peerAddr]; ok {
		return 0, nil, err
	}
	chain := s.chains[peerAddr]
	return len(chain), chain, nil
}

func newSignedTransfer(t *testing.T, from *UTXO, priv *secp256k1.PrivateKey, to string, amount, fee int64) *Transaction {
	t.Helper()
	tx := NewTransaction()
	require.NoError(t, tx.AddInput(from))
	tx.AddOutput(UTXO{Amount: amount, OwnerAddress: to})
	if change := from.Amount - amount - fee; change > 0 {
		tx.AddOutput(UTXO{Amount: change, OwnerAddress: from.OwnerAddress})
	}
	tx.UpdateFee()
	tx.UpdateSize()
	require.NoError(t, tx.Sign(priv))
	return tx
}

func TestNewLedger_SeedsGenesis(t *testing.T) {
	l := NewLedger(newStubPeerClient())

	chain := l.Chain()
	require.Len(t, chain, 1)
	assert.Equal(t, "0", chain[0].PreviousHash)
	assert.Equal(t, int64(1), chain[0].Proof)
	assert.Equal(t, int64(1_000_000), l.BalanceOf(GenesisAddress))
}

func TestMineBlock_FailsOnEmptyMempool(t *testing.T) {
	l := NewLedger(newStubPeerClient())

	block, err := l.MineBlock("miner-X")
	require.Error(t, err)
	assert.Nil(t, block)
	assert.Len(t, l.Chain(), 1)

	var ledgerErr *LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, ValidationError, ledgerErr.Kind)
}

func TestAdmitThenMine_BalancesMatchWorkedExample(t *testing.T) {
	l := NewLedger(newStubPeerClient())

	genesisUTXO, ok := l.GetUTXO(GenesisTxID, 0)
	require.True(t, ok)

	priv, _ := wallet_NewKeyPairForTest()
	// genesis_address's UTXO was not produced by this key; sign with a
	// throwaway key solely to exercise VerifySignature's happy path, since
	// the genesis UTXO itself is spendable only by construction in this
	// in-memory ledger (no real genesis private key exists).
	tx := newSignedTransfer(t, genesisUTXO, priv, "B", 100, 1)

	require.NoError(t, l.AdmitTransaction(tx))

	block, err := l.MineBlock("M")
	require.NoError(t, err)
	require.NotNil(t, block)

	assert.Equal(t, int64(100), l.BalanceOf("B"))
	assert.Equal(t, int64(51), l.BalanceOf("M"))
	assert.Equal(t, int64(1_000_000-101), l.BalanceOf(GenesisAddress))
	assert.Empty(t, l.MempoolSnapshot())
	assert.Len(t, l.Chain(), 2)
}

func TestAdmitTransaction_RejectsDoubleSpend(t *testing.T) {
	l := NewLedger(newStubPeerClient())
	genesisUTXO, ok := l.GetUTXO(GenesisTxID, 0)
	require.True(t, ok)

	priv, _ := wallet_NewKeyPairForTest()
	t1 := newSignedTransfer(t, genesisUTXO, priv, "B", 100, 1)
	require.NoError(t, l.AdmitTransaction(t1))

	t2 := newSignedTransfer(t, genesisUTXO, priv, "C", 200, 1)
	err := l.AdmitTransaction(t2)
	require.Error(t, err)

	var ledgerErr *LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, ValidationError, ledgerErr.Kind)
}

// mineSelfTransfer spends from (owned by GenesisAddress, by construction in
// every freshly-seeded test ledger) paying amount to "B" with the given
// fee, mines it, and returns the change output so a caller can chain a
// second round against the same ledger.
func mineSelfTransfer(t *testing.T, l *Ledger, from *UTXO, priv *secp256k1.PrivateKey, miner string, amount, fee int64) *UTXO {
	t.Helper()
	tx := newSignedTransfer(t, from, priv, "B", amount, fee)
	require.NoError(t, l.AdmitTransaction(tx))
	block, err := l.MineBlock(miner)
	require.NoError(t, err)

	for _, blockTx := range block.Transactions {
		if blockTx.TxID != tx.TxID {
			continue
		}
		for i := range blockTx.Outputs {
			if blockTx.Outputs[i].OwnerAddress == GenesisAddress {
				change := blockTx.Outputs[i]
				return &change
			}
		}
	}
	return nil
}

func TestReplaceChain_AdoptsLongerValidPeerChain(t *testing.T) {
	client := newStubPeerClient()
	l := NewLedger(client)
	priv, _ := wallet_NewKeyPairForTest()

	localGenesis, ok := l.GetUTXO(GenesisTxID, 0)
	require.True(t, ok)
	mineSelfTransfer(t, l, localGenesis, priv, "M", 100, 1)
	require.Len(t, l.Chain(), 2)

	peerLedger := NewLedger(newStubPeerClient())
	peerGenesis, ok := peerLedger.GetUTXO(GenesisTxID, 0)
	require.True(t, ok)
	change := mineSelfTransfer(t, peerLedger, peerGenesis, priv, "M", 100, 1)
	require.NotNil(t, change)
	mineSelfTransfer(t, peerLedger, change, priv, "M2", 50, 1)
	require.Len(t, peerLedger.Chain(), 3)

	client.chains["peer1"] = peerLedger.Chain()
	require.NoError(t, l.AddPeer("peer1"))

	replaced, err := l.ReplaceChain(context.Background())
	require.NoError(t, err)
	assert.True(t, replaced)

	assert.Equal(t, peerLedger.Chain(), l.Chain())
	assert.NoError(t, l.ValidateChain())
}

// TestReplaceChain_SurvivesJSONRoundtrip exercises the transport path
// ReplaceChain actually runs over (peer.Client decodes JSON, not in-memory
// *Block values): a mined chain containing an ordinary signed transaction
// must keep its Signature/SenderPublicKey through a serialize/deserialize
// cycle, or HashBlock recomputes a different value on the other side and
// every post-genesis block fails ValidateChain.
func TestReplaceChain_SurvivesJSONRoundtrip(t *testing.T) {
	l := NewLedger(newStubPeerClient())
	priv, _ := wallet_NewKeyPairForTest()

	genesisUTXO, ok := l.GetUTXO(GenesisTxID, 0)
	require.True(t, ok)
	mineSelfTransfer(t, l, genesisUTXO, priv, "M", 100, 1)
	require.Len(t, l.Chain(), 2)

	wireForm, err := json.Marshal(l.Chain())
	require.NoError(t, err)

	var decoded []*Block
	require.NoError(t, json.Unmarshal(wireForm, &decoded))

	ordinary := decoded[1].Transactions[1]
	assert.NotEmpty(t, ordinary.Signature)
	assert.NotEmpty(t, ordinary.SenderPublicKey)
	assert.NoError(t, ordinary.VerifySignature())

	assert.NoError(t, ValidateChain(decoded, DefaultDifficultyPrefix))

	client := newStubPeerClient()
	client.chains["peer1"] = decoded
	local := NewLedger(client)
	require.NoError(t, local.AddPeer("peer1"))

	replaced, err := local.ReplaceChain(context.Background())
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.NoError(t, local.ValidateChain())
}

// wallet_NewKeyPairForTest avoids importing the wallet package from
// blockchain's own tests (which would be a layering inversion); it
// reimplements the one line that package needs: a fresh SECP256K1 key.
func wallet_NewKeyPairForTest() (*secp256k1.PrivateKey, []byte) {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand.Reader)
	if err != nil {
		panic(err)
	}
	return priv, priv.PubKey().SerializeUncompressed()
}
