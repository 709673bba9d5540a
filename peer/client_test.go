package peer

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petiibhuzah/cryptocurrency/blockchain"
)

type fakePeerClient struct{}

func (fakePeerClient) GetChain(context.Context, string) (int, []*blockchain.Block, error) {
	return 0, nil, nil
}

// buildSignedChain mines one ordinary signed transaction on top of a fresh
// ledger's genesis, producing a chain a real server would serve from
// /chain/get.
func buildSignedChain(t *testing.T) []*blockchain.Block {
	t.Helper()
	ledger := blockchain.NewLedger(fakePeerClient{})

	genesisUTXO, ok := ledger.GetUTXO(blockchain.GenesisTxID, 0)
	require.True(t, ok)

	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand.Reader)
	require.NoError(t, err)

	tx := blockchain.NewTransaction()
	require.NoError(t, tx.AddInput(genesisUTXO))
	tx.AddOutput(blockchain.UTXO{Amount: 100, OwnerAddress: "B"})
	tx.AddOutput(blockchain.UTXO{Amount: genesisUTXO.Amount - 101, OwnerAddress: blockchain.GenesisAddress})
	tx.UpdateFee()
	tx.UpdateSize()
	require.NoError(t, tx.Sign(priv))

	require.NoError(t, ledger.AdmitTransaction(tx))
	_, err = ledger.MineBlock("M")
	require.NoError(t, err)

	return ledger.Chain()
}

// TestGetChain_RealHTTPRoundtripPreservesSignatures serves a mined chain
// over a real net/http server, the transport ReplaceChain actually uses, and
// checks the decoded chain's ordinary transaction keeps its signature and
// still validates — the failure mode a purely in-memory stub can't catch.
func TestGetChain_RealHTTPRoundtripPreservesSignatures(t *testing.T) {
	chain := buildSignedChain(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"chain":  chain,
			"length": len(chain),
		})
	}))
	defer server.Close()

	client := NewClient(0)
	length, decoded, err := client.GetChain(context.Background(), server.Listener.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, len(chain), length)
	require.Len(t, decoded, 2)

	ordinary := decoded[1].Transactions[1]
	assert.NotEmpty(t, ordinary.Signature)
	assert.NotEmpty(t, ordinary.SenderPublicKey)
	assert.NoError(t, ordinary.VerifySignature())

	assert.NoError(t, blockchain.ValidateChain(decoded, blockchain.DefaultDifficultyPrefix))
}
