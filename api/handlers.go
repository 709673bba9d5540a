package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/petiibhuzah/cryptocurrency/blockchain"
	"github.com/petiibhuzah/cryptocurrency/wallet"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 09:20
 */

// handleWalletGenerate answers GET /wallet/generate. Stateless: it never
// touches a Keystore (SPEC_FULL.md §10).
func (s *Server) handleWalletGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	priv, pub := wallet.NewKeyPair()
	wlt := &wallet.Wallet{PrivateKey: priv, PublicKey: pub}
	writeJSON(w, http.StatusOK, walletResponse{
		PrivateKey: hex.EncodeToString(priv.Serialize()),
		PublicKey:  hex.EncodeToString(pub),
		Address:    string(wlt.Address()),
	})
}

// handleTransactionPrepare answers POST /transaction/prepare: selects
// unspent outputs owned by sender_address, builds and signs a transaction
// for the requested outputs plus fee, returning change to the sender.
func (s *Server) handleTransactionPrepare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req prepareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if req.SenderAddress == "" || req.SenderPrivateKey == "" || len(req.Outputs) == 0 {
		badRequest(w, "sender_address, sender_private_key and outputs are required")
		return
	}

	keyBytes, err := hex.DecodeString(req.SenderPrivateKey)
	if err != nil {
		badRequest(w, "sender_private_key is not valid hex")
		return
	}
	privKey := secp256k1.PrivKeyFromBytes(keyBytes)

	var want int64
	for _, o := range req.Outputs {
		want += o.Amount
	}
	want += req.Fee

	available := s.ledger.UnspentFor(req.SenderAddress)
	tx := blockchain.NewTransaction()
	var gathered int64
	for _, utxo := range available {
		if gathered >= want {
			break
		}
		if s.ledger.HasPendingInput(utxo.TxID, utxo.OutputIndex) {
			continue
		}
		u := utxo
		if err := tx.AddInput(&u); err != nil {
			continue
		}
		gathered += utxo.Amount
	}
	if gathered < want {
		badRequest(w, "insufficient funds")
		return
	}

	for _, o := range req.Outputs {
		tx.AddOutput(blockchain.UTXO{Amount: o.Amount, OwnerAddress: o.Address})
	}
	if change := gathered - want; change > 0 {
		tx.AddOutput(blockchain.UTXO{Amount: change, OwnerAddress: req.SenderAddress})
	}
	tx.UpdateFee()
	tx.UpdateSize()

	if err := tx.Sign(privKey); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prepareResponse{
		TransactionID: tx.TxID,
		Fee:           tx.Fee,
		Size:          tx.Size,
		Signature:     hex.EncodeToString(tx.Signature),
		Inputs:        tx.Inputs,
		Outputs:       tx.Outputs,
	})
}

// handleTransactionAdd answers POST /transaction/add: rebuilds a
// Transaction from its detached signature and submits it for admission.
func (s *Server) handleTransactionAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if req.Signature == "" || req.PublicKey == "" || len(req.Inputs) == 0 || len(req.Outputs) == 0 {
		badRequest(w, "signature, public_key, inputs and outputs are required")
		return
	}

	sig, err := hex.DecodeString(req.Signature)
	if err != nil {
		badRequest(w, "signature is not valid hex")
		return
	}
	pub, err := hex.DecodeString(req.PublicKey)
	if err != nil {
		badRequest(w, "public_key is not valid hex")
		return
	}

	tx := blockchain.NewTransaction()
	for _, in := range req.Inputs {
		utxo, ok := s.ledger.GetUTXO(in.TxID, in.OutputIndex)
		if !ok {
			badRequest(w, "referenced input does not exist")
			return
		}
		if err := tx.AddInput(utxo); err != nil {
			s.writeError(w, err)
			return
		}
	}
	for _, out := range req.Outputs {
		tx.AddOutput(blockchain.UTXO{Amount: out.Amount, OwnerAddress: out.Address})
	}
	tx.Signature = sig
	tx.SenderPublicKey = pub
	tx.UpdateFee()
	tx.UpdateSize()
	tx.BindTxID()

	if err := s.ledger.AdmitTransaction(tx); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":        "transaction added to mempool",
		"transaction_id": tx.TxID,
	})
}

// handleMempool answers GET /transaction/get_mempool.
func (s *Server) handleMempool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	txs := s.ledger.MempoolSnapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(txs),
		"transactions": txs,
	})
}

// handleMine answers POST /block/mine.
func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req mineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	block, err := s.ledger.MineBlock(req.MinerAddress)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var reward int64
	if len(block.Transactions) > 0 {
		coinbase := block.Transactions[0]
		if len(coinbase.Outputs) > 0 {
			reward = coinbase.Outputs[0].Amount
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"index":         block.Index,
		"timestamp":     block.Timestamp,
		"proof":         block.Proof,
		"previous_hash": block.PreviousHash,
		"mining_reward": reward,
	})
}

// handleChainGet answers GET /chain/get, the sole route a peer's
// PeerClient may call to retrieve another node's chain.
func (s *Server) handleChainGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	chain := s.ledger.Chain()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chain":  chain,
		"length": len(chain),
	})
}

// handleChainValidate answers GET /chain/validate.
func (s *Server) handleChainValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.ledger.ValidateChain(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "chain is valid"})
}

// handleBalance answers GET /wallet/balance/<address>.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	address := strings.TrimPrefix(r.URL.Path, "/wallet/balance/")
	if address == "" {
		badRequest(w, "address is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"balance": s.ledger.BalanceOf(address),
	})
}

// handleNodeConnect answers POST /node/connect.
func (s *Server) handleNodeConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Nodes) == 0 {
		badRequest(w, "nodes is required")
		return
	}
	for _, node := range req.Nodes {
		if err := s.ledger.AddPeer(node); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"total_nodes": len(s.ledger.Peers()),
	})
}

// handleNodeSync answers GET /node/sync: polls every known peer and adopts
// the longest valid chain strictly longer than local, per spec §4.9.
func (s *Server) handleNodeSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	replaced, err := s.ledger.ReplaceChain(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if replaced {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":   "our chain was replaced",
			"new_chain": s.ledger.Chain(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "our chain is authoritative",
		"actual_chain": s.ledger.Chain(),
	})
}
