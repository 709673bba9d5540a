package api

import "github.com/petiibhuzah/cryptocurrency/blockchain"

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 09:10
 */

// outputRequest is the wire shape of a single requested payment
// ({address, amount}), used by both /transaction/prepare and
// /transaction/add (SPEC_FULL.md §6, §9 "Dynamic JSON ingress").
type outputRequest struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// inputRequest references a UTXO being spent by (tx_id, output_index).
type inputRequest struct {
	TxID        string `json:"tx_id"`
	OutputIndex int    `json:"output_index"`
}

// prepareRequest is the body of POST /transaction/prepare.
type prepareRequest struct {
	SenderAddress    string          `json:"sender_address"`
	SenderPrivateKey string          `json:"sender_private_key"`
	Outputs          []outputRequest `json:"outputs"`
	Fee              int64           `json:"fee"`
}

// prepareResponse is the body returned by a successful /transaction/prepare.
type prepareResponse struct {
	TransactionID string               `json:"transaction_id"`
	Fee           int64                `json:"fee"`
	Size          int                  `json:"size"`
	Signature     string               `json:"signature"`
	Inputs        []blockchain.TxInput `json:"inputs"`
	Outputs       []blockchain.UTXO    `json:"outputs"`
}

// addRequest is the body of POST /transaction/add: an already-signed
// transaction, detached from the private key that produced it.
type addRequest struct {
	Signature string          `json:"signature"`
	PublicKey string          `json:"public_key"`
	Inputs    []inputRequest  `json:"inputs"`
	Outputs   []outputRequest `json:"outputs"`
}

// mineRequest is the body of POST /block/mine.
type mineRequest struct {
	MinerAddress string `json:"miner_address"`
}

// connectRequest is the body of POST /node/connect.
type connectRequest struct {
	Nodes []string `json:"nodes"`
}

// walletResponse is the body of GET /wallet/generate.
type walletResponse struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	Address    string `json:"address"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}
