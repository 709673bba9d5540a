package peer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/petiibhuzah/cryptocurrency/blockchain"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 11/12/2025
 * Time: 14:02
 */

// chainResponse mirrors the JSON body served by the /chain/get route
// (SPEC_FULL.md §6): the chain itself plus its length, matching the shape
// original_source/src/app.py returns from get_chain.
type chainResponse struct {
	Chain  []*blockchain.Block `json:"chain"`
	Length int                 `json:"length"`
}

// Client is the HTTP+JSON implementation of blockchain.PeerClient. It
// replaces the teacher's TCP+gob "getblocks"/"inv"/"getdata" handshake with
// a single documented request-response route, the one path
// Ledger.ReplaceChain is ever allowed to call for chain retrieval
// (SPEC_FULL.md §9, resolving the peer-sync-URL open question).
type Client struct {
	httpClient *http.Client
}

// NewClient builds a Client with the given request timeout. A zero timeout
// falls back to a conservative default so a stalled peer can never block
// ReplaceChain forever.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// GetChain fetches the full chain and its length from peerAddr. peerAddr is
// a bare host[:port], matching what Ledger.AddPeer stores; the scheme is
// always http.
func (c *Client) GetChain(ctx context.Context, peerAddr string) (int, []*blockchain.Block, error) {
	url := fmt.Sprintf("http://%s/chain/get", peerAddr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, nil, fmt.Errorf("peer %s returned status %d", peerAddr, resp.StatusCode)
	}

	var body chainResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, nil, err
	}

	return body.Length, body.Chain, nil
}

var _ blockchain.PeerClient = (*Client)(nil)
