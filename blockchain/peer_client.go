package blockchain

import "context"

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 11/12/2025
 * Time: 12:10
 */

// PeerClient is the collaborator abstraction Ledger.ReplaceChain uses to
// fetch a (length, chain) snapshot from a named peer. The concrete
// implementation (package peer) speaks HTTP+JSON against the peer's own
// /chain/get route; THE CORE only depends on this interface so it never
// imports net/http.
type PeerClient interface {
	GetChain(ctx context.Context, peerAddr string) (length int, chain []*Block, err error)
}
