package blockchain

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 11/12/2025
 * Time: 13:00
 */

// Tunable constants named by the spec. BlockSizeLimit, InitialMiningReward,
// HalvingInterval and DifficultyPrefix may be overridden at process start
// via config.Config (see config/config.go) — the Ledger itself just takes whatever
// values it's constructed with.
const (
	BlockSizeLimit        = 1500
	InitialMiningReward   = 50
	HalvingInterval       = 210_000
	MinReward       int64 = 1
)

// Ledger is the top-level coordinator owning the chain, mempool, UTXO
// index, and peer set. It generalizes the teacher's badger-backed
// BlockChain (MineBlock/AddBlock/FindUTXO) to the spec's fully in-memory,
// single-threaded state machine: every mutating method below takes the
// write lock for its entire body, and BalanceOf/Chain take only the read
// lock, per the concurrency model in spec §5.
type Ledger struct {
	mu     sync.RWMutex
	chain  []*Block
	mpool  *Mempool
	utxo   *UtxoIndex
	peers  map[string]struct{}
	client PeerClient
	log    *logrus.Entry

	difficultyPrefix string
	blockSizeLimit   int
	initialReward    int64
	halvingInterval  int
}

// Option configures a Ledger at construction time.
type Option func(*Ledger)

// WithDifficultyPrefix overrides the proof-of-work prefix (default "0000").
func WithDifficultyPrefix(prefix string) Option {
	return func(l *Ledger) { l.difficultyPrefix = prefix }
}

// WithBlockSizeLimit overrides the per-block size budget (default 1500).
func WithBlockSizeLimit(limit int) Option {
	return func(l *Ledger) { l.blockSizeLimit = limit }
}

// WithInitialMiningReward overrides the pre-halving block reward (default 50).
func WithInitialMiningReward(reward int64) Option {
	return func(l *Ledger) { l.initialReward = reward }
}

// WithHalvingInterval overrides the block-height interval between reward
// halvings (default 210,000).
func WithHalvingInterval(interval int) Option {
	return func(l *Ledger) { l.halvingInterval = interval }
}

// WithLogger attaches a structured logger; the standard logrus logger is used if omitted.
func WithLogger(log *logrus.Entry) Option {
	return func(l *Ledger) { l.log = log }
}

// NewLedger constructs a Ledger and seeds its genesis state: a synthetic
// UTXO of GenesisReward to GenesisAddress, a self-input "genesis"
// transaction redeclaring that output, and a genesis Block with proof=1,
// previous_hash="0".
func NewLedger(client PeerClient, opts ...Option) *Ledger {
	l := &Ledger{
		mpool:            NewMempool(),
		utxo:             NewUtxoIndex(),
		peers:            make(map[string]struct{}),
		client:           client,
		difficultyPrefix: DefaultDifficultyPrefix,
		blockSizeLimit:   BlockSizeLimit,
		initialReward:    InitialMiningReward,
		halvingInterval:  HalvingInterval,
	}
	if l.log == nil {
		l.log = logrus.NewEntry(logrus.StandardLogger())
	}
	for _, opt := range opts {
		opt(l)
	}
	l.seedGenesis()
	return l
}

func (l *Ledger) seedGenesis() {
	genesisUTXO := UTXO{
		Amount:       GenesisReward,
		OwnerAddress: GenesisAddress,
		TxID:         GenesisTxID,
		OutputIndex:  0,
		Timestamp:    time.Now().Unix(),
	}
	l.utxo.Add(&genesisUTXO)

	genesisTx := &Transaction{
		TxID:      GenesisTxID,
		Inputs:    []TxInput{{TxID: GenesisTxID, OutputIndex: 0, Amount: GenesisReward}},
		Outputs:   []UTXO{genesisUTXO},
		Fee:       0,
		Timestamp: genesisUTXO.Timestamp,
	}
	genesisTx.UpdateSize()

	genesisBlock := NewBlock(1, 1, "0", []*Transaction{genesisTx})
	l.chain = append(l.chain, genesisBlock)
	l.log.WithField("chain_length", len(l.chain)).Info("genesis block seeded")
}

// AdmitTransaction validates tx against the admission rule (spec §4.5) and,
// on success, appends it to the mempool. The genesis transaction bypasses
// signature and input-unspent checks; every other caller goes through the
// full precondition chain.
func (l *Ledger) AdmitTransaction(tx *Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.admitTransactionLocked(tx)
}

func (l *Ledger) admitTransactionLocked(tx *Transaction) error {
	if tx.TxID == GenesisTxID {
		l.mpool.Add(tx)
		return nil
	}

	if l.mpool.HasSignatureConflict(tx.Signature) {
		return newValidationError("a pending transaction already uses this signature")
	}

	for _, in := range tx.Inputs {
		utxo, ok := l.utxo.Get(in.TxID, in.OutputIndex)
		if !ok {
			return newNotFoundError("input %s:%d does not exist", in.TxID, in.OutputIndex)
		}
		if utxo.Spent {
			return newValidationError("input %s:%d is already spent", in.TxID, in.OutputIndex)
		}
	}

	if err := tx.VerifyAmounts(); err != nil {
		return err
	}
	if err := tx.VerifySignature(); err != nil {
		return err
	}
	if l.mpool.HasInputConflict(tx.Inputs) {
		return newValidationError("an input of this transaction is already referenced by a pending transaction")
	}

	l.mpool.Add(tx)
	return nil
}

// currentMiningReward implements reward halving:
// max(initialReward / 2^(height/halvingInterval), MinReward).
func (l *Ledger) currentMiningReward(height int) int64 {
	halvings := height / l.halvingInterval
	reward := l.initialReward
	for i := 0; i < halvings && reward > MinReward; i++ {
		reward /= 2
	}
	if reward < MinReward {
		return MinReward
	}
	return reward
}

// selectTransactionsForBlock sorts the mempool by fee descending (stable)
// and greedily accepts transactions whose cumulative size keeps the
// running total within the block size limit, stopping at the first
// rejection (spec §4.6 step 3).
func (l *Ledger) selectTransactionsForBlock() []*Transaction {
	candidates := l.mpool.FeeDescending()
	selected := make([]*Transaction, 0, len(candidates))
	total := 0
	for _, tx := range candidates {
		if total+tx.Size > l.blockSizeLimit {
			break
		}
		selected = append(selected, tx)
		total += tx.Size
	}
	return selected
}

// MineBlock runs the full block-assembly procedure of spec §4.6: select
// transactions, synthesize a coinbase, run proof-of-work, commit the
// UtxoIndex, append to the chain, and purge the mempool.
func (l *Ledger) MineBlock(minerAddress string) (*Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if minerAddress == "" {
		return nil, newValidationError("miner address is required")
	}
	if l.mpool.Len() == 0 {
		return nil, newValidationError("mempool is empty, mining empty blocks is not allowed")
	}

	previousBlock := l.chain[len(l.chain)-1]
	previousHash, err := HashBlock(previousBlock)
	if err != nil {
		return nil, err
	}

	newProof := ComputeProof(previousBlock.Proof, l.difficultyPrefix)

	selected := l.selectTransactionsForBlock()

	var feeTotal int64
	for _, tx := range selected {
		feeTotal += tx.Fee
	}
	height := len(l.chain) - 1
	reward := l.currentMiningReward(height) + feeTotal

	coinbaseOutput := UTXO{Amount: reward, OwnerAddress: minerAddress}
	coinbaseID := newCoinbaseTxID(nil, []UTXO{coinbaseOutput}, previousHash, newProof)
	coinbaseOutput.TxID = coinbaseID
	coinbaseOutput.OutputIndex = 0
	coinbase := &Transaction{
		TxID:      coinbaseID,
		Outputs:   []UTXO{coinbaseOutput},
		Fee:       0,
		Timestamp: time.Now().Unix(),
	}
	coinbase.UpdateSize()

	allTransactions := append([]*Transaction{coinbase}, selected...)

	for _, tx := range allTransactions {
		for i := range tx.Outputs {
			if tx.Outputs[i].OwnerAddress == MinerFeeSentinel {
				continue
			}
			tx.Outputs[i].TxID = tx.TxID
			tx.Outputs[i].OutputIndex = i
			boundOutput := tx.Outputs[i]
			l.utxo.Add(&boundOutput)
		}
		if !tx.IsCoinbase() {
			for _, in := range tx.Inputs {
				l.utxo.MarkSpent(in.TxID, in.OutputIndex)
			}
		}
	}

	block := NewBlock(len(l.chain)+1, newProof, previousHash, allTransactions)
	l.chain = append(l.chain, block)

	for _, tx := range selected {
		l.mpool.Remove(tx.TxID)
	}

	l.log.WithFields(logrus.Fields{
		"index":  block.Index,
		"proof":  block.Proof,
		"miner":  minerAddress,
		"reward": reward,
	}).Info("mined block")

	return block, nil
}

// ValidateChain implements spec §4.8, with the genesis transition explicitly
// exempted from the proof/hash checks (Open Question resolution, SPEC_FULL.md §9).
// difficultyPrefix is the caller's configured proof-of-work prefix, not a
// hardcoded default, so a node running with DIFFICULTY_PREFIX overridden
// validates peer chains against the same rule it mines under.
func ValidateChain(chain []*Block, difficultyPrefix string) error {
	if len(chain) == 0 {
		return newValidationError("chain is empty")
	}
	if !chain[0].IsGenesis() {
		return newValidationError("first block is not a genesis block")
	}
	for i := 1; i < len(chain); i++ {
		prevHash, err := HashBlock(chain[i-1])
		if err != nil {
			return err
		}
		if chain[i].PreviousHash != prevHash {
			return newConsensusError("block %d previous_hash does not match block %d's canonical hash", i, i-1)
		}
		if !ValidProof(chain[i-1].Proof, chain[i].Proof, difficultyPrefix) {
			return newConsensusError("block %d fails proof-of-work against block %d", i, i-1)
		}
	}
	return nil
}

// ValidateChain validates the Ledger's own current chain against its
// configured difficulty prefix.
func (l *Ledger) ValidateChain() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return ValidateChain(l.chain, l.difficultyPrefix)
}

// Chain returns a by-value snapshot of the current chain; callers never
// receive an aliased handle into Ledger state (spec §5).
func (l *Ledger) Chain() []*Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Block, len(l.chain))
	for i, b := range l.chain {
		blockCopy := *b
		blockCopy.Transactions = make([]*Transaction, len(b.Transactions))
		for j, tx := range b.Transactions {
			txCopy := *tx
			txCopy.Inputs = append([]TxInput(nil), tx.Inputs...)
			txCopy.Outputs = append([]UTXO(nil), tx.Outputs...)
			txCopy.Signature = append([]byte(nil), tx.Signature...)
			txCopy.SenderPublicKey = append([]byte(nil), tx.SenderPublicKey...)
			blockCopy.Transactions[j] = &txCopy
		}
		out[i] = &blockCopy
	}
	return out
}

// BalanceOf sums unspent outputs owned by address. A read-only operation;
// it may run concurrently with other reads but not with a mutation.
func (l *Ledger) BalanceOf(address string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.utxo.BalanceOf(address)
}

// MempoolSnapshot returns the pending transactions in admission order.
func (l *Ledger) MempoolSnapshot() []*Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.mpool.Snapshot()
}

// GetUTXO looks up a single UTXO by its composite key, used by the API
// layer's /transaction/add to validate referenced inputs.
func (l *Ledger) GetUTXO(txID string, outputIndex int) (*UTXO, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.utxo.Get(txID, outputIndex)
}

// UnspentFor returns every unspent UTXO owned by address, used by the API
// layer's /transaction/prepare for coin selection.
func (l *Ledger) UnspentFor(address string) []UTXO {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []UTXO
	for _, u := range l.utxo.Snapshot() {
		if u.OwnerAddress == address && !u.Spent {
			out = append(out, u)
		}
	}
	return out
}

// HasPendingInput reports whether any mempool entry already references the
// given (txID, outputIndex), used by /transaction/prepare to reject
// double-spend attempts before a signature even exists.
func (l *Ledger) HasPendingInput(txID string, outputIndex int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.mpool.HasInputConflict([]TxInput{{TxID: txID, OutputIndex: outputIndex}})
}

// AddPeer parses url, extracts its network location, and inserts it into
// the peer set. Idempotent; no liveness probing (spec §4.10).
func (l *Ledger) AddPeer(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return newValidationError("invalid peer url %q: %v", rawURL, err)
	}
	host := parsed.Host
	if host == "" {
		host = parsed.Path
	}
	if host == "" {
		return newValidationError("peer url %q has no network location", rawURL)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.peers[host] = struct{}{}
	return nil
}

// Peers returns a snapshot of the peer network-location set.
func (l *Ledger) Peers() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.peers))
	for p := range l.peers {
		out = append(out, p)
	}
	return out
}

// ReplaceChain implements spec §4.9: poll every peer, track the longest
// valid chain strictly longer than local, and if found adopt it, filtering
// the mempool against the new chain, rebuilding the UtxoIndex from it, then
// filtering the mempool again by UTXO validity before replaying survivors.
// A peer that errors or returns an invalid chain is skipped, never aborts
// the remaining peers (ConsensusError is handled locally, per spec §7).
func (l *Ledger) ReplaceChain(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	localLength := len(l.chain)
	var best []*Block
	bestLength := localLength

	for peerAddr := range l.peers {
		length, chain, err := l.client.GetChain(ctx, peerAddr)
		if err != nil {
			l.log.WithError(err).WithField("peer", peerAddr).Warn("peer chain fetch failed, skipping")
			continue
		}
		if length <= bestLength {
			continue
		}
		if err := ValidateChain(chain, l.difficultyPrefix); err != nil {
			l.log.WithError(err).WithField("peer", peerAddr).Warn("peer chain failed validation, skipping")
			continue
		}
		best = chain
		bestLength = length
	}

	if best == nil {
		return false, nil
	}

	l.mpool.filterByChain(best)
	l.utxo.Clear()
	replayChain(l.utxo, best)
	l.mpool.filterByUtxo(l.utxo)
	replayTransactions(l.utxo, l.mpool.Snapshot())

	l.chain = best
	l.log.WithField("chain_length", len(l.chain)).Info("adopted longer peer chain")
	return true, nil
}

// replayChain inserts every output and marks every input spent, in block
// order, rebuilding the UtxoIndex from scratch.
func replayChain(idx *UtxoIndex, chain []*Block) {
	for _, block := range chain {
		replayTransactions(idx, block.Transactions)
	}
}

// replayTransactions binds each output's (tx_id, output_index) to its
// owning transaction before inserting it, the same binding MineBlock
// performs at mint time. Mined-block outputs are already bound (idempotent
// here); mempool entries are not, since AddOutput never binds them, so
// without this every unconfirmed output would collide under the zero-value
// key (":0", ":1", ...) and overwrite one another in the index.
func replayTransactions(idx *UtxoIndex, txs []*Transaction) {
	for _, tx := range txs {
		for i, out := range tx.Outputs {
			if out.OwnerAddress == MinerFeeSentinel {
				continue
			}
			bound := out
			bound.TxID = tx.TxID
			bound.OutputIndex = i
			idx.Add(&bound)
		}
		if !tx.IsCoinbase() {
			for _, in := range tx.Inputs {
				idx.MarkSpent(in.TxID, in.OutputIndex)
			}
		}
	}
}
