package wallet

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 05/12/2025
 * Time: 12:53
 */

// keystoreDir is the per-node data directory for the wallet keystore. This
// is the one place in the system that durably persists state: THE CORE's
// Non-goal on durable persistence covers chain/UTXO/mempool state, not a
// locally-held private key, which must survive a process restart to be
// usable at all (SPEC_FULL.md §10).
const keystoreDir = "./tmp/wallets_%s"

// Keystore holds named local wallets for a single node process, persisted
// to a badger database. It is adapted from the teacher's gob-file
// Wallets type, trading the flat file for the same embedded KV store the
// teacher's chain package used for chain state - the dependency moves to
// where persistence is actually in-scope.
type Keystore struct {
	db *badger.DB
}

// OpenKeystore opens (creating if absent) the badger-backed keystore for nodeID.
func OpenKeystore(nodeID string) (*Keystore, error) {
	path := fmt.Sprintf(keystoreDir, nodeID)
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Keystore{db: db}, nil
}

// Close releases the underlying badger handle.
func (ks *Keystore) Close() error {
	return ks.db.Close()
}

// AddWallet generates a fresh wallet, persists it, and returns its address.
func (ks *Keystore) AddWallet() (string, error) {
	w := MakeWallet()
	address := string(w.Address())
	if err := ks.put(address, w); err != nil {
		return "", err
	}
	return address, nil
}

// GetWallet retrieves the wallet stored under address.
func (ks *Keystore) GetWallet(address string) (*Wallet, error) {
	var w Wallet
	err := ks.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(walletKey(address))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return w.GobDecode(val)
		})
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetAllAddresses lists every address currently held in the keystore.
func (ks *Keystore) GetAllAddresses() ([]string, error) {
	var addresses []string
	err := ks.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(walletKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			addresses = append(addresses, string(key[len(walletKeyPrefix):]))
		}
		return nil
	})
	return addresses, err
}

func (ks *Keystore) put(address string, w *Wallet) error {
	encoded, err := w.GobEncode()
	if err != nil {
		return err
	}
	return ks.db.Update(func(txn *badger.Txn) error {
		return txn.Set(walletKey(address), encoded)
	})
}

const walletKeyPrefix = "wallet-"

func walletKey(address string) []byte {
	var buf bytes.Buffer
	buf.WriteString(walletKeyPrefix)
	buf.WriteString(address)
	return buf.Bytes()
}
