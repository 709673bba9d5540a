package wallet

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/gob"
	"log"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 04/12/2025
 * Time: 16:48
 */

// Wallet system constants
const (
	checksumLength = 4          // Length of checksum in bytes (used for error detection)
	version        = byte(0x00) // Network version byte
)

// Wallet represents a cryptocurrency wallet containing cryptographic keys.
// In blockchain, a wallet doesn't store coins - it stores keys to access them.
//
// The curve is SECP256K1, per the core's signing discipline (spec §4.2) -
// the teacher this package is adapted from used P-256, a common textbook
// substitute, but the spec mandates SECP256K1 explicitly.
type Wallet struct {
	PrivateKey *secp256k1.PrivateKey
	PublicKey  []byte // uncompressed SEC1 encoding
}

// Address generates a human-readable blockchain address from the wallet's
// public key: PublicKey -> SHA256 -> RIPEMD160 -> add version -> add
// checksum -> Base58Encode.
func (w *Wallet) Address() []byte {
	pubHash := PublicKeyHash(w.PublicKey)
	versionedHash := append([]byte{version}, pubHash...)
	checksum := Checksum(versionedHash)
	fullHash := append(versionedHash, checksum...)
	return Base58Encode(fullHash)
}

// ValidateAddress checks if a cryptocurrency address is valid: it can be
// Base58 decoded, has the right length, and its checksum matches.
func ValidateAddress(address string) bool {
	pubKeyHash, err := base58.Decode(address)
	if err != nil {
		return false
	}

	if len(pubKeyHash) != 25 {
		return false
	}

	addressVersion := pubKeyHash[0]
	pubKeyHashContent := pubKeyHash[1:21]
	actualChecksum := pubKeyHash[21:]

	payload := append([]byte{addressVersion}, pubKeyHashContent...)
	targetChecksum := Checksum(payload)

	return bytes.Equal(actualChecksum, targetChecksum)
}

// NewKeyPair generates a new SECP256K1 key pair for signing transactions.
func NewKeyPair() (*secp256k1.PrivateKey, []byte) {
	private, err := secp256k1.GeneratePrivateKeyFromRand(rand.Reader)
	if err != nil {
		log.Panic(err)
	}
	publicKey := private.PubKey().SerializeUncompressed()
	return private, publicKey
}

// MakeWallet creates a new wallet with a fresh key pair.
func MakeWallet() *Wallet {
	privateKey, publicKey := NewKeyPair()
	return &Wallet{PrivateKey: privateKey, PublicKey: publicKey}
}

// PublicKeyHash creates the public key hash using SHA256 then RIPEMD160
// (often called "Hash160"), matching the derivation in spec §4.2.
func PublicKeyHash(pubKey []byte) []byte {
	pubHash := sha256.Sum256(pubKey)

	hasher := ripemd160.New()
	if _, err := hasher.Write(pubHash[:]); err != nil {
		log.Panic(err)
	}
	return hasher.Sum(nil)
}

// Checksum calculates a 4-byte checksum using double SHA256.
func Checksum(payload []byte) []byte {
	firstHash := sha256.Sum256(payload)
	secondHash := sha256.Sum256(firstHash[:])
	return secondHash[:checksumLength]
}

// GobEncode implements gob.GobEncoder. Only the private scalar D is
// serialized; the curve is fixed to SECP256K1, so the full key (and the
// public key) is reconstructed from D on decode.
func (w *Wallet) GobEncode() ([]byte, error) {
	data := struct {
		D []byte
	}{
		D: w.PrivateKey.Serialize(),
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(&data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder, restoring the wallet from its
// private scalar.
func (w *Wallet) GobDecode(b []byte) error {
	var data struct {
		D []byte
	}

	dec := gob.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&data); err != nil {
		return err
	}

	priv := secp256k1.PrivKeyFromBytes(data.D)
	w.PrivateKey = priv
	w.PublicKey = priv.PubKey().SerializeUncompressed()
	return nil
}
