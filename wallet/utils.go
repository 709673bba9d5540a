package wallet

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 04/12/2025
 * Time: 17:13
 */

import (
	"log"

	"github.com/mr-tron/base58"
)

// Base58Encode encodes input the way an address's checksum-suffixed bytes
// are turned into the string a wallet actually displays.
func Base58Encode(input []byte) []byte {
	return []byte(base58.Encode(input))
}

// Base58Decode is Base58Encode's inverse. Panics on malformed input; callers
// only ever feed it addresses they already validated.
func Base58Decode(input []byte) []byte {
	decoded, err := base58.Decode(string(input))
	if err != nil {
		log.Panic(err)
	}
	return decoded
}
