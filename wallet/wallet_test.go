package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeWallet_AddressValidates(t *testing.T) {
	w := MakeWallet()
	address := string(w.Address())

	assert.True(t, ValidateAddress(address))
}

func TestValidateAddress_RejectsTamperedChecksum(t *testing.T) {
	w := MakeWallet()
	address := []byte(w.Address())
	address[len(address)-1] ^= 0xFF

	assert.False(t, ValidateAddress(string(address)))
}

func TestValidateAddress_RejectsGarbage(t *testing.T) {
	assert.False(t, ValidateAddress("not-a-real-address"))
}

func TestWallet_GobRoundtripPreservesKeys(t *testing.T) {
	w := MakeWallet()
	encoded, err := w.GobEncode()
	require.NoError(t, err)

	var restored Wallet
	require.NoError(t, restored.GobDecode(encoded))

	assert.Equal(t, w.PublicKey, restored.PublicKey)
	assert.Equal(t, w.Address(), restored.Address())
}

func TestPublicKeyHash_IsDeterministic(t *testing.T) {
	w := MakeWallet()
	h1 := PublicKeyHash(w.PublicKey)
	h2 := PublicKeyHash(w.PublicKey)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 20)
}
