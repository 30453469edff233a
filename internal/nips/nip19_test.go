package nips

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPubkey = "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"

func TestNAddrRoundTrip(t *testing.T) {
	naddr, err := EncodeNAddr(30311, testPubkey, "stream-42", "wss://relay.example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(naddr, "naddr1"))

	entity, err := Decode(naddr)
	require.NoError(t, err)
	assert.Equal(t, TypeNAddr, entity.Type)

	ptr, ok := entity.Data.(*AddressPointer)
	require.True(t, ok)
	assert.Equal(t, "stream-42", ptr.Identifier)
	assert.Equal(t, testPubkey, ptr.Pubkey)
	assert.Equal(t, uint32(30311), ptr.Kind)
	assert.Equal(t, []string{"wss://relay.example.com"}, ptr.Relays)
}

func TestDecodeNpub(t *testing.T) {
	npub, err := EncodePubkey(testPubkey)
	require.NoError(t, err)
	assert.Equal(t, "npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6", npub)

	entity, err := Decode(npub)
	require.NoError(t, err)
	assert.Equal(t, TypeNpub, entity.Type)
	assert.Equal(t, testPubkey, entity.Data)
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	npub, err := EncodePubkey(testPubkey)
	require.NoError(t, err)

	last := npub[len(npub)-1]
	replacement := byte('q')
	if last == 'q' {
		replacement = 'p'
	}
	corrupted := npub[:len(npub)-1] + string(replacement)

	_, err = Decode(corrupted)
	assert.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestDecodePubkeyAcceptsAllForms(t *testing.T) {
	npub, err := EncodePubkey(testPubkey)
	require.NoError(t, err)
	nprofile, err := EncodeNProfile(testPubkey, "wss://relay.example.com")
	require.NoError(t, err)

	for _, in := range []string{testPubkey, npub, "nostr:" + npub, nprofile} {
		got, err := DecodePubkey(in)
		require.NoError(t, err, in)
		assert.Equal(t, testPubkey, got, in)
	}

	naddr, err := EncodeNAddr(30311, testPubkey, "x")
	require.NoError(t, err)
	_, err = DecodePubkey(naddr)
	assert.Error(t, err)
}

func TestFormatNpubShort(t *testing.T) {
	assert.Equal(t, "npub180cv...h6w6", FormatNpubShort("npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6"))
	assert.Equal(t, "short", FormatNpubShort("short"))
}
