package nostr

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/types"
)

// ErrNoSigner is returned when signing is attempted without a configured key
var ErrNoSigner = errors.New("no signer key configured")

// Signer signs events with a local secp256k1 key
type Signer struct {
	privateKey *btcec.PrivateKey
	pubkeyHex  string
}

// NewSigner parses a hex or nsec private key
func NewSigner(key string) (*Signer, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrNoSigner
	}

	var keyBytes []byte
	if strings.HasPrefix(key, "nsec1") {
		hrp, data, err := nips.Bech32Decode(key)
		if err != nil {
			return nil, fmt.Errorf("decode nsec: %w", err)
		}
		if hrp != "nsec" {
			return nil, errors.New("invalid hrp for nsec")
		}
		keyBytes, err = nips.Bech32ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, fmt.Errorf("decode nsec: %w", err)
		}
	} else {
		var err error
		keyBytes, err = hex.DecodeString(key)
		if err != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
	}
	if len(keyBytes) != 32 {
		return nil, errors.New("invalid private key length")
	}

	privateKey, _ := btcec.PrivKeyFromBytes(keyBytes)
	pubkey := schnorr.SerializePubKey(privateKey.PubKey())

	return &Signer{
		privateKey: privateKey,
		pubkeyHex:  hex.EncodeToString(pubkey),
	}, nil
}

// Pubkey returns the x-only public key as hex
func (s *Signer) Pubkey() string {
	return s.pubkeyHex
}

// Sign fills in pubkey, created_at (if unset), id and sig
func (s *Signer) Sign(evt *types.Event) error {
	if s == nil {
		return ErrNoSigner
	}
	evt.PubKey = s.pubkeyHex
	if evt.CreatedAt == 0 {
		evt.CreatedAt = time.Now().Unix()
	}
	if evt.Tags == nil {
		evt.Tags = [][]string{}
	}
	evt.ID = ComputeEventID(evt)

	idBytes, err := hex.DecodeString(evt.ID)
	if err != nil {
		return err
	}
	sig, err := schnorr.Sign(s.privateKey, idBytes)
	if err != nil {
		return fmt.Errorf("schnorr sign: %w", err)
	}
	evt.Sig = hex.EncodeToString(sig.Serialize())
	return nil
}
