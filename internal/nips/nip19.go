package nips

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Entity type tags returned by Decode
const (
	TypeNpub     = "npub"
	TypeNote     = "note"
	TypeNProfile = "nprofile"
	TypeNEvent   = "nevent"
	TypeNAddr    = "naddr"
)

// TLV type constants for NIP-19
const (
	tlvTypeSpecial = 0 // d-tag for naddr, event_id for nevent, pubkey for nprofile
	tlvTypeRelay   = 1
	tlvTypeAuthor  = 2
	tlvTypeKind    = 3
)

// Entity is a decoded NIP-19 identifier: Type names the variant, Data holds it.
// Data is a string (hex) for npub/note, or one of the pointer types below.
type Entity struct {
	Type string
	Data interface{}
}

// AddressPointer points to an addressable event (naddr)
type AddressPointer struct {
	Identifier string
	Pubkey     string
	Kind       uint32
	Relays     []string
}

// EventPointer points to a specific event (nevent)
type EventPointer struct {
	ID     string
	Author string
	Relays []string
}

// ProfilePointer points to a profile (nprofile)
type ProfilePointer struct {
	Pubkey string
	Relays []string
}

// Decode decodes any supported NIP-19 identifier into its tagged variant
func Decode(bech string) (Entity, error) {
	hrp, data, err := Bech32Decode(bech)
	if err != nil {
		return Entity{}, err
	}

	raw, err := Bech32ConvertBits(data, 5, 8, false)
	if err != nil {
		return Entity{}, err
	}

	switch hrp {
	case TypeNpub, TypeNote:
		if len(raw) != 32 {
			return Entity{}, fmt.Errorf("invalid %s length %d", hrp, len(raw))
		}
		return Entity{Type: hrp, Data: hex.EncodeToString(raw)}, nil
	case TypeNAddr:
		p, err := decodeNAddrTLV(raw)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Type: hrp, Data: p}, nil
	case TypeNEvent:
		p, err := decodeNEventTLV(raw)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Type: hrp, Data: p}, nil
	case TypeNProfile:
		p, err := decodeNProfileTLV(raw)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Type: hrp, Data: p}, nil
	}

	return Entity{}, fmt.Errorf("unsupported nip19 prefix %q", hrp)
}

// DecodePubkey accepts an npub, nprofile or 64-char hex pubkey and returns the hex pubkey
func DecodePubkey(s string) (string, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "nostr:")
	if len(s) == 64 {
		if _, err := hex.DecodeString(s); err == nil {
			return strings.ToLower(s), nil
		}
	}

	entity, err := Decode(s)
	if err != nil {
		return "", err
	}
	switch v := entity.Data.(type) {
	case string:
		if entity.Type == TypeNpub {
			return v, nil
		}
	case *ProfilePointer:
		return v.Pubkey, nil
	}
	return "", fmt.Errorf("%s is not a profile identifier", entity.Type)
}

// tlvEntries walks TLV records; truncated trailing records are ignored
func tlvEntries(data []byte, fn func(t byte, v []byte)) {
	for i := 0; i+2 <= len(data); {
		t := data[i]
		l := int(data[i+1])
		i += 2
		if i+l > len(data) {
			return
		}
		fn(t, data[i:i+l])
		i += l
	}
}

func decodeNAddrTLV(data []byte) (*AddressPointer, error) {
	p := &AddressPointer{Relays: []string{}}
	hasKind := false

	tlvEntries(data, func(t byte, v []byte) {
		switch t {
		case tlvTypeSpecial:
			p.Identifier = string(v)
		case tlvTypeRelay:
			p.Relays = append(p.Relays, string(v))
		case tlvTypeAuthor:
			if len(v) == 32 {
				p.Pubkey = hex.EncodeToString(v)
			}
		case tlvTypeKind:
			if len(v) == 4 {
				p.Kind = binary.BigEndian.Uint32(v)
				hasKind = true
			}
		}
	})

	if !hasKind || p.Pubkey == "" {
		return nil, errors.New("naddr missing required fields")
	}
	return p, nil
}

func decodeNEventTLV(data []byte) (*EventPointer, error) {
	p := &EventPointer{Relays: []string{}}

	tlvEntries(data, func(t byte, v []byte) {
		switch t {
		case tlvTypeSpecial:
			if len(v) == 32 {
				p.ID = hex.EncodeToString(v)
			}
		case tlvTypeRelay:
			p.Relays = append(p.Relays, string(v))
		case tlvTypeAuthor:
			if len(v) == 32 {
				p.Author = hex.EncodeToString(v)
			}
		}
	})

	if p.ID == "" {
		return nil, errors.New("nevent missing event ID")
	}
	return p, nil
}

func decodeNProfileTLV(data []byte) (*ProfilePointer, error) {
	p := &ProfilePointer{Relays: []string{}}

	tlvEntries(data, func(t byte, v []byte) {
		switch t {
		case tlvTypeSpecial:
			if len(v) == 32 {
				p.Pubkey = hex.EncodeToString(v)
			}
		case tlvTypeRelay:
			p.Relays = append(p.Relays, string(v))
		}
	})

	if p.Pubkey == "" {
		return nil, errors.New("nprofile missing pubkey")
	}
	return p, nil
}

func appendTLV(buf []byte, t byte, v []byte) []byte {
	buf = append(buf, t, byte(len(v)))
	return append(buf, v...)
}

// EncodeNAddr encodes an naddr from kind, pubkey (hex), d-tag and optional relay hints
func EncodeNAddr(kind uint32, pubkeyHex string, dTag string, relays ...string) (string, error) {
	pubkeyBytes, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return "", err
	}
	if len(pubkeyBytes) != 32 {
		return "", errors.New("invalid pubkey length")
	}
	if len(dTag) > 255 {
		return "", errors.New("d-tag too long")
	}

	var tlv []byte
	tlv = appendTLV(tlv, tlvTypeSpecial, []byte(dTag))
	for _, r := range relays {
		if len(r) <= 255 {
			tlv = appendTLV(tlv, tlvTypeRelay, []byte(r))
		}
	}
	tlv = appendTLV(tlv, tlvTypeAuthor, pubkeyBytes)
	kindBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(kindBytes, kind)
	tlv = appendTLV(tlv, tlvTypeKind, kindBytes)

	return encodeBytes(TypeNAddr, tlv)
}

// EncodeNProfile encodes an nprofile from a hex pubkey and optional relay hints
func EncodeNProfile(pubkeyHex string, relays ...string) (string, error) {
	pubkeyBytes, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return "", err
	}
	if len(pubkeyBytes) != 32 {
		return "", errors.New("invalid pubkey length")
	}

	var tlv []byte
	tlv = appendTLV(tlv, tlvTypeSpecial, pubkeyBytes)
	for _, r := range relays {
		if len(r) <= 255 {
			tlv = appendTLV(tlv, tlvTypeRelay, []byte(r))
		}
	}
	return encodeBytes(TypeNProfile, tlv)
}

// FormatNpubShort shortens an npub for display: npub1abcd...wxyz
func FormatNpubShort(npub string) string {
	if len(npub) <= 16 {
		return npub
	}
	return npub[:9] + "..." + npub[len(npub)-4:]
}
