package nostr

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"nostr-widgets/internal/types"
)

// ComputeEventID hashes the NIP-01 serialization
// [0, pubkey, created_at, kind, tags, content]. HTML must stay unescaped or
// relays compute a different id.
func ComputeEventID(evt *types.Event) string {
	tags := evt.Tags
	if tags == nil {
		tags = [][]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode([]any{0, evt.PubKey, evt.CreatedAt, evt.Kind, tags, evt.Content})

	sum := sha256.Sum256(bytes.TrimRight(buf.Bytes(), "\n"))
	return hex.EncodeToString(sum[:])
}

// ValidateEventSignature checks both the id and the BIP-340 signature.
func ValidateEventSignature(evt *types.Event) bool {
	if len(evt.Sig) != 128 || len(evt.PubKey) != 64 || ComputeEventID(evt) != evt.ID {
		return false
	}
	raw, err := hex.DecodeString(evt.Sig + evt.PubKey + evt.ID)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(raw[:64])
	if err != nil {
		return false
	}
	pub, err := schnorr.ParsePubKey(raw[64:96])
	if err != nil {
		return false
	}
	return sig.Verify(raw[96:], pub)
}

// ParseEventFromInterface converts a decoded relay frame element into an
// Event. Signed events that fail verification are dropped.
func ParseEventFromInterface(data any) (types.Event, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return types.Event{}, false
	}
	str := func(k string) string { s, _ := m[k].(string); return s }
	num := func(k string) float64 { f, _ := m[k].(float64); return f }

	evt := types.Event{
		ID:        str("id"),
		PubKey:    str("pubkey"),
		CreatedAt: int64(num("created_at")),
		Kind:      int(num("kind")),
		Content:   str("content"),
		Sig:       str("sig"),
	}
	if tags, ok := m["tags"].([]any); ok {
		evt.Tags = make([][]string, 0, len(tags))
		for _, t := range tags {
			elems, ok := t.([]any)
			if !ok {
				continue
			}
			tag := make([]string, 0, len(elems))
			for _, e := range elems {
				if s, ok := e.(string); ok {
					tag = append(tag, s)
				}
			}
			evt.Tags = append(evt.Tags, tag)
		}
	}

	if evt.Sig != "" && !ValidateEventSignature(&evt) {
		slog.Warn("dropping event with bad signature", "event_id", ShortID(evt.ID))
		return types.Event{}, false
	}
	return evt, evt.ID != ""
}

// ShortID truncates an id or pubkey for log lines.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
