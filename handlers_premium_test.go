package main

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/config"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/types"
)

const signerKey = "0000000000000000000000000000000000000000000000000000000000000003"

func withMember(pk string, m types.Membership) testOption {
	return func(cfg *config.Config, deps *AppDeps) {
		cfg.Premium.Members[pk] = m
	}
}

func withSigner(s *nostr.Signer) testOption {
	return func(cfg *config.Config, deps *AppDeps) {
		deps.Signer = s
	}
}

func newSigner(t *testing.T) *nostr.Signer {
	t.Helper()
	s, err := nostr.NewSigner(signerKey)
	require.NoError(t, err)
	return s
}

// bind attaches pk to the test session
func (ta *testApp) bind(t *testing.T, pk string) {
	t.Helper()
	rec := ta.post(t, "/html/account", url.Values{"pubkey": {pk}})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPremiumRequiresAccountAndMembership(t *testing.T) {
	ta := newTestApp(t, withMember(authorPK, types.Membership{Name: "alice"}))

	assert.Equal(t, http.StatusUnauthorized, ta.get("/html/premium").Code)

	ta.bind(t, hostPK)
	assert.Equal(t, http.StatusNotFound, ta.get("/html/premium").Code)
}

func TestPremiumSummary(t *testing.T) {
	ta := newTestApp(t, withMember(authorPK, types.Membership{Name: "alice", UsedStorage: 1536 * 1024 * 1024}))
	ta.relays.add(metadataEvent(authorPK, map[string]string{
		"name":  "alice",
		"nip05": "alice@primal.net",
		"lud16": "alice@getalby.com",
	}))
	ta.bind(t, authorPK)

	rec := ta.get("/html/premium")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseDoc(t, rec)

	assert.Equal(t, "alice", doc.Find(".premium-name").Text())
	// nip05 already matches: the premium address alone, no apply action
	nip05 := doc.Find(".premium-nip05")
	assert.Equal(t, "alice@primal.net", nip05.Find(".premium-value").Text())
	assert.Equal(t, 0, nip05.Find("form").Length())
	// lud16 differs: current value, premium address and apply
	lud16 := doc.Find(".premium-lud16")
	assert.Equal(t, "alice@getalby.com", lud16.Find(".premium-current").Text())
	assert.Equal(t, "alice@primal.net", lud16.Find(".premium-address").Text())
	assert.Equal(t, "lud16", lud16.Find(`input[name="option"]`).AttrOr("value", ""))

	assert.Contains(t, rec.Body.String(), "primal.net/alice")
	assert.Equal(t, 0, doc.Find(".premium-qr").Length())

	expanded := parseDoc(t, ta.get("/html/premium?expanded=1"))
	assert.Contains(t, expanded.Text(), "Never")
	assert.Equal(t, 1, expanded.Find(".premium-qr").Length())
}

func TestPremiumApplyPublishesMetadata(t *testing.T) {
	signer := newSigner(t)
	pk := signer.Pubkey()
	ta := newTestApp(t, withSigner(signer), withMember(pk, types.Membership{Name: "carol"}))
	ta.relays.add(metadataEvent(pk, map[string]string{"name": "carol", "nip05": "carol@old.example"}))
	ta.bind(t, pk)

	rec := ta.post(t, "/html/premium/apply", url.Values{"option": {"nip05"}})
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseDoc(t, rec)
	assert.Equal(t, 0, doc.Find(".form-error").Length())
	assert.Equal(t, 0, doc.Find(".premium-nip05 form").Length())

	require.Len(t, ta.relays.published, 1)
	evt := ta.relays.published[0]
	assert.Equal(t, types.KindMetadata, evt.Kind)
	assert.Equal(t, pk, evt.PubKey)
	assert.Contains(t, evt.Content, `"nip05":"carol@primal.net"`)
	assert.Contains(t, evt.Content, `"name":"carol"`)
	assert.True(t, nostr.ValidateEventSignature(evt))

	// The published profile is what the next render sees
	p, err := ta.app.people.Get(context.Background(), pk)
	require.NoError(t, err)
	assert.Equal(t, "carol@primal.net", p.Nip05)
}

func TestPremiumApplyFailures(t *testing.T) {
	signer := newSigner(t)
	pk := signer.Pubkey()

	t.Run("unknown option", func(t *testing.T) {
		ta := newTestApp(t, withSigner(signer), withMember(pk, types.Membership{Name: "carol"}))
		ta.bind(t, pk)
		rec := ta.post(t, "/html/premium/apply", url.Values{"option": {"website"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, ta.relays.published)
	})

	t.Run("no signer", func(t *testing.T) {
		ta := newTestApp(t, withMember(pk, types.Membership{Name: "carol"}))
		ta.bind(t, pk)
		rec := ta.post(t, "/html/premium/apply", url.Values{"option": {"nip05"}})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("signer for another key", func(t *testing.T) {
		ta := newTestApp(t, withSigner(signer), withMember(authorPK, types.Membership{Name: "alice"}))
		ta.bind(t, authorPK)
		rec := ta.post(t, "/html/premium/apply", url.Values{"option": {"nip05"}})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("relays reject", func(t *testing.T) {
		ta := newTestApp(t, withSigner(signer), withMember(pk, types.Membership{Name: "carol"}))
		ta.relays.reject = true
		ta.bind(t, pk)
		rec := ta.post(t, "/html/premium/apply", url.Values{"option": {"lud16"}})
		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseDoc(t, rec)
		assert.Equal(t, 1, doc.Find(".form-error").Length())
		assert.Equal(t, 1, doc.Find(".premium-lud16 form").Length())
	})
}
