// Package summary renders the premium subscription summary panel.
package summary

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/skip2/go-qrcode"

	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// Apply options
const (
	OptionNip05 = "nip05"
	OptionLud16 = "lud16"
)

// StorageQuota is the plan's media allowance label
const StorageQuota = "100GB"

// ErrUnknownOption is returned by Apply for anything but nip05/lud16
var ErrUnknownOption = errors.New("unknown apply option")

// Panel holds the inputs of the summary view
type Panel struct {
	Membership types.Membership
	ActiveUser *types.Profile
	Domain     string
	Rename     bool
	Expanded   bool
}

// Row is one identity row; Current is set only when it differs from the premium value
type Row struct {
	Label    string
	Option   string
	Premium  string
	Current  string
	Matches  bool
	CanApply bool
}

// View is the render model of a Panel
type View struct {
	Name           string
	Address        string
	Nip05          Row
	Lud16          Row
	VIPProfile     string
	Expanded       bool
	StorageUsed    string
	ExpiresOn      string
	Lud16QRDataURL string
}

// DisplayedName is the rename candidate while renaming, otherwise the membership name
func (p Panel) DisplayedName() string {
	if p.Rename {
		return p.Membership.Rename
	}
	return p.Membership.Name
}

// Address is the premium name@domain
func (p Panel) Address() string {
	return p.DisplayedName() + "@" + p.Domain
}

// View derives the panel rows
func (p Panel) View() View {
	addr := p.Address()
	var nip05, lud16 string
	if p.ActiveUser != nil {
		nip05, lud16 = p.ActiveUser.Nip05, p.ActiveUser.Lud16
	}

	v := View{
		Name:       p.DisplayedName(),
		Address:    addr,
		Nip05:      row("Verified nostr address", OptionNip05, addr, nip05, p.ActiveUser != nil),
		Lud16:      row("Bitcoin lightning address", OptionLud16, addr, lud16, p.ActiveUser != nil),
		VIPProfile: p.Domain + "/" + p.DisplayedName(),
		Expanded:   p.Expanded,
	}

	if p.Expanded {
		v.StorageUsed = util.FormatStorage(p.Membership.UsedStorage) + " of " + StorageQuota
		v.ExpiresOn = "Never"
		if p.Membership.ExpiresOn > 0 {
			v.ExpiresOn = util.FormatDate(p.Membership.ExpiresOn)
		}
		v.Lud16QRDataURL = QRDataURL("lightning:" + addr)
	}
	return v
}

func row(label, option, premium, current string, hasUser bool) Row {
	r := Row{Label: label, Option: option, Premium: premium}
	if current == premium {
		r.Matches = true
		return r
	}
	r.Current = current
	r.CanApply = hasUser
	return r
}

// Apply hands the fixed option literal to update
func Apply(option string, update func(string)) error {
	switch option {
	case OptionNip05, OptionLud16:
		update(option)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownOption, option)
}

// QRDataURL encodes content as a PNG data URI, empty on failure
func QRDataURL(content string) string {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		slog.Error("failed to generate QR code", "error", err)
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
