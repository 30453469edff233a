package types

// Profile contains user profile metadata (kind 0), keyed by Pubkey
type Profile struct {
	Pubkey      string `json:"pubkey"`
	Npub        string `json:"npub,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Nip05       string `json:"nip05,omitempty"`
	About       string `json:"about,omitempty"`
	Lud16       string `json:"lud16,omitempty"`
	Lud06       string `json:"lud06,omitempty"`
	Website     string `json:"website,omitempty"`

	// Raw is the decoded kind 0 content, kept so metadata rewrites preserve unknown fields
	Raw map[string]interface{} `json:"raw,omitempty"`
	// CreatedAt of the kind 0 event the profile was read from
	CreatedAt int64 `json:"created_at,omitempty"`
}

// Membership describes a premium subscription attached to a pubkey
type Membership struct {
	Name        string `json:"name" mapstructure:"name"`
	Rename      string `json:"rename,omitempty" mapstructure:"rename"`
	UsedStorage int64  `json:"used_storage" mapstructure:"used_storage"`
	ExpiresOn   int64  `json:"expires_on" mapstructure:"expires_on"`
}
