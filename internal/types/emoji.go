package types

// EmojiOption is a selectable emoji; identity is by Name (the glyph itself)
type EmojiOption struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Group    string   `json:"group,omitempty" yaml:"group,omitempty"`
}
