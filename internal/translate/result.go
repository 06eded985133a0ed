package translate

// Result is the structured outcome of one translation. The populated fields
// depend on the mode: decode and cross-translation modes fill Original and
// Translation (cross modes also Meaning), generation modes fill Word,
// Meaning and Example.
type Result struct {
	Mode        Mode   `json:"mode"`
	Original    string `json:"original,omitempty"`
	Translation string `json:"translation,omitempty"`
	Word        string `json:"word,omitempty"`
	Meaning     string `json:"meaning,omitempty"`
	Example     string `json:"example,omitempty"`
}
