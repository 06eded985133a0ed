package translate

import "fmt"

// Mode selects both the outbound prompt template and the response parser.
type Mode string

const (
	ModeDecode            Mode = "decode"
	ModeDecodeGenZ        Mode = "decode-genz"
	ModeGenerateCorporate Mode = "generate-corporate"
	ModeGenerateGenZ      Mode = "generate-genz"
	ModeGenZToCorporate   Mode = "genz-to-corporate"
	ModeCorporateToGenZ   Mode = "corporate-to-genz"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDecode, ModeDecodeGenZ, ModeGenerateCorporate, ModeGenerateGenZ,
		ModeGenZToCorporate, ModeCorporateToGenZ:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown translation mode %q", s)
}

// Generative reports whether the mode invents a new word rather than
// transforming input text. Empty input is valid only for these modes,
// where it serves as an optional creative seed.
func (m Mode) Generative() bool {
	return m == ModeGenerateCorporate || m == ModeGenerateGenZ
}

// Decoding reports whether the mode translates jargon into plain English.
func (m Mode) Decoding() bool {
	return m == ModeDecode || m == ModeDecodeGenZ
}
