package wave

import (
	"fmt"
	"math/big"
	"strings"
)

// Format selects how multi-bit values are rendered in the Data annotations.
type Format string

// Display formats, matching the single-character convention of the CLI.
const (
	// FormatBinary renders the value zero-padded to the declared width.
	FormatBinary Format = "b"
	// FormatSigned renders a two's-complement signed decimal.
	FormatSigned Format = "d"
	// FormatUnsigned renders an unsigned decimal.
	FormatUnsigned Format = "u"
	// FormatHex renders lower-case hex, zero-padded to ceil(width/4).
	FormatHex Format = "x"
	// FormatHexUpper renders upper-case hex, zero-padded to ceil(width/4).
	FormatHexUpper Format = "X"
)

// DefaultFormat is used when neither the request nor the configuration
// names a format for a signal.
const DefaultFormat = FormatHex

// ParseFormat validates a format character from the CLI or configuration.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatBinary, FormatSigned, FormatUnsigned, FormatHex, FormatHexUpper:
		return f, nil
	case "":
		return DefaultFormat, nil
	default:
		return "", fmt.Errorf("invalid display format %q (want b, d, u, x or X)", s)
	}
}

// Render formats a fully binary bit string (no x or z symbols) of the given
// declared width. Widths above 64 bits are handled via math/big.
func (f Format) Render(bits string, width int) string {
	v := new(big.Int)
	// bits was validated by the walker; SetString cannot fail here.
	v.SetString(bits, 2)

	switch f {
	case FormatBinary:
		return leftPad(v.Text(2), width)
	case FormatSigned:
		// Two's complement: interpret the top bit as the sign.
		if len(bits) > 0 && bits[0] == '1' {
			mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
			v.Sub(v, mod)
		}
		return v.Text(10)
	case FormatUnsigned:
		return v.Text(10)
	case FormatHexUpper:
		return strings.ToUpper(leftPad(v.Text(16), (width+3)/4))
	default: // FormatHex
		return leftPad(v.Text(16), (width+3)/4)
	}
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
