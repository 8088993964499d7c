package format

import "github.com/retroenv/srcgen/internal/program"

// Decoder converts a byte to a printable character of a character encoding.
type Decoder func(b byte) (rune, bool)

// DecoderFor returns the decoder of the character encoding of a sub type.
func DecoderFor(encoding program.FormatSubType) (Decoder, bool) {
	switch encoding {
	case program.SubNone, program.SubAscii:
		return DecodeASCII, true
	case program.SubHighAscii:
		return DecodeHighASCII, true
	case program.SubPetscii:
		return DecodePETSCII, true
	case program.SubScreenCode:
		return DecodeScreenCode, true
	default:
		return nil, false
	}
}

// DecodeASCII decodes printable 7 bit ASCII characters.
func DecodeASCII(b byte) (rune, bool) {
	if b >= 0x20 && b < 0x7f {
		return rune(b), true
	}
	return 0, false
}

// DecodeHighASCII decodes printable ASCII characters with the high bit set.
func DecodeHighASCII(b byte) (rune, bool) {
	if b >= 0xa0 && b < 0xff {
		return rune(b & 0x7f), true
	}
	return 0, false
}

// DecodePETSCII decodes the C64 PETSCII characters that have an ASCII
// equivalent in the lower case character set.
func DecodePETSCII(b byte) (rune, bool) {
	switch {
	case b >= 0x20 && b <= 0x40, b == 0x5b, b == 0x5d:
		return rune(b), true
	case b >= 0x41 && b <= 0x5a:
		return rune(b - 0x41 + 'a'), true
	case b >= 0xc1 && b <= 0xda:
		return rune(b - 0xc1 + 'A'), true
	default:
		return 0, false
	}
}

// DecodeScreenCode decodes the C64 screen codes that have an ASCII
// equivalent in the lower case character set.
func DecodeScreenCode(b byte) (rune, bool) {
	switch {
	case b == 0x00:
		return '@', true
	case b >= 0x01 && b <= 0x1a:
		return rune(b - 0x01 + 'a'), true
	case b == 0x1b:
		return '[', true
	case b == 0x1d:
		return ']', true
	case b >= 0x20 && b <= 0x3f:
		return rune(b), true
	case b >= 0x41 && b <= 0x5a:
		return rune(b - 0x41 + 'A'), true
	default:
		return 0, false
	}
}
