package format

import (
	"strings"
)

// RawHexStyle defines how bytes without character representation are
// embedded in a string operand.
type RawHexStyle uint8

// raw hex styles.
const (
	RawHexPrefixed RawHexStyle = iota // $0d
	RawHexBare                        // 0D
)

// StringConfig configures a string operand converter.
type StringConfig struct {
	Delimiter rune
	Escape    rune // escapes the delimiter and itself inside of a string, 0 if not supported
	Decoder   Decoder
	RawHex    RawHexStyle
}

// StringOp converts runs of bytes to quoted string operands.
type StringOp struct {
	f          *Formatter
	cfg        StringConfig
	maxLen     int
	hasEscaped bool
}

// NewStringOp returns a string operand converter.
func NewStringOp(f *Formatter, cfg StringConfig) *StringOp {
	if cfg.Decoder == nil {
		cfg.Decoder = DecodeASCII
	}
	return &StringOp{
		f:      f,
		cfg:    cfg,
		maxLen: f.OperandWrapLen(),
	}
}

// HasEscapedText returns whether the last conversion had to embed bytes as
// raw hex values.
func (s *StringOp) HasEscapedText() bool {
	return s.hasEscaped
}

// Convert converts the data to operand lines that do not exceed the
// operand wrap length. Bytes without character representation are
// embedded as hex values.
func (s *StringOp) Convert(data []byte) []string {
	s.hasEscaped = false

	var lines []string
	var line strings.Builder
	inQuote := false

	flushLine := func() {
		if inQuote {
			line.WriteRune(s.cfg.Delimiter)
			inQuote = false
		}
		lines = append(lines, line.String())
		line.Reset()
	}

	for _, b := range data {
		text, ok := s.character(b)
		if ok {
			need := len(text) + 1 // closing delimiter
			if !inQuote {
				need++
				if line.Len() > 0 {
					need++
				}
			}
			if line.Len() > 0 && line.Len()+need > s.maxLen {
				flushLine()
			}
			if !inQuote {
				if line.Len() > 0 {
					line.WriteByte(',')
				}
				line.WriteRune(s.cfg.Delimiter)
				inQuote = true
			}
			line.WriteString(text)
			continue
		}

		s.hasEscaped = true
		hex := s.rawHex(b)
		need := len(hex)
		if line.Len() > 0 {
			need++
		}
		if inQuote {
			need++
		}
		if line.Len() > 0 && line.Len()+need > s.maxLen {
			flushLine()
		}
		if inQuote {
			line.WriteRune(s.cfg.Delimiter)
			inQuote = false
		}
		if line.Len() > 0 {
			line.WriteByte(',')
		}
		line.WriteString(hex)
	}

	if line.Len() > 0 {
		flushLine()
	}
	return lines
}

// ConvertReverse converts the data to operand lines for a directive that
// stores the characters of every line in reverse order. If any byte has no
// character representation, HasEscapedText returns true and no lines are
// returned, as raw hex values can not be embedded in reversed strings.
func (s *StringOp) ConvertReverse(data []byte) []string {
	s.hasEscaped = false

	texts := make([]string, 0, len(data))
	for _, b := range data {
		text, ok := s.character(b)
		if !ok {
			s.hasEscaped = true
			return nil
		}
		texts = append(texts, text)
	}

	var lines []string
	for start := 0; start < len(texts); {
		end := start
		length := 2 // delimiters
		for end < len(texts) && (end == start || length+len(texts[end]) <= s.maxLen) {
			length += len(texts[end])
			end++
		}

		var line strings.Builder
		line.WriteRune(s.cfg.Delimiter)
		for i := end - 1; i >= start; i-- {
			line.WriteString(texts[i])
		}
		line.WriteRune(s.cfg.Delimiter)
		lines = append(lines, line.String())
		start = end
	}
	return lines
}

// character returns the quoted representation of a byte.
func (s *StringOp) character(b byte) (string, bool) {
	r, ok := s.cfg.Decoder(b)
	if !ok {
		return "", false
	}
	if r == s.cfg.Delimiter || (s.cfg.Escape != 0 && r == s.cfg.Escape) {
		if s.cfg.Escape == 0 {
			return "", false
		}
		return string(s.cfg.Escape) + string(r), true
	}
	return string(r), true
}

func (s *StringOp) rawHex(b byte) string {
	if s.cfg.RawHex == RawHexBare {
		return strings.ToUpper(s.f.FormatDenseHex([]byte{b}))
	}
	return s.f.FormatHexValue(int(b), 2)
}
