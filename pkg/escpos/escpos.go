// Package escpos builds fixed-width receipt documents with ESC/POS control
// sequences for the thermal printers used in agent terminals. It only produces
// bytes; delivering them to the peripheral is the caller's problem.
package escpos

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// LineWidth is the printable character width of the 58mm printers in the fleet.
const LineWidth = 32

// ESC/POS control sequences.
var (
	seqInit    = []byte{0x1B, 0x40}       // ESC @  initialize
	seqBoldOn  = []byte{0x1B, 0x45, 0x01} // ESC E 1
	seqBoldOff = []byte{0x1B, 0x45, 0x00} // ESC E 0
	seqCenter  = []byte{0x1B, 0x61, 0x01} // ESC a 1
	seqLeft    = []byte{0x1B, 0x61, 0x00} // ESC a 0
	seqCut     = []byte{0x1D, 0x56, 0x00} // GS V 0  full cut
)

// Builder accumulates a printable document. The zero value is not usable;
// call NewBuilder so the initialize sequence is emitted first.
type Builder struct {
	buf bytes.Buffer
}

func NewBuilder() *Builder {
	b := &Builder{}
	b.buf.Write(seqInit)
	return b
}

// Line writes a left-aligned line, truncated to the printable width.
func (b *Builder) Line(s string) *Builder {
	b.buf.WriteString(clip(s))
	b.buf.WriteByte('\n')
	return b
}

// CenterLine writes a centered line and restores left alignment.
func (b *Builder) CenterLine(s string) *Builder {
	b.buf.Write(seqCenter)
	b.buf.WriteString(clip(s))
	b.buf.WriteByte('\n')
	b.buf.Write(seqLeft)
	return b
}

// BoldLine writes a left-aligned emphasized line.
func (b *Builder) BoldLine(s string) *Builder {
	b.buf.Write(seqBoldOn)
	b.buf.WriteString(clip(s))
	b.buf.WriteByte('\n')
	b.buf.Write(seqBoldOff)
	return b
}

// Pair writes a label on the left and a value right-aligned on the same line.
// If they do not fit together the value wins and the label is truncated.
func (b *Builder) Pair(label, value string) *Builder {
	pad := LineWidth - width(value)
	if pad < 1 {
		return b.Line(value)
	}
	if width(label) > pad-1 {
		label = truncate(label, pad-1)
	}
	b.buf.WriteString(label)
	b.buf.WriteString(strings.Repeat(" ", pad-width(label)))
	b.buf.WriteString(value)
	b.buf.WriteByte('\n')
	return b
}

// Divider writes a full-width dashed rule.
func (b *Builder) Divider() *Builder {
	return b.Line(strings.Repeat("-", LineWidth))
}

// Feed advances n blank lines.
func (b *Builder) Feed(n int) *Builder {
	for i := 0; i < n; i++ {
		b.buf.WriteByte('\n')
	}
	return b
}

// Cut emits the paper cut sequence.
func (b *Builder) Cut() *Builder {
	b.buf.Write(seqCut)
	return b
}

// Bytes returns the accumulated document.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Width is counted in runes so accented names occupy one printer cell each
// and truncation never splits a UTF-8 sequence.
func width(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, n int) string {
	if width(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func clip(s string) string {
	return truncate(s, LineWidth)
}
