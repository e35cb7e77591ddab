package bincodec

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// MaxStringLength bounds the character count accepted from a compressed
// string prefix.
const MaxStringLength = math.MaxInt32

// LengthPrefix selects the width of a length-prefixed string header.
type LengthPrefix uint8

const (
	PrefixOne  LengthPrefix = 1
	PrefixTwo  LengthPrefix = 2
	PrefixFour LengthPrefix = 4
)

// Valid reports whether p is one of the defined widths.
func (p LengthPrefix) Valid() bool {
	switch p {
	case PrefixOne, PrefixTwo, PrefixFour:
		return true
	}
	return false
}

// Max returns the largest byte length the prefix can express.
func (p LengthPrefix) Max() int64 {
	switch p {
	case PrefixOne:
		return math.MaxUint8
	case PrefixTwo:
		return math.MaxUint16
	case PrefixFour:
		return math.MaxUint32
	}
	return 0
}

func (p LengthPrefix) String() string {
	switch p {
	case PrefixOne:
		return "One"
	case PrefixTwo:
		return "Two"
	case PrefixFour:
		return "Four"
	}
	return fmt.Sprintf("LengthPrefix(%d)", uint8(p))
}

// StringOptions configures fixed-width strings.
// The zero value pads with NUL in the Default encoding; use
// DefaultStringOptions for space padding.
type StringOptions struct {
	Encoding *Encoding
	Fill     rune
}

// DefaultStringOptions pads with spaces in the Default encoding.
func DefaultStringOptions() StringOptions {
	return StringOptions{Encoding: Default, Fill: ' '}
}

// --- Compressed strings ---

// WriteCompressedString writes the character count as a compressed integer
// followed by the encoded characters.
func WriteCompressedString(w io.Writer, s string, enc *Encoding) (int, error) {
	count := utf8.RuneCountInString(s)
	if count > MaxStringLength {
		return 0, fmt.Errorf("%w: %d characters", ErrPrefixOverflow, count)
	}
	b, err := enc.Encode(s)
	if err != nil {
		return 0, err
	}
	n, err := WriteCompressedInt(w, uint32(count))
	if err != nil {
		return n, err
	}
	m, err := writeFull(w, b)
	return n + m, err
}

// ReadCompressedString reads a string written by WriteCompressedString.
func ReadCompressedString(r io.Reader, enc *Encoding) (string, error) {
	count, err := ReadCompressedInt(r)
	if err != nil {
		return "", err
	}
	if count > MaxStringLength {
		return "", fmt.Errorf("%w: character count %d", ErrMalformedVarint, count)
	}
	return readChars(r, int(count), enc)
}

// --- Length-prefixed strings ---

// WritePrefixedString writes the encoded byte length as a little-endian
// integer of the given width, then the encoded bytes. Nothing is written
// when the prefix is invalid or too narrow for the string.
func WritePrefixedString(w io.Writer, s string, prefix LengthPrefix, enc *Encoding) (int, error) {
	if !prefix.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPrefix, prefix)
	}
	b, err := enc.Encode(s)
	if err != nil {
		return 0, err
	}
	if int64(len(b)) > prefix.Max() {
		return 0, fmt.Errorf("%w: %d bytes exceed %s-byte prefix", ErrPrefixOverflow, len(b), prefix)
	}

	var n int
	switch prefix {
	case PrefixOne:
		n, err = Write(w, uint8(len(b)))
	case PrefixTwo:
		n, err = Write(w, uint16(len(b)))
	case PrefixFour:
		n, err = Write(w, uint32(len(b)))
	}
	if err != nil {
		return n, err
	}
	m, err := writeFull(w, b)
	return n + m, err
}

// ReadPrefixedString reads a string written by WritePrefixedString.
func ReadPrefixedString(r io.Reader, prefix LengthPrefix, enc *Encoding) (string, error) {
	var (
		size int
		err  error
	)
	switch prefix {
	case PrefixOne:
		var v uint8
		v, err = Read[uint8](r)
		size = int(v)
	case PrefixTwo:
		var v uint16
		v, err = Read[uint16](r)
		size = int(v)
	case PrefixFour:
		var v uint32
		v, err = Read[uint32](r)
		size = int(v)
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPrefix, prefix)
	}
	if err != nil {
		return "", err
	}
	b, err := ReadBytes(r, size)
	if err != nil {
		return "", err
	}
	return enc.Decode(b)
}

// --- Fixed-width strings ---

// WriteFixedString pads s on the right with opts.Fill, or truncates it, to
// exactly length characters and writes the encoded result.
func WriteFixedString(w io.Writer, s string, length int, opts StringOptions) (int, error) {
	if length < 0 {
		return 0, fmt.Errorf("%w: length %d", ErrNegativeCount, length)
	}
	b, err := opts.Encoding.Encode(fitString(s, length, opts.Fill))
	if err != nil {
		return 0, err
	}
	return writeFull(w, b)
}

// ReadFixedString reads exactly length characters and strips trailing
// opts.Fill characters.
func ReadFixedString(r io.Reader, length int, opts StringOptions) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("%w: length %d", ErrNegativeCount, length)
	}
	s, err := readChars(r, length, opts.Encoding)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, string(opts.Fill)), nil
}

// fitString truncates or right-pads s to exactly length characters.
func fitString(s string, length int, fill rune) string {
	count := 0
	for i := range s {
		if count == length {
			return s[:i]
		}
		count++
	}
	if count == length {
		return s
	}
	return s + strings.Repeat(string(fill), length-count)
}

// --- Null-terminated strings ---

// WriteNullTerminatedString writes the encoded characters followed by one
// encoded NUL. The empty string produces a lone terminator.
func WriteNullTerminatedString(w io.Writer, s string, enc *Encoding) (int, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return 0, ErrEmbeddedNull
	}
	b, err := enc.Encode(s + "\x00")
	if err != nil {
		return 0, err
	}
	return writeFull(w, b)
}

// ReadNullTerminatedString reads characters up to and including the first
// NUL. A stream that ends first yields ErrEndOfStream.
func ReadNullTerminatedString(r io.Reader, enc *Encoding) (string, error) {
	cr := enc.newCharReader(r)
	var sb strings.Builder
	for {
		c, err := cr.readRune()
		if err != nil {
			return "", err
		}
		if c == 0 {
			return sb.String(), nil
		}
		sb.WriteRune(c)
	}
}

// readChars decodes exactly count characters.
func readChars(r io.Reader, count int, enc *Encoding) (string, error) {
	if count == 0 {
		return "", nil
	}
	cr := enc.newCharReader(r)
	var sb strings.Builder
	sb.Grow(min(count, BUFFER_SIZE))
	for i := 0; i < count; i++ {
		c, err := cr.readRune()
		if err != nil {
			return "", err
		}
		sb.WriteRune(c)
	}
	if err := cr.release(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
