package bincodec

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// framing describes how many bytes make up one character.
type framing uint8

const (
	singleByte framing = iota
	utf8Framing
	utf16Framing
)

// Encoding is a text encoding the codec can read one character at a time.
// It wraps an x/text encoding with its framing rules.
type Encoding struct {
	name    string
	enc     encoding.Encoding
	framing framing
	order   binary.ByteOrder // UTF-16 only
}

var (
	// Default stands in for the platform ANSI code page.
	Default = &Encoding{name: "windows-1252", enc: charmap.Windows1252, framing: singleByte}
	Latin1  = &Encoding{name: "ISO-8859-1", enc: charmap.ISO8859_1, framing: singleByte}
	UTF8    = &Encoding{name: "UTF-8", enc: unicode.UTF8, framing: utf8Framing}
	UTF16LE = &Encoding{
		name:    "UTF-16LE",
		enc:     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		framing: utf16Framing,
		order:   binary.LittleEndian,
	}
	UTF16BE = &Encoding{
		name:    "UTF-16BE",
		enc:     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
		framing: utf16Framing,
		order:   binary.BigEndian,
	}
)

// encodingCache maps lower-cased names to resolved encodings.
var encodingCache = xsync.NewMap[string, *Encoding]()

func init() {
	for _, e := range []*Encoding{Default, Latin1, UTF8, UTF16LE, UTF16BE} {
		encodingCache.Store(strings.ToLower(e.name), e)
	}
}

// LookupEncoding resolves an IANA charset name or alias such as "utf-8",
// "latin1" or "ibm437". Only encodings whose characters can be framed without
// lookahead are supported: single-byte charsets, UTF-8, UTF-16LE and UTF-16BE.
func LookupEncoding(name string) (*Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := encodingCache.Load(key); ok {
		return e, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}

	e := &Encoding{name: canonical, enc: enc}
	switch {
	case canonical == "UTF-8":
		e.framing = utf8Framing
	case canonical == "UTF-16LE":
		e.framing, e.order = utf16Framing, binary.LittleEndian
	case canonical == "UTF-16BE":
		e.framing, e.order = utf16Framing, binary.BigEndian
	case canonical == "US-ASCII":
		e.framing = singleByte
	default:
		if _, ok := enc.(*charmap.Charmap); !ok {
			return nil, fmt.Errorf("%w: %q cannot be read character by character", ErrUnknownEncoding, name)
		}
		e.framing = singleByte
	}

	actual, _ := encodingCache.LoadOrStore(key, e)
	return actual, nil
}

// encodingOf substitutes Default for nil.
func encodingOf(e *Encoding) *Encoding {
	if e == nil {
		return Default
	}
	return e
}

// Name returns the canonical charset name.
func (e *Encoding) Name() string { return encodingOf(e).name }

func (e *Encoding) String() string { return e.Name() }

// Encode converts s to the encoding's byte representation.
func (e *Encoding) Encode(s string) ([]byte, error) {
	e = encodingOf(e)
	if s == "" {
		return []byte{}, nil
	}
	if e.framing == utf8Framing && utf8.ValidString(s) {
		return []byte(s), nil
	}
	b, err := e.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnencodable, e.name, err)
	}
	return b, nil
}

// Decode converts bytes in this encoding to a Go string.
func (e *Encoding) Decode(b []byte) (string, error) {
	e = encodingOf(e)
	if len(b) == 0 {
		return "", nil
	}
	if e.framing == utf8Framing {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
	}
	if cm, ok := e.enc.(*charmap.Charmap); ok {
		var sb strings.Builder
		sb.Grow(len(b))
		for _, c := range b {
			sb.WriteRune(cm.DecodeByte(c))
		}
		return sb.String(), nil
	}
	out, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformedText, e.name, err)
	}
	return string(out), nil
}

// EncodedLen returns the number of bytes s occupies in this encoding.
func (e *Encoding) EncodedLen(s string) (int, error) {
	b, err := e.Encode(s)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// encodeRune encodes a single character.
func (e *Encoding) encodeRune(c rune) ([]byte, error) {
	e = encodingOf(e)
	if cm, ok := e.enc.(*charmap.Charmap); ok {
		b, ok := cm.EncodeRune(c)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %U", ErrUnencodable, e.name, c)
		}
		return []byte{b}, nil
	}
	if !utf8.ValidRune(c) {
		return nil, fmt.Errorf("%w: %s: %U", ErrUnencodable, e.name, c)
	}
	return e.Encode(string(c))
}

// readRune consumes exactly the bytes of one character.
func (e *Encoding) readRune(r io.Reader) (rune, error) {
	cr := e.newCharReader(r)
	c, err := cr.readRune()
	if err != nil {
		return 0, err
	}
	return c, cr.release()
}

// charReader frames consecutive characters of one encoding. A UTF-8
// sequence cut short by a byte that is not a continuation byte decodes to
// utf8.RuneError, and that byte is held as the lead of the next character.
type charReader struct {
	enc  *Encoding
	r    io.Reader
	next byte
	held bool
}

func (e *Encoding) newCharReader(r io.Reader) *charReader {
	return &charReader{enc: encodingOf(e), r: r}
}

func (cr *charReader) readByte() (byte, error) {
	if cr.held {
		cr.held = false
		return cr.next, nil
	}
	b, err := readByte(cr.r)
	if err != nil {
		return 0, endOfStream(err)
	}
	return b, nil
}

// release gives a held byte back to the source. Sources that cannot take
// it back lose the next character's lead byte, which is reported as
// malformed text.
func (cr *charReader) release() error {
	if !cr.held {
		return nil
	}
	if s, ok := cr.r.(io.ByteScanner); ok && s.UnreadByte() == nil {
		cr.held = false
		return nil
	}
	return fmt.Errorf("%w: %s: truncated sequence before %#02x", ErrMalformedText, cr.enc.name, cr.next)
}

func (cr *charReader) readRune() (rune, error) {
	e := cr.enc
	switch e.framing {
	case singleByte:
		b, err := cr.readByte()
		if err != nil {
			return 0, err
		}
		if cm, ok := e.enc.(*charmap.Charmap); ok {
			return cm.DecodeByte(b), nil
		}
		return e.decodeRune([]byte{b})

	case utf8Framing:
		lead, err := cr.readByte()
		if err != nil {
			return 0, err
		}
		var buf [utf8.UTFMax]byte
		buf[0] = lead
		n := utf8SequenceLen(lead)
		for i := 1; i < n; i++ {
			b, err := cr.readByte()
			if err != nil {
				return 0, err
			}
			if b&0xC0 != 0x80 {
				cr.next, cr.held = b, true
				return utf8.RuneError, nil
			}
			buf[i] = b
		}
		c, _ := utf8.DecodeRune(buf[:n])
		return c, nil

	case utf16Framing:
		var buf [4]byte
		if _, err := io.ReadFull(cr.r, buf[:2]); err != nil {
			return 0, endOfStream(err)
		}
		u1 := rune(e.order.Uint16(buf[:2]))
		if !utf16.IsSurrogate(u1) {
			return u1, nil
		}
		if u1 >= 0xDC00 {
			return 0, fmt.Errorf("%w: unpaired low surrogate %#04x", ErrMalformedText, u1)
		}
		if _, err := io.ReadFull(cr.r, buf[2:4]); err != nil {
			return 0, endOfStream(err)
		}
		c := utf16.DecodeRune(u1, rune(e.order.Uint16(buf[2:4])))
		if c == utf8.RuneError {
			return 0, fmt.Errorf("%w: unpaired high surrogate %#04x", ErrMalformedText, u1)
		}
		return c, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEncoding, e.name)
}

func (e *Encoding) decodeRune(b []byte) (rune, error) {
	s, err := e.Decode(b)
	if err != nil {
		return 0, err
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, nil
}

// utf8SequenceLen reports the byte length announced by a UTF-8 lead byte.
// Invalid lead bytes and stray continuation bytes frame a single byte,
// which decodes to utf8.RuneError.
func utf8SequenceLen(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	}
	return 1
}
