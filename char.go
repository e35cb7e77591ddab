package bincodec

import "io"

// WriteChar encodes a single character. A nil encoding means Default.
// The width of the output depends on the encoding: one byte for a
// single-byte charset, two or four for UTF-16, one to four for UTF-8.
func WriteChar(w io.Writer, c rune, enc *Encoding) (int, error) {
	b, err := enc.encodeRune(c)
	if err != nil {
		return 0, err
	}
	return writeFull(w, b)
}

// ReadChar decodes a single character, consuming only its bytes.
func ReadChar(r io.Reader, enc *Encoding) (rune, error) {
	return enc.readRune(r)
}
