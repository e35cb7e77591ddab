package bincodec

import (
	"io"
	"unicode/utf8"
)

// The string field types below wrap the stream functions as Codec values so
// they can be composed into a Record. Size reports the encoded size of the
// current Value, or 0 when the value cannot be encoded.

// CompressedString is a Codec for a compressed string.
type CompressedString struct {
	Value    string
	Encoding *Encoding
}

// PrefixedString is a Codec for a length-prefixed string.
type PrefixedString struct {
	Value    string
	Prefix   LengthPrefix
	Encoding *Encoding
}

// FixedString is a Codec for a fixed-width string of Length characters.
type FixedString struct {
	Value   string
	Length  int
	Options StringOptions
}

// NullString is a Codec for a null-terminated string.
type NullString struct {
	Value    string
	Encoding *Encoding
}

var (
	_ Codec = (*CompressedString)(nil)
	_ Codec = (*PrefixedString)(nil)
	_ Codec = (*FixedString)(nil)
	_ Codec = (*NullString)(nil)
)

func (s *CompressedString) Size() int {
	n, err := s.Encoding.EncodedLen(s.Value)
	if err != nil {
		return 0
	}
	return CompressedIntSize(uint32(utf8.RuneCountInString(s.Value))) + n
}

func (s *CompressedString) WriteTo(w io.Writer) (int64, error) {
	n, err := WriteCompressedString(w, s.Value, s.Encoding)
	return int64(n), err
}

func (s *CompressedString) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	v, err := ReadCompressedString(cr, s.Encoding)
	if err != nil {
		return cr.n, err
	}
	s.Value = v
	return cr.n, nil
}

func (s *PrefixedString) Size() int {
	n, err := s.Encoding.EncodedLen(s.Value)
	if err != nil || !s.Prefix.Valid() {
		return 0
	}
	return int(s.Prefix) + n
}

func (s *PrefixedString) WriteTo(w io.Writer) (int64, error) {
	n, err := WritePrefixedString(w, s.Value, s.Prefix, s.Encoding)
	return int64(n), err
}

func (s *PrefixedString) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	v, err := ReadPrefixedString(cr, s.Prefix, s.Encoding)
	if err != nil {
		return cr.n, err
	}
	s.Value = v
	return cr.n, nil
}

func (s *FixedString) Size() int {
	if s.Length < 0 {
		return 0
	}
	n, err := s.Options.Encoding.EncodedLen(fitString(s.Value, s.Length, s.Options.Fill))
	if err != nil {
		return 0
	}
	return n
}

func (s *FixedString) WriteTo(w io.Writer) (int64, error) {
	n, err := WriteFixedString(w, s.Value, s.Length, s.Options)
	return int64(n), err
}

func (s *FixedString) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	v, err := ReadFixedString(cr, s.Length, s.Options)
	if err != nil {
		return cr.n, err
	}
	s.Value = v
	return cr.n, nil
}

func (s *NullString) Size() int {
	n, err := s.Encoding.EncodedLen(s.Value + "\x00")
	if err != nil {
		return 0
	}
	return n
}

func (s *NullString) WriteTo(w io.Writer) (int64, error) {
	n, err := WriteNullTerminatedString(w, s.Value, s.Encoding)
	return int64(n), err
}

func (s *NullString) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	v, err := ReadNullTerminatedString(cr, s.Encoding)
	if err != nil {
		return cr.n, err
	}
	s.Value = v
	return cr.n, nil
}

// --- Boilerplate implementations ---

func (s *CompressedString) MarshalBinary() ([]byte, error)    { return MarshalBinaryGeneric(s) }
func (s *CompressedString) UnmarshalBinary(data []byte) error { return UnmarshalBinaryGeneric(s, data) }
func (s *CompressedString) MarshalTo(buf []byte) (int, error) { return MarshalToGeneric(s, buf) }
func (s *PrefixedString) MarshalBinary() ([]byte, error)      { return MarshalBinaryGeneric(s) }
func (s *PrefixedString) UnmarshalBinary(data []byte) error   { return UnmarshalBinaryGeneric(s, data) }
func (s *PrefixedString) MarshalTo(buf []byte) (int, error)   { return MarshalToGeneric(s, buf) }
func (s *FixedString) MarshalBinary() ([]byte, error)         { return MarshalBinaryGeneric(s) }
func (s *FixedString) UnmarshalBinary(data []byte) error      { return UnmarshalBinaryGeneric(s, data) }
func (s *FixedString) MarshalTo(buf []byte) (int, error)      { return MarshalToGeneric(s, buf) }
func (s *NullString) MarshalBinary() ([]byte, error)          { return MarshalBinaryGeneric(s) }
func (s *NullString) UnmarshalBinary(data []byte) error       { return UnmarshalBinaryGeneric(s, data) }
func (s *NullString) MarshalTo(buf []byte) (int, error)       { return MarshalToGeneric(s, buf) }
