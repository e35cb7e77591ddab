package cmdline

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/oy3o/bincodec"
)

// options carries the string layout flags shared by all kinds.
type options struct {
	encoding *bincodec.Encoding
	prefix   bincodec.LengthPrefix
	width    int
	fill     rune
}

// kind knows how to turn a command-line value into its wire form and back.
type kind struct {
	usage  string
	encode func(w io.Writer, value string, o options) (int, error)
	decode func(r io.Reader, o options) (string, error)
}

var kinds = map[string]kind{
	"int8":    signedKind[int8](8),
	"int16":   signedKind[int16](16),
	"int32":   signedKind[int32](32),
	"int64":   signedKind[int64](64),
	"uint8":   unsignedKind[uint8](8),
	"uint16":  unsignedKind[uint16](16),
	"uint32":  unsignedKind[uint32](32),
	"uint64":  unsignedKind[uint64](64),
	"float32": floatKind[float32](32),
	"float64": floatKind[float64](64),
	"bool": {
		usage: "one byte, 0 or 1",
		encode: func(w io.Writer, value string, _ options) (int, error) {
			v, err := strconv.ParseBool(value)
			if err != nil {
				return 0, err
			}
			return bincodec.Write(w, v)
		},
		decode: func(r io.Reader, _ options) (string, error) {
			v, err := bincodec.Read[bool](r)
			return strconv.FormatBool(v), err
		},
	},
	"char": {
		usage: "a single character in --encoding",
		encode: func(w io.Writer, value string, o options) (int, error) {
			c, size := utf8.DecodeRuneInString(value)
			if size == 0 || size != len(value) {
				return 0, fmt.Errorf("expected exactly one character, got %q", value)
			}
			return bincodec.WriteChar(w, c, o.encoding)
		},
		decode: func(r io.Reader, o options) (string, error) {
			c, err := bincodec.ReadChar(r, o.encoding)
			return string(c), err
		},
	},
	"varint": {
		usage: "7-bit compressed unsigned 32-bit integer",
		encode: func(w io.Writer, value string, _ options) (int, error) {
			v, err := strconv.ParseUint(value, 0, 32)
			if err != nil {
				return 0, err
			}
			return bincodec.WriteCompressedInt(w, uint32(v))
		},
		decode: func(r io.Reader, _ options) (string, error) {
			v, err := bincodec.ReadCompressedInt(r)
			return strconv.FormatUint(uint64(v), 10), err
		},
	},
	"cstring": {
		usage: "compressed character count followed by the characters",
		encode: func(w io.Writer, value string, o options) (int, error) {
			return bincodec.WriteCompressedString(w, value, o.encoding)
		},
		decode: func(r io.Reader, o options) (string, error) {
			return bincodec.ReadCompressedString(r, o.encoding)
		},
	},
	"pstring": {
		usage: "--prefix byte length followed by the bytes",
		encode: func(w io.Writer, value string, o options) (int, error) {
			return bincodec.WritePrefixedString(w, value, o.prefix, o.encoding)
		},
		decode: func(r io.Reader, o options) (string, error) {
			return bincodec.ReadPrefixedString(r, o.prefix, o.encoding)
		},
	},
	"fstring": {
		usage: "--width characters padded with --fill",
		encode: func(w io.Writer, value string, o options) (int, error) {
			return bincodec.WriteFixedString(w, value, o.width, o.stringOptions())
		},
		decode: func(r io.Reader, o options) (string, error) {
			return bincodec.ReadFixedString(r, o.width, o.stringOptions())
		},
	},
	"nstring": {
		usage: "characters followed by a null terminator",
		encode: func(w io.Writer, value string, o options) (int, error) {
			return bincodec.WriteNullTerminatedString(w, value, o.encoding)
		},
		decode: func(r io.Reader, o options) (string, error) {
			return bincodec.ReadNullTerminatedString(r, o.encoding)
		},
	},
}

func (o options) stringOptions() bincodec.StringOptions {
	return bincodec.StringOptions{Encoding: o.encoding, Fill: o.fill}
}

func signedKind[T int8 | int16 | int32 | int64](bits int) kind {
	return kind{
		usage: fmt.Sprintf("%d-bit signed integer, little-endian", bits),
		encode: func(w io.Writer, value string, _ options) (int, error) {
			v, err := strconv.ParseInt(value, 0, bits)
			if err != nil {
				return 0, err
			}
			return bincodec.Write(w, T(v))
		},
		decode: func(r io.Reader, _ options) (string, error) {
			v, err := bincodec.Read[T](r)
			return strconv.FormatInt(int64(v), 10), err
		},
	}
}

func unsignedKind[T uint8 | uint16 | uint32 | uint64](bits int) kind {
	return kind{
		usage: fmt.Sprintf("%d-bit unsigned integer, little-endian", bits),
		encode: func(w io.Writer, value string, _ options) (int, error) {
			v, err := strconv.ParseUint(value, 0, bits)
			if err != nil {
				return 0, err
			}
			return bincodec.Write(w, T(v))
		},
		decode: func(r io.Reader, _ options) (string, error) {
			v, err := bincodec.Read[T](r)
			return strconv.FormatUint(uint64(v), 10), err
		},
	}
}

func floatKind[T float32 | float64](bits int) kind {
	return kind{
		usage: fmt.Sprintf("%d-bit IEEE 754 float, little-endian", bits),
		encode: func(w io.Writer, value string, _ options) (int, error) {
			v, err := strconv.ParseFloat(value, bits)
			if err != nil {
				return 0, err
			}
			return bincodec.Write(w, T(v))
		},
		decode: func(r io.Reader, _ options) (string, error) {
			v, err := bincodec.Read[T](r)
			return strconv.FormatFloat(float64(v), 'g', -1, bits), err
		},
	}
}

func kindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
