// Package cmdline implements the bincodec command: encoding single values to
// hex and decoding hex back to values, for inspecting binary files by hand.
package cmdline

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/oy3o/bincodec"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const loggerKey = "logger"

// layoutFlags returns the flags shared by encode and decode.
func layoutFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "encoding",
			Aliases: []string{"e"},
			Usage:   "IANA name of the text encoding for chars and strings",
			Value:   bincodec.Default.Name(),
			EnvVars: []string{"BINCODEC_ENCODING"},
		},
		&cli.UintFlag{
			Name:    "prefix",
			Aliases: []string{"p"},
			Usage:   "Length prefix width in bytes for pstring (1, 2 or 4)",
			Value:   uint(bincodec.PrefixTwo),
			EnvVars: []string{"BINCODEC_PREFIX"},
		},
		&cli.IntFlag{
			Name:    "width",
			Aliases: []string{"w"},
			Usage:   "Width in characters for fstring",
		},
		&cli.StringFlag{
			Name:  "fill",
			Usage: "Padding character for fstring",
			Value: " ",
		},
	}
}

// New creates the bincodec instance of [cli.App].
func New() *cli.App {
	ctl := cli.NewApp()
	ctl.Name = "bincodec"
	ctl.Usage = "Encode and decode values in the bincodec wire format"
	ctl.ErrWriter = os.Stderr
	ctl.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Minimum log level (debug, info, warn, error)",
			EnvVars: []string{"BINCODEC_LOG_LEVEL"},
		},
	}
	ctl.Before = func(c *cli.Context) error {
		log, err := newLogger(c.String("log-level"), c.Bool("debug"))
		if err != nil {
			return cli.Exit(err, 1)
		}
		c.App.Metadata = map[string]any{loggerKey: log}
		return nil
	}
	ctl.After = func(c *cli.Context) error {
		_ = logger(c).Sync()
		return nil
	}
	ctl.Commands = []*cli.Command{
		{
			Name:      "encode",
			Usage:     "Encode a value and print it as hex",
			UsageText: "encode [--encoding <name>] [--prefix <1|2|4>] [--width <n>] [--fill <c>] <kind> <value>",
			Action:    encodeAction,
			Flags:     layoutFlags(),
		},
		{
			Name:      "decode",
			Usage:     "Decode a hex string and print the value",
			UsageText: "decode [--encoding <name>] [--prefix <1|2|4>] [--width <n>] [--fill <c>] <kind> <hex>",
			Action:    decodeAction,
			Flags:     layoutFlags(),
		},
		{
			Name:   "kinds",
			Usage:  "List supported value kinds",
			Action: kindsAction,
		},
	}
	return ctl
}

func logger(c *cli.Context) *zap.Logger {
	if log, ok := c.App.Metadata[loggerKey].(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// parseArgs resolves the kind and the shared flags.
func parseArgs(c *cli.Context) (kind, string, options, error) {
	if c.NArg() != 2 {
		return kind{}, "", options{}, cli.Exit(fmt.Errorf("expected <kind> and a value, got %d arguments", c.NArg()), 1)
	}
	name := c.Args().Get(0)
	k, ok := kinds[name]
	if !ok {
		return kind{}, "", options{}, cli.Exit(fmt.Errorf("unknown kind %q, see `bincodec kinds`", name), 1)
	}

	enc, err := bincodec.LookupEncoding(c.String("encoding"))
	if err != nil {
		return kind{}, "", options{}, cli.Exit(err, 1)
	}
	fill, size := utf8.DecodeRuneInString(c.String("fill"))
	if size == 0 || size != len(c.String("fill")) {
		return kind{}, "", options{}, cli.Exit(fmt.Errorf("fill must be a single character, got %q", c.String("fill")), 1)
	}
	prefix := c.Uint("prefix")
	if prefix > 0xFF {
		return kind{}, "", options{}, cli.Exit(fmt.Errorf("%w: %d", bincodec.ErrInvalidPrefix, prefix), 1)
	}
	return k, c.Args().Get(1), options{
		encoding: enc,
		prefix:   bincodec.LengthPrefix(prefix),
		width:    c.Int("width"),
		fill:     fill,
	}, nil
}

func encodeAction(c *cli.Context) error {
	k, value, o, err := parseArgs(c)
	if err != nil {
		return err
	}
	buf := bincodec.NewBuffer(nil)
	n, err := k.encode(buf, value, o)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to encode %s: %w", c.Args().Get(0), err), 1)
	}
	logger(c).Debug("encoded value",
		zap.String("kind", c.Args().Get(0)),
		zap.Stringer("encoding", o.encoding),
		zap.Int("bytes", n))
	_, _ = fmt.Fprintln(c.App.Writer, hex.EncodeToString(buf.Bytes()))
	return nil
}

func decodeAction(c *cli.Context) error {
	k, value, o, err := parseArgs(c)
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(strings.Join(strings.Fields(value), ""))
	if err != nil {
		return cli.Exit(fmt.Errorf("invalid hex input: %w", err), 1)
	}
	buf := bincodec.NewBuffer(data)
	out, err := k.decode(buf, o)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to decode %s: %w", c.Args().Get(0), err), 1)
	}
	if rest := buf.Available(); rest > 0 {
		logger(c).Warn("trailing bytes after value",
			zap.String("kind", c.Args().Get(0)),
			zap.Int("consumed", buf.Pos()),
			zap.Int("trailing", rest))
	}
	_, _ = fmt.Fprintln(c.App.Writer, out)
	return nil
}

func kindsAction(c *cli.Context) error {
	for _, name := range kindNames() {
		_, _ = fmt.Fprintf(c.App.Writer, "%-8s %s\n", name, kinds[name].usage)
	}
	return nil
}
