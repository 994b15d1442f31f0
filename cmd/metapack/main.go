// metapack converts between JSON/YAML documents and metapack buffers, and
// prints the metadata tree of a buffer.
//
// Usage:
//
//	metapack encode [flags] [input]   JSON or YAML document -> metapack
//	metapack decode [flags] [input]   metapack -> JSON or YAML document
//	metapack inspect [flags] [input]  metapack -> entry tree
//
// Input defaults to stdin and output to stdout. Settings come from an optional
// TOML file (--config) and are overridden by flags.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/arloliu/metapack/codec"
)

const stdio = "-"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "metapack: %v\n", err)
		os.Exit(1)
	}
}

type invocation struct {
	command string
	input   string
	output  string
	cfg     config
	log     zerolog.Logger
	stdin   io.Reader
	stdout  io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr, nil)
		return errors.New("missing command")
	}

	command := args[0]
	switch command {
	case "encode", "decode", "inspect":
	case "help", "-h", "--help":
		printUsage(stdout, nil)
		return nil
	default:
		printUsage(stderr, nil)
		return fmt.Errorf("unknown command %q", command)
	}

	var (
		configPath   string
		format       string
		logLevel     string
		maxDepth     int
		maxInputSize int
	)

	inv := invocation{command: command, stdin: stdin, stdout: stdout}

	flagSet := pflag.NewFlagSet("metapack "+command, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	flagSet.StringVarP(&inv.input, "input", "i", stdio, "input file, - for stdin")
	flagSet.StringVarP(&inv.output, "output", "o", stdio, "output file, - for stdout")
	flagSet.StringVarP(&format, "format", "f", "", "document format: json or yaml")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.IntVar(&maxDepth, "max-depth", 0, "maximum container nesting depth, 0 for unlimited")
	flagSet.IntVar(&maxInputSize, "max-input-size", 0, "maximum decode input in bytes, 0 for unlimited")

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stdout, flagSet)
			return nil
		}

		return err
	}

	switch rest := flagSet.Args(); len(rest) {
	case 0:
	case 1:
		if flagSet.Changed("input") {
			return errors.New("input given both as argument and --input")
		}
		inv.input = rest[0]
	default:
		return fmt.Errorf("unexpected argument: %s", rest[1])
	}

	cfg := defaultConfig()
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if flagSet.Changed("format") {
		f, err := parseFormat(format)
		if err != nil {
			return err
		}
		cfg.Format = f
	}
	if flagSet.Changed("log-level") {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("parse --log-level: %w", err)
		}
		cfg.LogLevel = level
	}
	if flagSet.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flagSet.Changed("max-input-size") {
		cfg.MaxInputSize = maxInputSize
	}

	inv.cfg = cfg
	inv.log = newLogger(stderr, cfg.LogLevel)

	return inv.execute()
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "metapack").Logger()
}

func (inv *invocation) options() []codec.Option {
	return []codec.Option{
		codec.WithMaxDepth(inv.cfg.MaxDepth),
		codec.WithMaxInputSize(inv.cfg.MaxInputSize),
	}
}

func (inv *invocation) execute() error {
	data, err := inv.readInput()
	if err != nil {
		return err
	}
	inv.log.Debug().Str("command", inv.command).Str("input", inv.input).Int("bytes", len(data)).Msg("read input")

	var out []byte
	switch inv.command {
	case "encode":
		out, err = inv.encode(data)
	case "decode":
		out, err = inv.decode(data)
	default:
		out, err = inv.inspect(data)
	}
	if err != nil {
		inv.log.Error().Err(err).Str("command", inv.command).Msg("command failed")
		return err
	}

	if err := inv.writeOutput(out); err != nil {
		return err
	}
	inv.log.Info().Str("command", inv.command).Int("in", len(data)).Int("out", len(out)).Msg("done")

	return nil
}

func (inv *invocation) encode(data []byte) ([]byte, error) {
	doc, err := parseDocument(data, inv.cfg.Format)
	if err != nil {
		return nil, err
	}

	return codec.Encode(doc, inv.options()...)
}

func (inv *invocation) decode(data []byte) ([]byte, error) {
	v, err := codec.DecodeDynamic(data, inv.options()...)
	if err != nil {
		return nil, err
	}

	return inv.render(plain(v))
}

func (inv *invocation) inspect(data []byte) ([]byte, error) {
	root, err := codec.Inspect(data, inv.options()...)
	if err != nil {
		return nil, err
	}

	return inv.render(root)
}

func (inv *invocation) render(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocument(&buf, v, inv.cfg.Format); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (inv *invocation) readInput() ([]byte, error) {
	if inv.input == stdio {
		data, err := io.ReadAll(inv.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(inv.input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return data, nil
}

func (inv *invocation) writeOutput(data []byte) error {
	if inv.output == stdio {
		_, err := inv.stdout.Write(data)
		return err
	}

	if err := os.WriteFile(inv.output, data, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `metapack converts between documents and metapack buffers.

Usage:
  metapack encode [flags] [input]   JSON or YAML document to metapack
  metapack decode [flags] [input]   metapack to JSON or YAML document
  metapack inspect [flags] [input]  metapack entry tree as JSON or YAML

Examples:
  echo '{"id": 1, "tags": ["a"]}' | metapack encode > doc.mp
  metapack decode --format yaml doc.mp
  metapack inspect --max-depth 8 doc.mp
`)
	if flagSet != nil {
		fmt.Fprintln(w, "\nFlags:")
		flagSet.SetOutput(w)
		flagSet.PrintDefaults()
	}
}
