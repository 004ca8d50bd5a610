// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/wirebridge/msgpack/cmd/msgpack/cli"
	"github.com/wirebridge/msgpack/lib/config"
	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/highlight"
	"github.com/wirebridge/msgpack/lib/jsonstream"
	"github.com/wirebridge/msgpack/lib/version"
	"github.com/wirebridge/msgpack/lib/wrap"
)

// defaultIndent is used by --pretty when the configuration sets none.
const defaultIndent = "  "

type params struct {
	ToJSON     bool   `flag:"to-json,j" desc:"convert binary input to JSON"`
	ToMsgpack  bool   `flag:"to-msgpack,m" desc:"convert JSON input to binary"`
	CBOR       bool   `flag:"cbor" desc:"use CBOR instead of MessagePack for the binary side"`
	Text       string `flag:"text,t" desc:"use TEXT as the input instead of a file or stdin"`
	Output     string `flag:"output,o" desc:"write to FILE (atomically) instead of stdout"`
	Hex        bool   `flag:"hex,x" desc:"read or write the binary side as hex text"`
	Verbose    bool   `flag:"verbose,v" desc:"log progress and an output digest to stderr"`
	Pretty     bool   `flag:"pretty,p" desc:"indent JSON output"`
	Bytes      string `flag:"bytes" desc:"byte strings in JSON: hex, base64, array, or tagged" default:"hex"`
	Compress   string `flag:"compress" desc:"compress binary output: none, zstd, or lz4" default:"none"`
	JSONDriver string `flag:"json-driver" desc:"JSON tokenizer: jsontext or gojson" default:"jsontext"`
	JSONC      bool   `flag:"jsonc" desc:"accept comments and trailing commas in JSON input"`
	Sequence   bool   `flag:"sequence,s" desc:"accept and write multiple top-level values"`
	Color      string `flag:"color" desc:"highlight JSON on a terminal: auto, always, or never" default:"auto"`
	Config     string `flag:"config" desc:"load defaults from a YAML file (else $MSGPACK_CONFIG)"`
}

// Root returns the msgpack command tree bound to streams.
func Root(streams Streams) *cli.Command {
	var parameters params
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "msgpack",
		Summary: "Convert between JSON and MessagePack",
		Description: `Convert between JSON and MessagePack (or CBOR).

The direction comes from --to-json or --to-msgpack, or else from the
input file's extension, or else from the output file's extension:
.json is JSON, .msgpack and .mpk are MessagePack, .cbor is CBOR.
Input is read from INPUT_FILE, from --text, or from stdin. Binary
input that is zstd or lz4 compressed is decompressed automatically.`,
		Usage:      "msgpack [flags] [INPUT_FILE]",
		HelpOutput: streams.Stderr,
		Examples: []cli.Example{
			{Description: "Convert a JSON file to MessagePack", Command: "msgpack data.json -o data.msgpack"},
			{Description: "Show a MessagePack file as indented JSON", Command: "msgpack --pretty data.msgpack"},
			{Description: "Encode inline JSON as hex", Command: `msgpack -m -x -t '{"a":1}'`},
			{Description: "Decode hex MessagePack from stdin", Command: "echo 81a161 01 | msgpack -j -x"},
			{Description: "Write zstd-compressed CBOR", Command: "msgpack --cbor --compress zstd events.json -o events.cbor"},
		},
		Flags: func() *pflag.FlagSet {
			parameters = params{}
			flagSet = cli.FlagsFromParams("msgpack", &parameters)
			return flagSet
		},
		Subcommands: []*cli.Command{versionCommand(streams)},
		Run: func(args []string) error {
			options, verbose, err := resolve(parameters, flagSet, args)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(streams.Stderr, verbose)
			return Convert(options, streams, logger)
		},
	}
}

func versionCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("version takes no arguments")
			}
			fmt.Fprintln(streams.Stdout, version.Full())
			return nil
		},
	}
}

// resolve merges configuration and flags into Options and decides the
// conversion direction. Flags the user set explicitly override the
// configuration file.
func resolve(parameters params, flagSet *pflag.FlagSet, args []string) (Options, bool, error) {
	var options Options

	if len(args) > 1 {
		return options, false, cli.Validation("expected at most one INPUT_FILE, got %d arguments", len(args))
	}
	hasText := flagSet.Changed("text")
	if len(args) == 1 {
		if hasText {
			return options, false, &format.ConflictError{First: "INPUT_FILE", Second: "--text"}
		}
		options.InputName = args[0]
	}
	options.Text = parameters.Text
	options.HasText = hasText
	options.OutputName = parameters.Output
	options.Hex = parameters.Hex
	options.Comments = parameters.JSONC

	cfg, err := loadConfig(parameters.Config)
	if err != nil {
		return options, false, err
	}
	override := func(flag string, value *string, fromFlag string) {
		if flagSet.Changed(flag) {
			*value = fromFlag
		}
	}
	override("bytes", &cfg.Bytes, parameters.Bytes)
	override("compress", &cfg.Compress, parameters.Compress)
	override("json-driver", &cfg.JSONDriver, parameters.JSONDriver)
	override("color", &cfg.Color, parameters.Color)
	if flagSet.Changed("sequence") {
		cfg.Sequence = parameters.Sequence
	}
	if parameters.CBOR {
		cfg.Binary = "cbor"
	}

	if options.Bytes, err = jsonstream.ParseBytesPolicy(cfg.Bytes); err != nil {
		return options, false, cli.Validation("--bytes: %v", err)
	}
	if options.Compress, err = wrap.ParseCompression(cfg.Compress); err != nil {
		return options, false, cli.Validation("--compress: %v", err)
	}
	if options.Driver, err = jsonstream.ParseDriver(cfg.JSONDriver); err != nil {
		return options, false, cli.Validation("--json-driver: %v", err)
	}
	if options.Color, err = highlight.ParseMode(cfg.Color); err != nil {
		return options, false, cli.Validation("--color: %v", err)
	}
	options.Sequence = cfg.Sequence

	options.Indent = cfg.Indent
	if parameters.Pretty && options.Indent == "" {
		options.Indent = defaultIndent
	}

	binary, err := format.Parse(cfg.Binary)
	if err != nil {
		return options, false, cli.Validation("binary: %v", err)
	}
	options.Plan, err = format.Resolve(format.Request{
		ToJSON:     parameters.ToJSON,
		ToBinary:   parameters.ToMsgpack,
		InputName:  options.InputName,
		OutputName: options.OutputName,
		Binary:     binary,
	})
	if err != nil {
		return options, false, err
	}

	return options, parameters.Verbose, nil
}

// loadConfig loads the --config file, or the file named by
// MSGPACK_CONFIG, or the defaults.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%v", err)
	}
	return cfg, nil
}
