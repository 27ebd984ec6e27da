// This is the main-driver for our calculator.
//
// It owns everything the core language runtime (package dc4) deliberately
// stays out of: assembling input from -e expressions, -f files and
// standard input, diagnostic logging, and translating failures into exit
// codes.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skx/dc4/dc4"
)

// version fields are populated at build time via -ldflags, falling back
// to "4.0.0" for a plain `go build`.
var (
	versionMajor = "4"
	versionMinor = "0"
	versionPatch = "0"
)

func main() {
	var sources []source
	var verbose bool

	root := &cobra.Command{
		Use:   "dc4",
		Short: "dc4 is an arbitrary-precision reverse-Polish desk calculator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(sources, verbose)
		},
	}

	root.Flags().VarP(&sourceList{target: &sources, isFile: false}, "expression", "e",
		"Evaluate an expression (may be repeated; processed in command-line order).")
	root.Flags().VarP(&sourceList{target: &sources, isFile: true}, "file", "f",
		"Evaluate a file's contents (may be repeated; processed in command-line order).")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable diagnostic logging on stderr.")
	root.Version = fmt.Sprintf("%s.%s.%s", versionMajor, versionMinor, versionPatch)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dc4: %s\n", err)
		os.Exit(2)
	}
}

func run(sources []source, verbose bool) error {
	log, err := newLogger(verbose)
	if err != nil {
		return errors.Wrap(err, "constructing logger")
	}
	defer func() { _ = log.Sync() }()

	var program bytes.Buffer

	if len(sources) == 0 {
		log.Debug("no -e/-f sources given, reading program from stdin")
		if _, err := program.ReadFrom(os.Stdin); err != nil {
			return errors.Wrap(err, "reading program from stdin")
		}
	}

	for _, s := range sources {
		if !s.isFile {
			log.Debugw("queuing expression", "expression", s.value)
			program.WriteString(s.value)
			program.WriteByte('\n')
			continue
		}

		log.Debugw("queuing file", "path", s.value)
		contents, rerr := os.ReadFile(s.value)
		if rerr != nil {
			return errors.Wrapf(rerr, "reading %q", s.value)
		}
		program.Write(contents)
	}

	major, minor, patch := parseVersion(versionMajor, versionMinor, versionPatch)

	rt := dc4.New(filepath.Base(os.Args[0]))
	rt.SetVersion(major, minor, patch)
	rt.SetStdin(os.Stdin)
	rt.Stream(&program, os.Stdout)

	return nil
}

func parseVersion(major, minor, patch string) (uint32, uint32, uint32) {
	return atoi32(major), atoi32(minor), atoi32(patch)
}

func atoi32(s string) uint32 {
	var n uint32
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + uint32(c-'0')
	}
	return n
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
