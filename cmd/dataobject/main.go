// FILE: lixenwraith/dataobject/cmd/dataobject/main.go
// Command dataobject inspects and edits JSON, YAML, TOML and MessagePack
// documents with dot-path addressing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const usage = `usage: dataobject <command> [flags] <file> [args]

commands:
  get <file> <path>            print the value at path
  has <file> <path>            exit 0 if path exists, 1 otherwise
  set <file> <path> <value>    set path to value (value parsed as JSON when possible)
  remove <file> <path>...      remove paths
  keys <file>                  list top-level keys
  flatten <file> [prefix]      flatten to dotted paths
  collapse <file>              pull top-level values up one level
  merge <file> <other>...      deep-merge other documents into file
  convert <file>               re-encode in the -to format
  hash <file>                  print digest of the canonical JSON text
  diff <file> <other>          line diff of two documents
  patch <file> <patch>         apply an RFC 6902 or, with -merge, RFC 7386 patch

flags:
`

// errMiss signals a lookup miss; it maps to exit status 1 without a message
var errMiss = errors.New("miss")

func main() {
	log.SetFlags(0)
	log.SetPrefix("dataobject: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	opts := newOptions()
	fs := opts.flagSet()
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	command := os.Args[1]
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	err := run(command, opts, fs.Args(), os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errMiss):
		os.Exit(1)
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		fs.Usage()
		os.Exit(2)
	default:
		log.Fatal(color.RedString("%v", err))
	}
}

// options holds the shared command flags
type options struct {
	format string
	to     string
	mode   string
	digest string
	write  bool
	merge  bool
	indent bool
}

func newOptions() *options {
	return &options{}
}

func (o *options) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("dataobject", flag.ContinueOnError)
	fs.StringVar(&o.format, "f", "", "input format (json, yaml, toml, msgpack); detected when empty")
	fs.StringVar(&o.to, "to", "", "output format; defaults to the input format")
	fs.StringVar(&o.mode, "mode", "strict", "read mode for get: strict or soft")
	fs.StringVar(&o.digest, "digest", "md5", "digest for hash: md5, sha256 or blake2b")
	fs.BoolVar(&o.write, "w", false, "write the result back to the file instead of stdout")
	fs.BoolVar(&o.merge, "merge", false, "treat the patch as an RFC 7386 merge patch")
	fs.BoolVar(&o.indent, "indent", true, "indent JSON output")
	return fs
}
