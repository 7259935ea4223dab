// FILE: lixenwraith/dataobject/cmd/dataobject/commands.go
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/lixenwraith/dataobject"
)

var errUsage = errors.New("usage error")

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// run dispatches a command. Output goes to w unless -w redirects it to the input file.
func run(command string, opts *options, args []string, w io.Writer) error {
	if len(args) < 1 {
		return usageErr("%s requires a file argument", command)
	}
	file, rest := args[0], args[1:]

	doc, format, err := load(file, opts.format)
	if err != nil {
		return err
	}

	switch command {
	case "get":
		if len(rest) != 1 {
			return usageErr("get requires one path")
		}
		mode := dataobject.Strict
		if strings.EqualFold(opts.mode, "soft") {
			mode = dataobject.Soft
		}
		value := doc.GetMode(rest[0], errMiss, mode)
		if value == errMiss {
			return errMiss
		}
		return printValue(w, value)

	case "has":
		if len(rest) != 1 {
			return usageErr("has requires one path")
		}
		if !doc.Has(rest[0]) {
			return errMiss
		}
		return nil

	case "set":
		if len(rest) != 2 {
			return usageErr("set requires a path and a value")
		}
		doc.Set(rest[0], parseArgValue(rest[1]))
		return emit(w, doc, file, format, opts)

	case "remove":
		if len(rest) == 0 {
			return usageErr("remove requires at least one path")
		}
		doc.Remove(rest...)
		return emit(w, doc, file, format, opts)

	case "keys":
		for _, key := range doc.Keys() {
			fmt.Fprintln(w, key)
		}
		return nil

	case "flatten":
		prefix := ""
		if len(rest) > 0 {
			prefix = rest[0]
		}
		flat, err := doc.Flatten(prefix)
		if err != nil {
			return err
		}
		return emit(w, flat, file, format, opts)

	case "collapse":
		collapsed, err := doc.Collapse()
		if err != nil {
			return err
		}
		return emit(w, collapsed, file, format, opts)

	case "merge":
		if len(rest) == 0 {
			return usageErr("merge requires at least one other file")
		}
		for _, other := range rest {
			layer, _, err := load(other, "")
			if err != nil {
				return err
			}
			doc.Merge(layer)
		}
		return emit(w, doc, file, format, opts)

	case "convert":
		if opts.to == "" {
			return usageErr("convert requires -to")
		}
		return emit(w, doc, file, format, opts)

	case "hash":
		sum, err := doc.Sum(dataobject.Digest(strings.ToLower(opts.digest)))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, sum)
		return nil

	case "diff":
		if len(rest) != 1 {
			return usageErr("diff requires one other file")
		}
		other, _, err := load(rest[0], "")
		if err != nil {
			return err
		}
		printDiff(w, doc.Diff(other))
		return nil

	case "patch":
		if len(rest) != 1 {
			return usageErr("patch requires a patch file")
		}
		patch, err := os.ReadFile(rest[0])
		if err != nil {
			return fmt.Errorf("failed to read patch '%s': %w", rest[0], err)
		}
		if opts.merge {
			err = doc.ApplyMergePatch(patch)
		} else {
			err = doc.ApplyPatch(patch)
		}
		if err != nil {
			return err
		}
		return emit(w, doc, file, format, opts)
	}

	return usageErr("unknown command %q", command)
}

// load reads and parses a document, honoring an explicit format name.
func load(path, formatName string) (*dataobject.DataObject, dataobject.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read '%s': %w", path, err)
	}

	var format dataobject.Format
	if formatName != "" {
		if format, err = dataobject.ParseFormat(formatName); err != nil {
			return nil, "", err
		}
	} else if format = dataobject.DetectFormat(path, data); format == "" {
		return nil, "", fmt.Errorf("%w for '%s'", dataobject.ErrUnknownFormat, path)
	}

	doc, err := dataobject.Parse(data, format)
	if err != nil {
		return nil, "", fmt.Errorf("'%s': %w", path, err)
	}
	return doc, format, nil
}

// emit encodes doc in the output format and writes it to w or back to file.
func emit(w io.Writer, doc *dataobject.DataObject, file string, format dataobject.Format, opts *options) error {
	if opts.to != "" {
		to, err := dataobject.ParseFormat(opts.to)
		if err != nil {
			return err
		}
		format = to
	}

	out, err := doc.Encode(format)
	if err != nil {
		return err
	}
	if format == dataobject.FormatJSON && opts.indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err == nil {
			buf.WriteByte('\n')
			out = buf.Bytes()
		}
	}

	if opts.write {
		return atomicWriteFile(file, out)
	}
	_, err = w.Write(out)
	return err
}

// parseArgValue reads a command-line value as JSON when it parses, else as a string.
func parseArgValue(s string) any {
	if obj, err := dataobject.Parse([]byte(`{"v":`+s+`}`), dataobject.FormatJSON); err == nil {
		value, _ := obj.Get("v")
		return value
	}
	return s
}

func printValue(w io.Writer, value any) error {
	switch v := value.(type) {
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case *dataobject.Record, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", "  "); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, buf.String())
		return err
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
}

func printDiff(w io.Writer, diff string) {
	added := color.New(color.FgGreen).SprintFunc()
	removed := color.New(color.FgRed).SprintFunc()
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+ "):
			fmt.Fprint(w, added(line))
		case strings.HasPrefix(line, "- "):
			fmt.Fprint(w, removed(line))
		default:
			fmt.Fprint(w, line)
		}
	}
}

// atomicWriteFile writes data to a temporary file and renames it over path.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
