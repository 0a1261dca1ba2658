package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/yourusername/open-isbn/pkg/isbn"
	"github.com/yourusername/open-isbn/pkg/isbn/iso2005"
	"github.com/yourusername/open-isbn/pkg/rangefile"
)

// errFailures is returned when at least one input did not pass. The per-input
// lines have already been printed.
var errFailures = errors.New("one or more inputs failed")

// GlobalOptions are the flags shared by every subcommand.
type GlobalOptions struct {
	Standard  string
	Format    string
	RangeFile string
	NoColor   bool

	fs     afero.Fs
	in     io.Reader
	out    io.Writer
	parser *isbn.Parser
	format iso2005.Format
}

func (o *GlobalOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Standard, "standard", "legacy", "Parsing standard: legacy, 2005 or 2017")
	flags.StringVar(&o.Format, "format", "", "Output format for the 2005 standard: ISBN, ISBN-13 or ISBN-10")
	flags.StringVar(&o.RangeFile, "range-file", "", "JSON range table to use instead of the built-in one")
	flags.BoolVar(&o.NoColor, "no-color", false, "Disable colored output")
}

// Complete loads the range table and builds the parser for the chosen standard.
func (o *GlobalOptions) Complete() error {
	if o.NoColor {
		color.NoColor = true
	}
	table, err := rangefile.LoadOrDefault(o.fs, o.RangeFile)
	if err != nil {
		return err
	}

	forms := isbn.FormBoth
	switch o.Standard {
	case "legacy", "":
		if o.Format != "" {
			return fmt.Errorf("--format is only valid with --standard 2005: %w", isbn.ErrUnsupportedFormat)
		}
	case "2005":
		f, err := iso2005.ParseFormat(o.Format)
		if err != nil {
			return fmt.Errorf("--format %q: %w", o.Format, err)
		}
		o.format = f
	case "2017":
		if o.Format != "" {
			return fmt.Errorf("--format is only valid with --standard 2005: %w", isbn.ErrUnsupportedFormat)
		}
		forms = isbn.Form13
	default:
		return fmt.Errorf("unknown --standard %q", o.Standard)
	}
	o.parser = isbn.NewParser(table, forms)
	return nil
}

// render formats an identifier for the selected standard.
func (o *GlobalOptions) render(id isbn.Identifier) string {
	if o.Standard == "2005" {
		s, _ := iso2005.FromIdentifier(id).Format(o.format)
		return s
	}
	return id.String()
}

// inputs returns args, or the non-blank lines of standard input when there are
// no args.
func (o *GlobalOptions) inputs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var lines []string
	sc := bufio.NewScanner(o.in)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

var (
	okLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
)
