// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("%w: output must be table, json or yaml, got %q", apperrors.ErrInvalidRequest, s)
}

type Printer struct {
	format Format
	out    io.Writer
}

func New(format Format, out io.Writer) *Printer {
	return &Printer{format: format, out: out}
}

func (p *Printer) Format() Format {
	return p.format
}

// Value prints a single document. Tables have no layout for arbitrary
// documents, so the table format prints YAML.
func (p *Printer) Value(v any) error {
	if p.format == FormatJSON {
		return p.json(v)
	}
	return p.yaml(v)
}

// Raw prints an already encoded JSON document, converting it for YAML.
func (p *Printer) Raw(doc json.RawMessage) error {
	if p.format == FormatJSON {
		return p.json(doc)
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrDecode, err)
	}
	return p.yaml(v)
}

// Message prints a line of text in table mode only; structured formats stay
// machine readable.
func (p *Printer) Message(format string, args ...any) {
	if p.format != FormatTable {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing yaml: %w", err)
	}
	return enc.Close()
}

// Column is one table column.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Col is shorthand for a Column.
func Col[T any](header string, value func(T) string) Column[T] {
	return Column[T]{Header: header, Value: value}
}

// List prints items; columns are only used by the table format.
func List[T any](p *Printer, items []T, cols ...Column[T]) error {
	if items == nil {
		items = []T{}
	}
	switch p.format {
	case FormatJSON:
		return p.json(items)
	case FormatYAML:
		return p.yaml(items)
	}

	if len(items) == 0 {
		fmt.Fprintln(p.out, "No entries.")
		return nil
	}
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, item := range items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Value(item)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Float formats an optional reading, "-" when unset.
func Float(v *float64) string {
	if v == nil {
		return "-"
	}
	return humanize.Ftoa(*v)
}

// Str formats an optional string, "-" when unset or empty.
func Str(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

// Ago formats t relative to now, for example "3 minutes ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
