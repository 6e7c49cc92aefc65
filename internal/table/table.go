// Package table provides references to named tabular datasets stored as
// delimited files, plus whole-table CSV reading and writing. Tables are
// loaded entirely into memory; the remap pipeline does not support
// out-of-core datasets.
package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Ref identifies a table by a stable name and its storage location. The name
// is used for deterministic artifact naming; the path is where the table's
// delimited data lives.
type Ref struct {
	Name string
	Path string
}

// Options configures CSV reading and writing. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool
}

func (o Options) comma() rune {
	if o.Comma != 0 {
		return o.Comma
	}
	return ','
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// Data is a fully materialized table: an ordered header plus rows aligned to
// it. Transforms never mutate a Data in place; they produce new files.
type Data struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of name in the header, or -1 when absent.
func (d *Data) ColumnIndex(name string) int {
	for i, h := range d.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's values in row order.
func (d *Data) Column(name string) ([]string, error) {
	ix := d.ColumnIndex(name)
	if ix < 0 {
		return nil, fmt.Errorf("column %q not in header %v", name, d.Header)
	}
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[ix]
	}
	return out, nil
}

// Read loads the referenced table from disk. See ReadFrom for the format
// contract.
func (r Ref) Read(ctx context.Context, opt Options) (*Data, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", r.Name, err)
	}
	defer f.Close()
	d, err := ReadFrom(f, opt)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", r.Name, err)
	}
	return d, nil
}

// ReadFrom parses a delimited table from r. The first row is the header; a
// UTF-8 BOM on the first header cell is stripped. Every data row must have
// the header's width.
func ReadFrom(r io.Reader, opt Options) (*Data, error) {
	cr := csv.NewReader(r)
	cr.Comma = opt.comma()

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	if opt.TrimSpace {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	var rows [][]string
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if opt.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
		}
		rows = append(rows, row)
	}
	return &Data{Header: header, Rows: rows}, nil
}

// WriteTo writes d as delimited text: header first, then rows in order.
func (d *Data) WriteTo(w io.Writer, opt Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opt.comma()
	if err := cw.Write(d.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(d.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
