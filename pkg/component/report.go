package component

import (
	"fmt"
	"strings"

	"github.com/chazu/airframe/pkg/geom"
)

// Format selects a report view.
type Format string

const (
	// FormatSimple reports only the node itself.
	FormatSimple Format = "simple"
	// FormatRecursive reports the node and every descendant, pre-order.
	FormatRecursive Format = "recursive"
	// FormatBOM reports leaves only, merging identical parts into one row
	// with a unit count.
	FormatBOM Format = "bom"
)

// Formats lists the recognised report formats.
var Formats = []Format{FormatSimple, FormatRecursive, FormatBOM}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%q (want simple, recursive or bom): %w", s, ErrInvalidFormat)
}

// RowKey identifies a part independent of where it is placed. Two leaves
// with equal keys are the same part.
type RowKey struct {
	Name        string
	Description string
	Comments    string
	Vendor      string
	Cost        float64
}

// KeyOf returns the row key of n.
func KeyOf(n Node) RowKey {
	return RowKey{
		Name:        n.Name(),
		Description: n.Description(),
		Comments:    n.Comments(),
		Vendor:      n.Vendor(),
		Cost:        n.Cost(),
	}
}

// ReportRow is one line of a report.
type ReportRow struct {
	Name          string     `json:"name" yaml:"name"`
	ID            int        `json:"id" yaml:"id"`
	Subcomponents string     `json:"subcomponents,omitempty" yaml:"subcomponents,omitempty"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	Comments      string     `json:"comments,omitempty" yaml:"comments,omitempty"`
	Vendor        string     `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	UnitCost      float64    `json:"unit_cost" yaml:"unit_cost"`
	Units         int        `json:"units" yaml:"units"`
	TotalCost     float64    `json:"total_cost" yaml:"total_cost"`
	O             *geom.Vec3 `json:"O,omitempty" yaml:"O,omitempty"`
	Oaxis         *geom.Mat3 `json:"Oaxis,omitempty" yaml:"Oaxis,omitempty"`
}

// Key returns the row key the row was filed under.
func (r ReportRow) Key() RowKey {
	return RowKey{
		Name:        r.Name,
		Description: r.Description,
		Comments:    r.Comments,
		Vendor:      r.Vendor,
		Cost:        r.UnitCost,
	}
}

// Report is an ordered set of rows. Rows appear in traversal order of first
// occurrence.
type Report struct {
	Format Format
	rows   []ReportRow
	index  map[RowKey]int
}

// Rows returns a copy of the rows in order.
func (r *Report) Rows() []ReportRow {
	return append([]ReportRow(nil), r.rows...)
}

// Len returns the number of rows.
func (r *Report) Len() int { return len(r.rows) }

// Get returns the first row filed under k.
func (r *Report) Get(k RowKey) (ReportRow, bool) {
	i, ok := r.index[k]
	if !ok {
		return ReportRow{}, false
	}
	return r.rows[i], true
}

// TotalCost sums the total cost of every row.
func (r *Report) TotalCost() float64 {
	var sum float64
	for _, row := range r.rows {
		sum += row.TotalCost
	}
	return sum
}

func (r *Report) add(row ReportRow) {
	k := row.Key()
	if _, ok := r.index[k]; !ok {
		r.index[k] = len(r.rows)
	}
	r.rows = append(r.rows, row)
}

// tally merges row into an existing row with the same key, or appends it.
func (r *Report) tally(row ReportRow) {
	k := row.Key()
	if i, ok := r.index[k]; ok {
		r.rows[i].Units++
		r.rows[i].TotalCost = float64(r.rows[i].Units) * r.rows[i].UnitCost
		return
	}
	r.add(row)
}

type reportOptions struct {
	frames bool
}

// ReportOption configures GetReport.
type ReportOption func(*reportOptions)

// WithFrames controls whether simple and recursive rows carry the node's own
// origin and orientation. Frames are included by default. Bom rows never
// carry them.
func WithFrames(on bool) ReportOption {
	return func(o *reportOptions) { o.frames = on }
}

// GetReport builds the report of n in the named format. An unknown format
// returns ErrInvalidFormat.
func GetReport(n Node, format string, opts ...ReportOption) (*Report, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return BuildReport(n, f, opts...), nil
}

// BuildReport builds the report of n for an already validated format.
func BuildReport(n Node, f Format, opts ...ReportOption) *Report {
	ro := reportOptions{frames: true}
	for _, fn := range opts {
		fn(&ro)
	}

	r := &Report{Format: f, index: make(map[RowKey]int)}
	switch f {
	case FormatSimple:
		r.add(simpleRow(n, ro))
	case FormatRecursive:
		walkRecursive(r, n, ro)
	case FormatBOM:
		// A bom row stands for every placement of a part, so it has no frame.
		walkBOM(r, n, reportOptions{})
	}
	return r
}

func walkRecursive(r *Report, n Node, ro reportOptions) {
	r.add(simpleRow(n, ro))
	for _, c := range n.Children() {
		walkRecursive(r, c, ro)
	}
}

func walkBOM(r *Report, n Node, ro reportOptions) {
	switch v := n.(type) {
	case Leaf:
		r.tally(simpleRow(v, ro))
	case Assembly:
		for _, c := range v.children {
			walkBOM(r, c, ro)
		}
	}
}

func simpleRow(n Node, ro reportOptions) ReportRow {
	row := ReportRow{
		Name:        n.Name(),
		ID:          n.ID(),
		Description: n.Description(),
		Comments:    n.Comments(),
		Vendor:      n.Vendor(),
		UnitCost:    n.Cost(),
		Units:       1,
		TotalCost:   n.Cost(),
	}
	if children := n.Children(); len(children) > 0 {
		names := make([]string, len(children))
		for i, c := range children {
			names[i] = c.Name()
		}
		row.Subcomponents = strings.Join(names, ", ")
	}
	if ro.frames {
		f := n.Frame()
		row.O = &f.Origin
		row.Oaxis = &f.Axes
	}
	return row
}
