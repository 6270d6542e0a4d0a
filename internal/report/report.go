// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report aggregates per-strategy run results into a comparison
// table and renders it as a text table, JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tunebench/pkg/types"
)

// Format selects the rendering of a comparison table.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ElapsedColumn is the wall-clock column present in every table.
const ElapsedColumn = "elapsed_sec"

// Row is one strategy's line in the comparison table.
type Row struct {
	Strategy string             `json:"strategy" yaml:"strategy"`
	Values   map[string]float64 `json:"values" yaml:"values"`
}

// Table compares run results across tuning strategies. Columns are the union
// of all metric names plus the elapsed wall-clock seconds; a strategy missing
// a column renders blank.
type Table struct {
	Columns []string `json:"columns" yaml:"columns,flow"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

// Build aggregates results into a table, keeping the input's strategy order.
func Build(results []types.RunResult) Table {
	columnSet := make(map[string]bool)
	rows := make([]Row, 0, len(results))

	for _, r := range results {
		values := make(map[string]float64, len(r.TestMetrics)+1)
		for name, v := range r.TestMetrics {
			values[name] = v
			columnSet[name] = true
		}
		values[ElapsedColumn] = r.Elapsed.Seconds()
		rows = append(rows, Row{Strategy: r.Strategy, Values: values})
	}

	columns := make([]string, 0, len(columnSet)+1)
	for name := range columnSet {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	columns = append(columns, ElapsedColumn)

	return Table{Columns: columns, Rows: rows}
}

// SortBy reorders the rows by the named column, descending when descending is
// set. The special column "strategy" sorts by name; rows missing the column
// sort last either way. The sort is stable so equal values keep their order.
func (t *Table) SortBy(column string, descending bool) error {
	if column != "strategy" && !t.hasColumn(column) {
		return fmt.Errorf("unknown sort column %q", column)
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		if column == "strategy" {
			if descending {
				return t.Rows[i].Strategy > t.Rows[j].Strategy
			}
			return t.Rows[i].Strategy < t.Rows[j].Strategy
		}
		vi, iok := t.Rows[i].Values[column]
		vj, jok := t.Rows[j].Values[column]
		if iok != jok {
			return iok
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})
	return nil
}

func (t *Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Render writes the table to w in the requested format.
func (t Table) Render(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return enc.Encode(t)
	case FormatTable:
		return t.renderText(w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (t Table) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "STRATEGY")
	for _, c := range t.Columns {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintln(tw)

	for _, row := range t.Rows {
		fmt.Fprint(tw, row.Strategy)
		for _, c := range t.Columns {
			if v, ok := row.Values[c]; ok {
				fmt.Fprintf(tw, "\t%.6g", v)
			} else {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
