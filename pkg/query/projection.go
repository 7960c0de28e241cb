// Package query provides SQL query building utilities with projection mapping.
// Generated SQL sticks to the dialect shared by PostgreSQL and SQLite:
// $N placeholders, LOWER(...) LIKE for case-insensitive matching, LIMIT/OFFSET.
package query

import (
	"fmt"
	"strings"
)

type join struct {
	kind  string
	table string
	alias string
	on    string
}

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the base table, optional joins, and column mappings for SQL query construction.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	joins      []join
	columns    map[string]string
	columnList []string
	current    string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
// An empty schema leaves the table unqualified.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
		current:    alias,
	}
}

// Project adds a column mapping from database column to view property name.
// Columns are qualified with the most recently joined alias.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.current, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Join adds a joined table. Subsequent Project calls qualify columns with alias.
func (p *ProjectionMap) Join(schema, table, alias, kind, on string) *ProjectionMap {
	p.joins = append(p.joins, join{
		kind:  kind,
		table: qualify(schema, table),
		alias: alias,
		on:    on,
	})
	p.current = alias
	return p
}

// Alias returns the base table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the base table reference with alias.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s %s", qualify(p.schema, p.table), p.alias)
}

// From returns the base table reference followed by all joins.
func (p *ProjectionMap) From() string {
	var b strings.Builder
	b.WriteString(p.Table())
	for _, j := range p.joins {
		fmt.Fprintf(&b, " %s %s %s ON %s", j.kind, j.table, j.alias, j.on)
	}
	return b.String()
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}

func qualify(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}
