package ast

import "github.com/gwen-io/gwen/pkg/gerr"

// TableHeader selects which edge of a DataTable carries column names.
type TableHeader string

const (
	HeaderTop  TableHeader = "top"
	HeaderLeft TableHeader = "left"
)

// TableShape is the three DataTable layouts described in spec.md §3.
type TableShape string

const (
	ShapeHorizontal TableShape = "horizontal"
	ShapeVertical   TableShape = "vertical"
	ShapeMatrix     TableShape = "matrix"
)

// TableRow is one physical row of a Gherkin data table as written in the
// feature file, before shape interpretation.
type TableRow struct {
	Line  int
	Cells []string
}

// Table is a Step's attached data table together with the shape/annotation
// metadata a @DataTable(...) StepDef tag resolved for it.
type Table struct {
	Shape  TableShape
	Header TableHeader
	Names  []string
	Vertex string
	Rows   []TableRow
}

// NewHorizontalTable builds a header-on-top table from raw rows.
func NewHorizontalTable(rows []TableRow) Table {
	return Table{Shape: ShapeHorizontal, Header: HeaderTop, Rows: rows}
}

// WithNames returns a copy of t with explicit column Names attached, as a
// @DataTable(horizontal="n1,n2,...") annotation supplies them.
func (t Table) WithNames(names []string) Table {
	t.Names = names
	return t
}

// WithVertex returns a copy of t marked as a matrix table with the given
// corner-cell name.
func (t Table) WithVertex(vertex string) Table {
	t.Shape = ShapeMatrix
	t.Vertex = vertex
	return t
}

// Records interprets the table according to its Shape/Header and returns one
// map per data record (header name -> cell value). A Vertical table is
// transposed before horizontal rules are applied; a Matrix table instead
// returns, per data row, a map holding the row's left header under the
// vertex name plus one "top|left" -> cell value entry per remaining cell.
func (t Table) Records() ([]map[string]string, error) {
	switch t.Shape {
	case ShapeMatrix:
		return t.matrixRecords()
	case ShapeVertical:
		return t.transpose().horizontalRecords()
	default:
		return t.horizontalRecords()
	}
}

func (t Table) headerRow() []string {
	if len(t.Names) > 0 {
		return t.Names
	}
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0].Cells
}

func (t Table) bodyRows() []TableRow {
	if len(t.Names) > 0 {
		return t.Rows
	}
	if len(t.Rows) <= 1 {
		return nil
	}
	return t.Rows[1:]
}

func (t Table) horizontalRecords() ([]map[string]string, error) {
	headers := t.headerRow()
	body := t.bodyRows()
	if len(t.Names) == 0 && len(t.Rows) < 2 {
		return nil, gerr.New(gerr.DataTable, "table without explicit column names needs at least 2 rows, got %d", len(t.Rows))
	}
	records := make([]map[string]string, 0, len(body))
	for _, row := range body {
		if len(row.Cells) != len(headers) {
			return nil, gerr.New(gerr.DataTable, "row at line %d has %d cells, want %d", row.Line, len(row.Cells), len(headers))
		}
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			rec[h] = row.Cells[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

func (t Table) transpose() Table {
	if len(t.Rows) == 0 {
		return t
	}
	cols := len(t.Rows[0].Cells)
	out := make([]TableRow, cols)
	for c := 0; c < cols; c++ {
		cells := make([]string, len(t.Rows))
		for r, row := range t.Rows {
			if c < len(row.Cells) {
				cells[r] = row.Cells[c]
			}
		}
		out[c] = TableRow{Line: t.Rows[0].Line, Cells: cells}
	}
	transposed := t
	transposed.Rows = out
	return transposed
}

func (t Table) matrixRecords() ([]map[string]string, error) {
	if len(t.Rows) < 2 {
		return nil, gerr.New(gerr.DataTable, "matrix table needs a header row and at least one data row, got %d rows", len(t.Rows))
	}
	topHeaders := t.Rows[0].Cells
	records := make([]map[string]string, 0, len(t.Rows)-1)
	for _, row := range t.Rows[1:] {
		if len(row.Cells) == 0 {
			continue
		}
		left := row.Cells[0]
		rec := map[string]string{t.vertexName(): left}
		for i, top := range topHeaders {
			if i == 0 {
				continue
			}
			if i < len(row.Cells) {
				rec[top+"|"+left] = row.Cells[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (t Table) vertexName() string {
	if t.Vertex != "" {
		return t.Vertex
	}
	if len(t.Rows) > 0 && len(t.Rows[0].Cells) > 0 {
		return t.Rows[0].Cells[0]
	}
	return "vertex"
}
