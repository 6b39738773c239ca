package components

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"

	"github.com/siftlab/sift/internal/export"
	"github.com/siftlab/sift/internal/record"
	"github.com/siftlab/sift/internal/schema"
	"github.com/siftlab/sift/internal/ui/theme"
)

// TableView displays the filtered record view with scrolling and a
// selectable row. Columns come from the schema, in schema order.
type TableView struct {
	Width  int
	Height int
	Theme  theme.Theme

	fields  []schema.FieldDefinition
	records []record.Record
	rows    [][]string
	total   int

	topRow      int
	selectedRow int

	columnWidths []int
	maxCellLen   int
}

// NewTableView creates a table view over the schema's fields.
func NewTableView(th theme.Theme, fields []schema.FieldDefinition, maxCellLen int) *TableView {
	if maxCellLen <= 0 {
		maxCellLen = 50
	}
	return &TableView{
		Theme:      th,
		fields:     fields,
		maxCellLen: maxCellLen,
	}
}

// SetRecords replaces the displayed record set. total is the unfiltered
// dataset size, shown alongside the match count.
func (tv *TableView) SetRecords(records []record.Record, total int) {
	tv.records = records
	tv.total = total
	tv.rows = make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(tv.fields))
		for j, f := range tv.fields {
			val, ok := record.Resolve(rec, f.Key)
			if !ok {
				row[j] = ""
				continue
			}
			cell := export.FormatValue(f, val)
			if len(cell) > tv.maxCellLen {
				cell = cell[:tv.maxCellLen-1] + "…"
			}
			row[j] = cell
		}
		tv.rows[i] = row
	}

	if tv.selectedRow >= len(tv.rows) {
		tv.selectedRow = 0
		tv.topRow = 0
	}
	tv.calculateColumnWidths()
}

// Records returns the record set currently displayed, in display order.
func (tv *TableView) Records() []record.Record {
	return tv.records
}

// Selected returns the currently selected record, if any.
func (tv *TableView) Selected() (record.Record, bool) {
	if tv.selectedRow < 0 || tv.selectedRow >= len(tv.records) {
		return nil, false
	}
	return tv.records[tv.selectedRow], true
}

// YankSelected copies the selected record to the clipboard as JSON.
func (tv *TableView) YankSelected() error {
	rec, ok := tv.Selected()
	if !ok {
		return fmt.Errorf("no row selected")
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}
	return clipboard.WriteAll(string(data))
}

// MoveUp moves the selection up one row.
func (tv *TableView) MoveUp() {
	if tv.selectedRow > 0 {
		tv.selectedRow--
	}
	if tv.selectedRow < tv.topRow {
		tv.topRow = tv.selectedRow
	}
}

// MoveDown moves the selection down one row.
func (tv *TableView) MoveDown() {
	if tv.selectedRow < len(tv.rows)-1 {
		tv.selectedRow++
	}
	if visible := tv.visibleRows(); tv.selectedRow >= tv.topRow+visible {
		tv.topRow = tv.selectedRow - visible + 1
	}
}

func (tv *TableView) visibleRows() int {
	// Header, separator and status line eat three rows.
	v := tv.Height - 3
	if v < 1 {
		v = 1
	}
	return v
}

func (tv *TableView) calculateColumnWidths() {
	tv.columnWidths = make([]int, len(tv.fields))
	for i, f := range tv.fields {
		tv.columnWidths[i] = len(fieldLabel(f))
	}
	for _, row := range tv.rows {
		for i, cell := range row {
			if i < len(tv.columnWidths) && len(cell) > tv.columnWidths[i] {
				tv.columnWidths[i] = len(cell)
			}
		}
	}
	for i := range tv.columnWidths {
		if tv.columnWidths[i] > tv.maxCellLen {
			tv.columnWidths[i] = tv.maxCellLen
		}
		if tv.columnWidths[i] < 4 {
			tv.columnWidths[i] = 4
		}
	}
}

// View renders the table.
func (tv *TableView) View() string {
	if len(tv.fields) == 0 {
		return "No schema"
	}

	var b strings.Builder

	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	endRow := tv.topRow + tv.visibleRows()
	if endRow > len(tv.rows) {
		endRow = len(tv.rows)
	}
	for i := tv.topRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(tv.rows[i], i == tv.selectedRow))
		b.WriteString("\n")
	}

	b.WriteString(tv.renderStatus())
	return b.String()
}

func (tv *TableView) renderHeader() string {
	var parts []string
	for i, f := range tv.fields {
		parts = append(parts, pad(fieldLabel(f), tv.columnWidths[i]))
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.Foreground).
		Background(tv.Theme.TableHeader)
	return headerStyle.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, width := range tv.columnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	return lipgloss.NewStyle().Foreground(tv.Theme.Border).
		Render(" " + strings.Join(parts, "─┼─") + " ")
}

func (tv *TableView) renderRow(row []string, selected bool) string {
	var parts []string
	for i, cell := range row {
		parts = append(parts, pad(cell, tv.columnWidths[i]))
	}
	line := " " + strings.Join(parts, " │ ") + " "
	if selected {
		return lipgloss.NewStyle().Background(tv.Theme.TableRowSelected).Render(line)
	}
	return line
}

func (tv *TableView) renderStatus() string {
	status := fmt.Sprintf(" %d of %d rows", len(tv.rows), tv.total)
	if len(tv.rows) > 0 {
		status += fmt.Sprintf("  (row %d)", tv.selectedRow+1)
	}
	return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render(status)
}

func fieldLabel(f schema.FieldDefinition) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

func pad(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
