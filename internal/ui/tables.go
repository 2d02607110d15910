package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/datalayer"
)

// Column positions of the title cell, used to keep the selection stable
// across refreshes.
const (
	inventoryTitleCol = 1
	serviceTitleCol   = 0
)

func newTable(cols []table.Column) table.Model {
	return table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
	)
}

// inventoryColumns sizes the inventory columns for width. A zero width hides
// a column; every row still carries all seven cells.
func inventoryColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Title", Width: 12},
		{Title: "Building", Width: 20},
		{Title: "Floor", Width: 6},
		{Title: "Status", Width: 23},
		{Title: "Battery", Width: 10},
		{Title: "Pads", Width: 10},
	}
	if width > 0 && width < LayoutCompactWidth {
		cols[2].Width = 11
		cols[3].Width = 0
		cols[6].Width = 0
	}
	return cols
}

func serviceColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "Title", Width: 12},
		{Title: "Building", Width: 18},
		{Title: "Issues", Width: 34},
		{Title: "Overdue", Width: 8},
		{Title: "Urgent", Width: 6},
	}
	if width > 0 && width < LayoutCompactWidth {
		cols[1].Width = 0
	}
	return cols
}

func inventoryRows(records []aed.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			strconv.Itoa(r.ID),
			r.Title,
			r.BuildingName,
			r.Floor,
			string(r.CalculatedStatus),
			formatDate(r.CalculatedBatteryExpiryDate),
			formatDate(r.CalculatedPadsExpiryDate),
		})
	}
	return rows
}

func serviceRows(items []datalayer.ServiceItem) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		overdue := "-"
		if item.DaysOverdue > 0 {
			overdue = strconv.Itoa(item.DaysOverdue) + "d"
		}
		urgent := ""
		if item.Urgent {
			urgent = "!!"
		}
		rows = append(rows, table.Row{
			item.Record.Title,
			item.Record.BuildingName,
			strings.Join(item.Issues, ", "),
			overdue,
			urgent,
		})
	}
	return rows
}

// inventoryRecords returns the records behind the inventory table: the
// search results while a search is active, otherwise the full inventory.
func (m Model) inventoryRecords() []aed.Record {
	if m.searchQuery != "" {
		return m.searchResults
	}
	return m.snapshot.Inventory
}

// syncTables reloads both tables from the snapshot, keeping the selected
// AED selected when it is still listed.
func (m *Model) syncTables() {
	setRowsKeepingSelection(&m.inventoryTable, inventoryRows(m.inventoryRecords()), inventoryTitleCol)
	setRowsKeepingSelection(&m.serviceTable, serviceRows(m.snapshot.Service), serviceTitleCol)
}

func setRowsKeepingSelection(t *table.Model, rows []table.Row, titleCol int) {
	var selected string
	if row := t.SelectedRow(); row != nil && len(row) > titleCol {
		selected = row[titleCol]
	}
	cursor := t.Cursor()
	t.SetRows(rows)

	if selected != "" {
		for i, row := range rows {
			if row[titleCol] == selected {
				t.SetCursor(i)
				return
			}
		}
	}
	switch {
	case len(rows) == 0:
		t.SetCursor(0)
	case cursor >= len(rows):
		t.SetCursor(len(rows) - 1)
	}
}

// selectedRecord returns the AED under the cursor of the current view.
func (m Model) selectedRecord() (aed.Record, bool) {
	switch m.currentView {
	case ViewInventory:
		records := m.inventoryRecords()
		if i := m.inventoryTable.Cursor(); i >= 0 && i < len(records) {
			return records[i], true
		}
	case ViewService:
		if i := m.serviceTable.Cursor(); i >= 0 && i < len(m.snapshot.Service) {
			return m.snapshot.Service[i].Record, true
		}
	}
	return aed.Record{}, false
}

// tableWidth is the width of the table pane, leaving room for the detail
// pane on wide terminals.
func (m Model) tableWidth() int {
	if m.width >= LayoutSplitWidth {
		return m.width * 60 / 100
	}
	return m.width
}

// resize fits every view to the terminal.
func (m *Model) resize() {
	inner := max(m.height-4, 1) // header, command bar, box borders
	tw := max(m.tableWidth()-2, 1)

	m.inventoryTable.SetColumns(inventoryColumns(tw))
	m.inventoryTable.SetWidth(tw)
	m.inventoryTable.SetHeight(inner)

	m.serviceTable.SetColumns(serviceColumns(tw))
	m.serviceTable.SetWidth(tw)
	m.serviceTable.SetHeight(inner)

	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = inner
	m.activityViewport.Width = max(m.width-2, 1)
	m.activityViewport.Height = inner

	m.help.Width = m.width
	m.updateLogViewport()
}

// applyTheme restyles the components that cache lipgloss styles.
func (m *Model) applyTheme() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Bold(false)
	m.inventoryTable.SetStyles(s)
	m.serviceTable.SetStyles(s)

	styles := m.theme.Styles()
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.WarningText
	m.help.Styles.FullDesc = styles.Text
	m.help.Styles.FullSeparator = styles.FaintText

	m.searchInput.PromptStyle = styles.AccentText
	m.searchInput.TextStyle = styles.Text
}

// applyFocus focuses the table of the current view.
func (m *Model) applyFocus() {
	m.inventoryTable.Blur()
	m.serviceTable.Blur()
	switch m.currentView {
	case ViewInventory:
		m.inventoryTable.Focus()
	case ViewService:
		m.serviceTable.Focus()
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}
