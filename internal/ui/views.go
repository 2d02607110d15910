package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cuems/aedkeeper/internal/aed"
)

// renderInventory renders the inventory table with the detail pane.
func (m Model) renderInventory() string {
	records := m.inventoryRecords()
	title := fmt.Sprintf("Inventory (%d)", len(records))
	if m.searchQuery != "" {
		title = fmt.Sprintf("Search %q (%d/%d)", m.searchQuery, len(records), len(m.snapshot.Inventory))
	}

	empty := "No AEDs in inventory"
	if m.searchQuery != "" {
		empty = "No AEDs match the search. Press esc to clear it."
	}
	return m.renderSplit(title, m.inventoryTable.View(), len(records) == 0, empty)
}

// renderService renders the service list with the detail pane.
func (m Model) renderService() string {
	title := fmt.Sprintf("Service Required (%d)", len(m.snapshot.Service))
	return m.renderSplit(title, m.serviceTable.View(), len(m.snapshot.Service) == 0, "Every AED is operational")
}

// renderSplit lays a table pane next to the detail of the selected AED on
// wide terminals, or the table alone on narrow ones.
func (m Model) renderSplit(title, tableView string, empty bool, emptyMsg string) string {
	contentHeight := m.height - 2 // header + command bar
	tableWidth := m.tableWidth()

	content := tableView
	if empty {
		content = m.theme.Styles().MutedText.Render(emptyMsg)
	}
	tablePane := m.renderTitledBox(title, content, tableWidth, contentHeight, true)
	if tableWidth == m.width {
		return tablePane
	}

	detailWidth := m.width - tableWidth
	var detail string
	if rec, ok := m.selectedRecord(); ok {
		detail = m.renderDetail(rec, detailWidth-4, m.theme.SurfaceAlt)
	} else {
		detail = m.theme.Styles().MutedText.Render("Select an AED")
	}
	detailPane := m.renderTitledBox("Details", detail, detailWidth, contentHeight, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// renderDetail renders every field of one AED plus its recent submissions.
func (m Model) renderDetail(rec aed.Record, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	now := time.Now()

	var lines []string
	add := func(s string) { lines = append(lines, s) }
	section := func(name string) {
		add("")
		add(bg.Render(name, styles.AccentText.Bold(true)))
	}

	status := string(rec.CalculatedStatus)
	add(bg.Render(rec.Title, styles.Text.Bold(true)) + bg.Spaces(2) + styles.StatusStyle(status).Render(status))

	section("Location")
	add(label(bg, styles, "Building", locationLine(rec)))
	add(label(bg, styles, "Where", truncate(rec.SpecificLocationDescription, width-7)))
	add(label(bg, styles, "Coordinates", fmt.Sprintf("%.5f, %.5f", rec.Latitude, rec.Longitude)))
	public := "no"
	if rec.PubliclyAccessible {
		public = "yes"
	}
	add(label(bg, styles, "Public", public))

	section("Device")
	add(label(bg, styles, "Model", strings.TrimSpace(rec.Manufacturer+" "+rec.Model)))
	add(label(bg, styles, "Serial", rec.SerialNumber))
	add(bg.Render("Battery:", styles.MutedText) + bg.Space() + m.expiryText(bg, styles, rec.CalculatedBatteryExpiryDate, now))
	add(bg.Render("Pads:", styles.MutedText) + bg.Space() +
		bg.Render(rec.PadsType, styles.Text) + bg.Space() + m.expiryText(bg, styles, rec.CalculatedPadsExpiryDate, now))

	section("Last Check")
	if rec.LastMonthlyCheckDate.IsZero() {
		add(bg.Render("Never checked", styles.WarningText))
	} else {
		add(label(bg, styles, "Date", formatDate(rec.LastMonthlyCheckDate)+" by "+rec.LastMonthlyCheckBy))
		if rec.LastMonthlyCheckStatus != "" {
			add(bg.Render("Result:", styles.MutedText) + bg.Space() +
				styles.StatusStyle(rec.LastMonthlyCheckStatus).Render(rec.LastMonthlyCheckStatus))
		}
		if rec.LastMonthlyCheckNotes != "" {
			add(label(bg, styles, "Notes", truncate(rec.LastMonthlyCheckNotes, width-7)))
		}
	}

	section("Issues")
	if issues := aed.Issues(now, rec); len(issues) > 0 {
		for _, issue := range issues {
			add(bg.Render("• "+issue, styles.DangerText))
		}
	} else {
		add(bg.Render("None", styles.SuccessText))
	}

	section("Recent Submissions")
	entries := newestFirst(aed.LogsForTitle(m.snapshot.Logs, rec.Title))
	if len(entries) == 0 {
		add(bg.Render("None", styles.MutedText))
	}
	for i, e := range entries {
		if i == DetailLogLimit {
			add(bg.Render(fmt.Sprintf("+%d more", len(entries)-i), styles.FaintText))
			break
		}
		add(bg.Render(formatDate(e.SubmissionTimestamp), styles.MutedText) + bg.Space() +
			bg.Render(truncate(e.SubmissionType+" · "+e.SubmittedBy, width-11), styles.Text))
	}

	return strings.Join(lines, "\n")
}

// expiryText shows an expiry date, colored by how close it is.
func (m Model) expiryText(bg BgStyle, styles Styles, expiry, now time.Time) string {
	if expiry.IsZero() {
		return bg.Render("unknown", styles.FaintText)
	}
	date := formatDate(expiry)
	switch days := int(expiry.Sub(now).Hours() / 24); {
	case expiry.Before(now):
		return bg.Render(fmt.Sprintf("expired %s (%dd ago)", date, aed.DaysSinceExpiry(now, expiry)), styles.DangerText)
	case days <= 30:
		return bg.Render(fmt.Sprintf("expires %s (in %dd)", date, days), styles.WarningText)
	default:
		return bg.Render("expires "+date, styles.Text)
	}
}

// locationLine returns "Building (CODE), floor N".
func locationLine(rec aed.Record) string {
	loc := rec.BuildingName
	if rec.BuildingCode != "" {
		loc += " (" + rec.BuildingCode + ")"
	}
	if rec.Floor != "" {
		loc += ", floor " + rec.Floor
	}
	return loc
}

// newestFirst returns a copy of entries ordered by submission time, newest
// first.
func newestFirst(entries []aed.LogEntry) []aed.LogEntry {
	out := append([]aed.LogEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmissionTimestamp.After(out[j].SubmissionTimestamp)
	})
	return out
}

// renderTitledBox draws a bordered pane with the title set into the top
// border. Content is clipped to the box.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	clip := lipgloss.NewStyle().MaxWidth(innerWidth)
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = clip.Render(contentLines[i])
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				bg.FillLine(line, innerWidth)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
