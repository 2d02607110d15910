package ui

import (
	"fmt"
	"strings"
)

// updateLogViewport rebuilds the submission log, newest entry first.
func (m *Model) updateLogViewport() {
	styles := m.theme.Styles()
	entries := newestFirst(m.snapshot.Logs)
	if len(entries) == 0 {
		m.logViewport.SetContent(styles.MutedText.Render("No submissions yet"))
		return
	}

	width := m.logViewport.Width
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		when := e.SubmissionTimestamp.Local().Format("2006-01-02 15:04")
		title := fmt.Sprintf("%-12s", truncate(e.AedLinkTitle, 12))
		rest := fmt.Sprintf("%-14s  %-18s", truncate(e.SubmissionType, 14), truncate(e.SubmittedBy, 18))
		summary := truncate(e.SummaryOfAction, width-70)
		lines = append(lines, styles.MutedText.Render(when)+"  "+
			styles.AccentText.Render(title)+"  "+
			styles.Text.Render(rest)+"  "+
			styles.MutedText.Render(summary))
	}
	m.logViewport.SetContent(strings.Join(lines, "\n"))
}

// renderSubmissionLog renders the submission log view.
func (m Model) renderSubmissionLog() string {
	title := fmt.Sprintf("Submission Log (%d)", len(m.snapshot.Logs))
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.height-2, true)
}

// updateActivityViewport replaces the activity lines, following the tail
// when the view was already at the bottom.
func (m *Model) updateActivityViewport(lines []string) {
	if lines == nil && m.activityErr != nil {
		return
	}
	follow := m.activityViewport.AtBottom() || m.activityViewport.TotalLineCount() == 0

	styles := m.theme.Styles()
	colored := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.Contains(line, " ERROR "), strings.Contains(line, " FATAL "):
			colored[i] = styles.DangerText.Render(line)
		case strings.Contains(line, " WARN "):
			colored[i] = styles.WarningText.Render(line)
		case strings.Contains(line, " DEBUG "):
			colored[i] = styles.FaintText.Render(line)
		default:
			colored[i] = styles.Text.Render(line)
		}
	}
	if len(colored) == 0 {
		colored = []string{styles.MutedText.Render("No activity logged yet")}
	}
	m.activityViewport.SetContent(strings.Join(colored, "\n"))
	if follow {
		m.activityViewport.GotoBottom()
	}
}

// renderActivity renders the tail of the application log.
func (m Model) renderActivity() string {
	title := "Activity"
	if m.logPath != "" {
		title += " · " + m.logPath
	}
	content := m.activityViewport.View()
	if m.activityErr != nil {
		content = m.theme.Styles().DangerText.Render("Read log: "+m.activityErr.Error()) + "\n" + content
	}
	return m.renderTitledBox(title, content, m.width, m.height-2, true)
}
