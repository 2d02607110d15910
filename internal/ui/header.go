package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: connectivity, sync state, the
// dashboard counters and any pending message.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("aedkeeper", styles.Logo)}

	if m.isOnline() {
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("● OFFLINE", styles.WarningText.Bold(true)))
	}

	sync := m.snapshot.Sync
	pendingStyle := styles.MutedText
	if sync.PendingChanges > 0 {
		pendingStyle = styles.WarningText
	}
	parts = append(parts,
		bg.Render("Pending:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", sync.PendingChanges), pendingStyle))

	synced := "never"
	if sync.LastSync != nil {
		synced = formatAgo(*sync.LastSync, time.Now())
	}
	parts = append(parts, bg.Render("Synced:", styles.MutedText)+bg.Space()+bg.Render(synced, styles.Text))

	if m.snapshot.HasData {
		parts = append(parts, m.renderStats(styles, bg, compact))
	}

	if m.snapshot.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		tag := "ERROR"
		if m.snapshot.IsStale() {
			tag = "STALE"
		}
		parts = append(parts,
			bg.Render(tag, styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	if text, isErr := m.currentStatus(); text != "" {
		style := styles.InfoText
		if isErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(text, 60), style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderStats renders the dashboard counters.
func (m Model) renderStats(styles Styles, bg BgStyle, compact bool) string {
	st := m.snapshot.Stats
	count := func(name, short string, n int, style lipgloss.Style) string {
		if compact {
			name = short
		}
		if n == 0 {
			style = styles.MutedText
		}
		return bg.Render(name+":", styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", n), style)
	}
	counters := []string{
		count("AEDs", "A", st.Total, styles.Text),
		count("OK", "OK", st.Operational, styles.SuccessText),
		count("Service", "S", st.ServiceRequired, styles.DangerText),
	}
	if !compact {
		counters = append(counters,
			count("Battery exp", "B", st.BatteryExpired, styles.DangerText),
			count("Pads exp", "P", st.PadsExpired, styles.DangerText),
			count("Checks 30d", "C", st.RecentChecks, styles.InfoText))
	}
	return bg.Join(counters, " ")
}

// formatAgo formats t as a clock time with a relative suffix.
func formatAgo(t, now time.Time) string {
	s := t.Local().Format("15:04:05")
	switch since := now.Sub(t); {
	case since < time.Minute:
		return s + " (now)"
	case since < time.Hour:
		return s + fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		return s + fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	default:
		return t.Local().Format(dateLayout)
	}
}

// renderCommandBar renders the key hints, or the search prompt while typing.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searching {
		return styles.Header.Width(m.width).Render(m.searchInput.View())
	}

	segments := []string{m.help.ShortHelpView(m.keys.ShortHelp())}
	if m.searchQuery != "" {
		segments = append(segments, bg.Render("/"+truncate(m.searchQuery, 18), styles.AccentText))
	}
	segments = append(segments,
		bg.Render(m.currentView.String(), styles.InfoText),
		bg.Render("T", styles.AccentText)+bg.Render(":", styles.FaintText)+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(3)))
}
