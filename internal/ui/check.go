package ui

import (
	"errors"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/datalayer"
)

// Form fields in focus order.
const (
	fieldCheckedBy = iota
	fieldResult
	fieldNotes
	fieldCount
)

// checkSubmitMsg carries a validated monthly check out of the form.
type checkSubmitMsg struct {
	input datalayer.CheckInput
}

// checkForm is the monthly inspection dialog for one AED.
type checkForm struct {
	record    aed.Record
	checkedBy textinput.Model
	notes     textinput.Model
	resultIdx int
	focus     int
	errors    []string
}

func newCheckForm(rec aed.Record, inspector string) *checkForm {
	by := textinput.New()
	by.Placeholder = "inspector name"
	by.CharLimit = 60
	by.Width = 36
	by.SetValue(inspector)
	by.Focus()

	notes := textinput.New()
	notes.Placeholder = "e.g. status light green, pads sealed"
	notes.CharLimit = 240
	notes.Width = 36

	return &checkForm{record: rec, checkedBy: by, notes: notes}
}

// input returns the form contents as a check submission.
func (f *checkForm) input() datalayer.CheckInput {
	return datalayer.CheckInput{
		Title:     f.record.Title,
		CheckedBy: strings.TrimSpace(f.checkedBy.Value()),
		Status:    aed.CheckStatuses()[f.resultIdx],
		Notes:     strings.TrimSpace(f.notes.Value()),
	}
}

func (f *checkForm) setFocus(idx int) {
	f.focus = (idx + fieldCount) % fieldCount
	f.checkedBy.Blur()
	f.notes.Blur()
	switch f.focus {
	case fieldCheckedBy:
		f.checkedBy.Focus()
	case fieldNotes:
		f.notes.Focus()
	}
}

func (f *checkForm) cycleResult(step int) {
	n := len(aed.CheckStatuses())
	f.resultIdx = (f.resultIdx + step + n) % n
}

// Update implements Modal.
func (f *checkForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true

	case key.Matches(keyMsg, keys.Confirm):
		in := f.input()
		if err := aed.ValidateCheck(in.CheckedBy, in.Status, in.Notes); err != nil {
			f.errors = validationMessages(err)
			return f, nil, false
		}
		return f, func() tea.Msg { return checkSubmitMsg{input: in} }, true

	case key.Matches(keyMsg, keys.Tab), keyMsg.Type == tea.KeyDown:
		f.setFocus(f.focus + 1)
		return f, nil, false

	case key.Matches(keyMsg, keys.ShiftTab), keyMsg.Type == tea.KeyUp:
		f.setFocus(f.focus - 1)
		return f, nil, false
	}

	if f.focus == fieldResult {
		if key.Matches(keyMsg, keys.NextOption) {
			step := 1
			if keyMsg.Type == tea.KeyLeft {
				step = -1
			}
			f.cycleResult(step)
		}
		return f, nil, false
	}

	var cmd tea.Cmd
	if f.focus == fieldCheckedBy {
		f.checkedBy, cmd = f.checkedBy.Update(msg)
	} else {
		f.notes, cmd = f.notes.Update(msg)
	}
	return f, cmd, false
}

// View implements Modal.
func (f *checkForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Monthly Check"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Render(f.record.Title))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(locationLine(f.record)))
	b.WriteString("\n\n")

	fieldLabel := func(idx int, text string) string {
		if f.focus == idx {
			return styles.AccentText.Render(text)
		}
		return styles.MutedText.Render(text)
	}

	b.WriteString(fieldLabel(fieldCheckedBy, "Checked by: "))
	b.WriteString(f.checkedBy.View())
	b.WriteString("\n\n")

	b.WriteString(fieldLabel(fieldResult, "Result:     "))
	result := aed.CheckStatuses()[f.resultIdx]
	b.WriteString(styles.StatusStyle(result).Render(result))
	if f.focus == fieldResult {
		b.WriteString(styles.FaintText.Render("  ←/→"))
	}
	b.WriteString("\n\n")

	b.WriteString(fieldLabel(fieldNotes, "Notes:      "))
	b.WriteString(f.notes.View())
	b.WriteString("\n\n")

	for _, msg := range f.errors {
		b.WriteString(styles.DangerText.Render("! " + msg))
		b.WriteString("\n")
	}
	if len(f.errors) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(60)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// validationMessages flattens a validation error into display lines, ordered
// by field name.
func validationMessages(err error) []string {
	var verr *aed.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, verr.Fields[field])
	}
	return out
}
