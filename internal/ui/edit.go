package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cuems/aedkeeper/internal/aed"
)

// AED form fields in focus order.
const (
	aedTitle = iota
	aedBuilding
	aedBuildingCode
	aedFloor
	aedLocation
	aedLatitude
	aedLongitude
	aedPublic
	aedManufacturer
	aedModel
	aedSerial
	aedBatteryInstalled
	aedBatteryLifespan
	aedPadsInstalled
	aedPadsLifespan
	aedPadsType
	aedNotes
	aedFieldCount
)

var aedFieldLabels = [aedFieldCount]string{
	aedTitle:            "Title",
	aedBuilding:         "Building",
	aedBuildingCode:     "Building code",
	aedFloor:            "Floor",
	aedLocation:         "Location",
	aedLatitude:         "Latitude",
	aedLongitude:        "Longitude",
	aedPublic:           "Public",
	aedManufacturer:     "Manufacturer",
	aedModel:            "Model",
	aedSerial:           "Serial number",
	aedBatteryInstalled: "Battery in",
	aedBatteryLifespan:  "Battery months",
	aedPadsInstalled:    "Pads in",
	aedPadsLifespan:     "Pads months",
	aedPadsType:         "Pads type",
	aedNotes:            "Notes",
}

var aedFieldPlaceholders = [aedFieldCount]string{
	aedTitle:            "CU-AED-001",
	aedBuildingCode:     "optional",
	aedLocation:         "e.g. north entrance, left of elevators",
	aedLatitude:         "40.0076",
	aedLongitude:        "-105.2659",
	aedBatteryInstalled: dateLayout,
	aedBatteryLifespan:  "months",
	aedPadsInstalled:    dateLayout,
	aedPadsLifespan:     "months",
	aedNotes:            "optional",
}

// aedSubmitMsg carries a validated AED record out of the form.
type aedSubmitMsg struct {
	record aed.Record
	isNew  bool
}

// aedForm adds a new AED or edits the selected one. The title of an existing
// AED is its key and cannot be changed here.
type aedForm struct {
	original aed.Record
	isNew    bool
	inputs   [aedFieldCount]textinput.Model
	public   bool
	focus    int
	errors   []string
}

func newAedForm(rec aed.Record, isNew bool) *aedForm {
	if isNew {
		rec.ApplyDefaults()
	}
	f := &aedForm{original: rec, isNew: isNew, public: rec.PubliclyAccessible}

	values := [aedFieldCount]string{
		aedTitle:            rec.Title,
		aedBuilding:         rec.BuildingName,
		aedBuildingCode:     rec.BuildingCode,
		aedFloor:            rec.Floor,
		aedLocation:         rec.SpecificLocationDescription,
		aedManufacturer:     rec.Manufacturer,
		aedModel:            rec.Model,
		aedSerial:           rec.SerialNumber,
		aedBatteryInstalled: formatDateField(rec.BatteryInstallDate),
		aedBatteryLifespan:  formatMonthsField(rec.BatteryLifespanMonths),
		aedPadsInstalled:    formatDateField(rec.PadsInstallDate),
		aedPadsLifespan:     formatMonthsField(rec.PadsLifespanMonths),
		aedPadsType:         rec.PadsType,
		aedNotes:            rec.Notes,
	}
	if !isNew {
		values[aedLatitude] = strconv.FormatFloat(rec.Latitude, 'f', -1, 64)
		values[aedLongitude] = strconv.FormatFloat(rec.Longitude, 'f', -1, 64)
	}

	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = aedFieldPlaceholders[i]
		in.CharLimit = 120
		in.Width = 40
		in.SetValue(values[i])
		f.inputs[i] = in
	}

	if isNew {
		f.setFocus(aedTitle)
	} else {
		f.setFocus(aedBuilding)
	}
	return f
}

func formatDateField(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatMonthsField(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (f *aedForm) setFocus(idx int) {
	f.focus = idx
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if idx != aedPublic {
		f.inputs[idx].Focus()
	}
}

// move steps the focus, skipping the title when editing.
func (f *aedForm) move(step int) {
	next := f.focus
	for {
		next = (next + step + aedFieldCount) % aedFieldCount
		if next != aedTitle || f.isNew {
			break
		}
	}
	f.setFocus(next)
}

func (f *aedForm) value(idx int) string {
	return strings.TrimSpace(f.inputs[idx].Value())
}

// record builds the AED from the form. Fields that do not parse are returned
// as display messages.
func (f *aedForm) record() (aed.Record, []string) {
	rec := f.original
	if f.isNew {
		rec.Title = f.value(aedTitle)
	}
	rec.BuildingName = f.value(aedBuilding)
	rec.BuildingCode = f.value(aedBuildingCode)
	rec.Floor = f.value(aedFloor)
	rec.SpecificLocationDescription = f.value(aedLocation)
	rec.PubliclyAccessible = f.public
	rec.Manufacturer = f.value(aedManufacturer)
	rec.Model = f.value(aedModel)
	rec.SerialNumber = f.value(aedSerial)
	rec.PadsType = f.value(aedPadsType)
	rec.Notes = f.value(aedNotes)

	var problems []string
	number := func(idx int, dst *float64) {
		v := f.value(idx)
		if v == "" {
			*dst = 0
			return
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			problems = append(problems, aedFieldLabels[idx]+" must be a number")
			return
		}
		*dst = n
	}
	months := func(idx int, dst *int) {
		v := f.value(idx)
		if v == "" {
			*dst = 0
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, aedFieldLabels[idx]+" must be a whole number")
			return
		}
		*dst = n
	}
	date := func(idx int, dst *time.Time) {
		v := f.value(idx)
		if v == "" {
			*dst = time.Time{}
			return
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a date like %s", aedFieldLabels[idx], dateLayout))
			return
		}
		*dst = t
	}

	number(aedLatitude, &rec.Latitude)
	number(aedLongitude, &rec.Longitude)
	date(aedBatteryInstalled, &rec.BatteryInstallDate)
	months(aedBatteryLifespan, &rec.BatteryLifespanMonths)
	date(aedPadsInstalled, &rec.PadsInstallDate)
	months(aedPadsLifespan, &rec.PadsLifespanMonths)

	rec.ApplyDefaults()
	rec.NormalizeExpiry()
	return rec, problems
}

// Update implements Modal.
func (f *aedForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true

	case key.Matches(keyMsg, keys.Confirm):
		rec, problems := f.record()
		if len(problems) > 0 {
			f.errors = problems
			return f, nil, false
		}
		if err := aed.Validate(rec); err != nil {
			f.errors = validationMessages(err)
			return f, nil, false
		}
		isNew := f.isNew
		return f, func() tea.Msg { return aedSubmitMsg{record: rec, isNew: isNew} }, true

	case key.Matches(keyMsg, keys.Tab), keyMsg.Type == tea.KeyDown:
		f.move(1)
		return f, nil, false

	case key.Matches(keyMsg, keys.ShiftTab), keyMsg.Type == tea.KeyUp:
		f.move(-1)
		return f, nil, false
	}

	if f.focus == aedPublic {
		if key.Matches(keyMsg, keys.NextOption) {
			f.public = !f.public
		}
		return f, nil, false
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

// View implements Modal.
func (f *aedForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	title := "Edit AED"
	if f.isNew {
		title = "Add AED"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	if !f.isNew {
		b.WriteString("  ")
		b.WriteString(styles.AccentText.Render(f.original.Title))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 56)))
	b.WriteString("\n")

	for i := 0; i < aedFieldCount; i++ {
		if i == aedTitle && !f.isNew {
			continue
		}
		label := fmt.Sprintf("%-15s", aedFieldLabels[i]+":")
		if f.focus == i {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		if i == aedPublic {
			b.WriteString(styles.Text.Render(yesNo(f.public)))
			if f.focus == aedPublic {
				b.WriteString(styles.FaintText.Render("  space to toggle"))
			}
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

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
		Padding(0, 2).
		Width(70)

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

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
