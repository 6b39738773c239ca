package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/siftlab/sift/internal/export"
	"github.com/siftlab/sift/internal/filter"
	"github.com/siftlab/sift/internal/schema"
	"github.com/siftlab/sift/internal/ui/theme"
)

// ApplyFilterMsg is sent when a validated condition set should be applied.
type ApplyFilterMsg struct {
	Conditions []filter.Condition
}

// CloseFilterBuilderMsg is sent when the filter builder should close.
type CloseFilterBuilderMsg struct{}

// SaveViewMsg is sent when the current condition set should be saved under a
// name.
type SaveViewMsg struct {
	Name       string
	Conditions []filter.Condition
}

// FilterBuilder provides an interactive UI for building filter conditions.
// Edit flow per condition: field → operator → value, with the value editor
// shaped by the field type. Apply is refused while any condition fails
// validation; errors render inline, keyed by condition ID.
type FilterBuilder struct {
	Width  int
	Height int
	Theme  theme.Theme

	schema     *schema.Schema
	conditions []filter.Condition
	errors     map[string]string

	currentIndex int
	editMode     string // "", "field", "operator", "value", "save"
	editingIndex int    // index being edited in place, -1 when appending

	fieldIndex    int
	selectedField schema.FieldDefinition
	availableOps  []schema.OperatorDefinition
	operatorIndex int

	valueInput      textinput.Model
	rangePart       int    // 0 = min/start, 1 = max/end
	rangeFirst      string // committed first bound
	optionIndex     int
	selectedOptions map[string]bool
	boolValue       bool

	nameInput textinput.Model
}

// NewFilterBuilder creates a filter builder over the schema.
func NewFilterBuilder(th theme.Theme, s *schema.Schema) *FilterBuilder {
	vi := textinput.New()
	vi.CharLimit = 256
	vi.Width = 40

	ni := textinput.New()
	ni.Placeholder = "view name"
	ni.CharLimit = 64
	ni.Width = 30

	return &FilterBuilder{
		Width:        80,
		Height:       30,
		Theme:        th,
		schema:       s,
		errors:       map[string]string{},
		editingIndex: -1,
		valueInput:   vi,
		nameInput:    ni,
	}
}

// Conditions returns the current condition set.
func (fb *FilterBuilder) Conditions() []filter.Condition {
	return fb.conditions
}

// SetConditions replaces the condition set, e.g. when restoring a saved
// view.
func (fb *FilterBuilder) SetConditions(conds []filter.Condition) {
	fb.conditions = append([]filter.Condition(nil), conds...)
	fb.errors = map[string]string{}
	fb.currentIndex = 0
	fb.editMode = ""
	fb.editingIndex = -1
}

// Update handles keyboard input.
func (fb *FilterBuilder) Update(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch fb.editMode {
	case "":
		return fb.handleNavigationMode(msg)
	case "field":
		return fb.handleFieldMode(msg)
	case "operator":
		return fb.handleOperatorMode(msg)
	case "value":
		return fb.handleValueMode(msg)
	case "save":
		return fb.handleSaveMode(msg)
	}
	return fb, nil
}

func (fb *FilterBuilder) handleNavigationMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fb.currentIndex > 0 {
			fb.currentIndex--
		}
	case "down", "j":
		if fb.currentIndex < len(fb.conditions)-1 {
			fb.currentIndex++
		}
	case "a", "n":
		fb.editingIndex = -1
		fb.beginFieldEntry()
	case "e":
		if fb.currentIndex < len(fb.conditions) {
			fb.editingIndex = fb.currentIndex
			fb.beginFieldEntry()
		}
	case "d", "x":
		if fb.currentIndex < len(fb.conditions) {
			removed := fb.conditions[fb.currentIndex]
			fb.conditions = append(
				fb.conditions[:fb.currentIndex],
				fb.conditions[fb.currentIndex+1:]...,
			)
			delete(fb.errors, removed.ID)
			if fb.currentIndex > 0 && fb.currentIndex >= len(fb.conditions) {
				fb.currentIndex--
			}
		}
	case "s":
		if len(fb.conditions) > 0 && fb.validate() {
			fb.nameInput.SetValue("")
			fb.nameInput.Focus()
			fb.editMode = "save"
		}
	case "enter":
		if !fb.validate() {
			return fb, nil
		}
		conds := append([]filter.Condition(nil), fb.conditions...)
		return fb, func() tea.Msg {
			return ApplyFilterMsg{Conditions: conds}
		}
	case "esc":
		return fb, func() tea.Msg {
			return CloseFilterBuilderMsg{}
		}
	}
	return fb, nil
}

// validate refreshes the error map and reports whether the whole set is
// ready to apply.
func (fb *FilterBuilder) validate() bool {
	fb.errors = filter.ValidateAll(fb.conditions, fb.schema)
	return len(fb.errors) == 0
}

func (fb *FilterBuilder) beginFieldEntry() {
	fb.fieldIndex = 0
	if fb.editingIndex >= 0 {
		for i, f := range fb.schema.Fields {
			if f.Key == fb.conditions[fb.editingIndex].Field {
				fb.fieldIndex = i
				break
			}
		}
	}
	fb.editMode = "field"
}

func (fb *FilterBuilder) handleFieldMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = ""
		fb.editingIndex = -1
	case "up", "k":
		if fb.fieldIndex > 0 {
			fb.fieldIndex--
		}
	case "down", "j":
		if fb.fieldIndex < len(fb.schema.Fields)-1 {
			fb.fieldIndex++
		}
	case "enter":
		fb.selectedField = fb.schema.Fields[fb.fieldIndex]
		fb.availableOps = schema.OperatorsFor(fb.selectedField.Type)
		fb.operatorIndex = 0
		fb.editMode = "operator"
	}
	return fb, nil
}

func (fb *FilterBuilder) handleOperatorMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = "field"
	case "up", "k":
		if fb.operatorIndex > 0 {
			fb.operatorIndex--
		}
	case "down", "j":
		if fb.operatorIndex < len(fb.availableOps)-1 {
			fb.operatorIndex++
		}
	case "enter":
		fb.beginValueEntry()
	}
	return fb, nil
}

func (fb *FilterBuilder) beginValueEntry() {
	fb.rangePart = 0
	fb.rangeFirst = ""
	fb.optionIndex = 0
	fb.selectedOptions = map[string]bool{}
	fb.boolValue = false
	fb.valueInput.SetValue("")
	fb.valueInput.Placeholder = fb.valuePlaceholder()
	fb.valueInput.Focus()
	fb.editMode = "value"
}

func (fb *FilterBuilder) valuePlaceholder() string {
	op := fb.availableOps[fb.operatorIndex].Value
	if op == schema.OpBetween {
		if fb.selectedField.Type == schema.FieldDate {
			return "start (YYYY-MM-DD)"
		}
		return "min"
	}
	if fb.selectedField.Type == schema.FieldNumber || fb.selectedField.Type == schema.FieldAmount {
		return "number"
	}
	return "value"
}

func (fb *FilterBuilder) handleValueMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	op := fb.availableOps[fb.operatorIndex].Value

	switch fb.selectedField.Type {
	case schema.FieldBoolean:
		switch msg.String() {
		case "esc":
			fb.editMode = "operator"
		case "left", "right", " ":
			fb.boolValue = !fb.boolValue
		case "enter":
			fb.commitCondition(fb.boolValue)
		}
		return fb, nil

	case schema.FieldSingleSelect:
		switch msg.String() {
		case "esc":
			fb.editMode = "operator"
		case "up", "k":
			if fb.optionIndex > 0 {
				fb.optionIndex--
			}
		case "down", "j":
			if fb.optionIndex < len(fb.selectedField.Options)-1 {
				fb.optionIndex++
			}
		case "enter":
			fb.commitCondition(fb.selectedField.Options[fb.optionIndex])
		}
		return fb, nil

	case schema.FieldMultiSelect:
		switch msg.String() {
		case "esc":
			fb.editMode = "operator"
		case "up", "k":
			if fb.optionIndex > 0 {
				fb.optionIndex--
			}
		case "down", "j":
			if fb.optionIndex < len(fb.selectedField.Options)-1 {
				fb.optionIndex++
			}
		case " ":
			opt := fb.selectedField.Options[fb.optionIndex]
			fb.selectedOptions[opt] = !fb.selectedOptions[opt]
		case "enter":
			// Keep schema option order in the committed selection.
			var chosen []string
			for _, opt := range fb.selectedField.Options {
				if fb.selectedOptions[opt] {
					chosen = append(chosen, opt)
				}
			}
			if chosen == nil {
				chosen = []string{}
			}
			fb.commitCondition(chosen)
		}
		return fb, nil
	}

	// Text-entry value editors.
	switch msg.String() {
	case "esc":
		fb.editMode = "operator"
		fb.rangePart = 0
	case "enter":
		text := strings.TrimSpace(fb.valueInput.Value())
		if op == schema.OpBetween {
			if fb.rangePart == 0 {
				fb.rangeFirst = text
				fb.rangePart = 1
				fb.valueInput.SetValue("")
				if fb.selectedField.Type == schema.FieldDate {
					fb.valueInput.Placeholder = "end (YYYY-MM-DD)"
				} else {
					fb.valueInput.Placeholder = "max"
				}
				return fb, nil
			}
			fb.commitCondition(fb.rangeValue(fb.rangeFirst, text))
			return fb, nil
		}
		fb.commitCondition(fb.scalarValue(text))
	default:
		var cmd tea.Cmd
		fb.valueInput, cmd = fb.valueInput.Update(msg)
		return fb, cmd
	}
	return fb, nil
}

// rangeValue builds the between value. Numeric bounds that do not parse are
// kept raw so validation reports them instead of silently becoming zero.
func (fb *FilterBuilder) rangeValue(first, second string) any {
	if fb.selectedField.Type == schema.FieldDate {
		return filter.DateRange{Start: first, End: second}
	}
	min, errMin := strconv.ParseFloat(first, 64)
	max, errMax := strconv.ParseFloat(second, 64)
	if errMin != nil || errMax != nil {
		return map[string]any{"min": first, "max": second}
	}
	return filter.NumberRange{Min: min, Max: max}
}

func (fb *FilterBuilder) scalarValue(text string) any {
	switch fb.selectedField.Type {
	case schema.FieldNumber, schema.FieldAmount:
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return n
		}
		return text
	default:
		return text
	}
}

func (fb *FilterBuilder) commitCondition(value any) {
	op := fb.availableOps[fb.operatorIndex].Value

	if fb.editingIndex >= 0 {
		// Mutate in place: the condition keeps its identity across edits.
		cond := &fb.conditions[fb.editingIndex]
		cond.Field = fb.selectedField.Key
		cond.Operator = op
		cond.Value = value
		delete(fb.errors, cond.ID)
	} else {
		cond := filter.NewCondition(fb.selectedField)
		cond.Operator = op
		cond.Value = value
		fb.conditions = append(fb.conditions, cond)
		fb.currentIndex = len(fb.conditions) - 1
	}

	fb.editMode = ""
	fb.editingIndex = -1
}

func (fb *FilterBuilder) handleSaveMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = ""
	case "enter":
		name := strings.TrimSpace(fb.nameInput.Value())
		if name == "" {
			return fb, nil
		}
		conds := append([]filter.Condition(nil), fb.conditions...)
		fb.editMode = ""
		return fb, func() tea.Msg {
			return SaveViewMsg{Name: name, Conditions: conds}
		}
	default:
		var cmd tea.Cmd
		fb.nameInput, cmd = fb.nameInput.Update(msg)
		return fb, cmd
	}
	return fb, nil
}

// View renders the filter builder.
func (fb *FilterBuilder) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Foreground).
		Background(fb.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Filters"))

	instructionStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instructionStyle.Render(fb.instructions()))

	if len(fb.conditions) > 0 {
		sections = append(sections, "")
		errorStyle := lipgloss.NewStyle().Foreground(fb.Theme.Error).Padding(0, 3)
		for i, cond := range fb.conditions {
			style := lipgloss.NewStyle().Padding(0, 1)
			if i == fb.currentIndex && fb.editMode == "" {
				style = style.Background(fb.Theme.Selection).Foreground(fb.Theme.Foreground)
			}
			sections = append(sections, style.Render(fmt.Sprintf("%d. %s", i+1, fb.describe(cond))))
			if msg, ok := fb.errors[cond.ID]; ok {
				sections = append(sections, errorStyle.Render("✗ "+msg))
			}
		}
	} else if fb.editMode == "" {
		sections = append(sections, "", instructionStyle.Render("(no conditions)"))
	}

	if edit := fb.renderEditArea(); edit != "" {
		sections = append(sections, "", edit)
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fb.Theme.BorderFocused).
		Width(fb.Width).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

func (fb *FilterBuilder) instructions() string {
	switch fb.editMode {
	case "field":
		return "↑↓ select field, Enter to confirm, Esc to cancel"
	case "operator":
		return "↑↓ select operator, Enter to confirm, Esc to go back"
	case "value":
		switch fb.selectedField.Type {
		case schema.FieldBoolean:
			return "←→ toggle, Enter to confirm, Esc to go back"
		case schema.FieldSingleSelect:
			return "↑↓ select option, Enter to confirm, Esc to go back"
		case schema.FieldMultiSelect:
			return "↑↓ move, Space to toggle, Enter to confirm, Esc to go back"
		default:
			return "type value, Enter to confirm, Esc to go back"
		}
	case "save":
		return "type view name, Enter to save, Esc to cancel"
	default:
		return "a=add e=edit d=delete s=save view Enter=apply Esc=close"
	}
}

func (fb *FilterBuilder) describe(cond filter.Condition) string {
	def, _ := fb.schema.Field(cond.Field)
	label := def.Label
	if label == "" {
		label = cond.Field
	}

	opLabel := string(cond.Operator)
	for _, op := range schema.OperatorsFor(def.Type) {
		if op.Value == cond.Operator {
			opLabel = op.Label
			break
		}
	}

	return fmt.Sprintf("%s %s %s", label, opLabel, describeValue(def, cond.Value))
}

func describeValue(def schema.FieldDefinition, v any) string {
	switch t := v.(type) {
	case filter.NumberRange:
		return fmt.Sprintf("%s – %s",
			export.FormatValue(def, t.Min), export.FormatValue(def, t.Max))
	case filter.DateRange:
		return fmt.Sprintf("%s – %s", t.Start, t.End)
	default:
		return export.FormatValue(def, v)
	}
}

func (fb *FilterBuilder) renderEditArea() string {
	selectedStyle := lipgloss.NewStyle().
		Background(fb.Theme.Selection).
		Foreground(fb.Theme.Foreground).
		Padding(0, 1)
	plainStyle := lipgloss.NewStyle().Padding(0, 1)

	switch fb.editMode {
	case "field":
		var lines []string
		lines = append(lines, "Field:")
		for i, f := range fb.schema.Fields {
			style := plainStyle
			if i == fb.fieldIndex {
				style = selectedStyle
			}
			lines = append(lines, style.Render(fmt.Sprintf("%s (%s)", fieldLabel(f), f.Type)))
		}
		return strings.Join(lines, "\n")

	case "operator":
		var lines []string
		lines = append(lines, fmt.Sprintf("Field: %s", fieldLabel(fb.selectedField)))
		lines = append(lines, "Operator:")
		for i, op := range fb.availableOps {
			style := plainStyle
			if i == fb.operatorIndex {
				style = selectedStyle
			}
			lines = append(lines, style.Render(op.Label))
		}
		return strings.Join(lines, "\n")

	case "value":
		header := fmt.Sprintf("%s %s", fieldLabel(fb.selectedField), fb.availableOps[fb.operatorIndex].Label)
		switch fb.selectedField.Type {
		case schema.FieldBoolean:
			return fmt.Sprintf("%s\nValue: %t", header, fb.boolValue)
		case schema.FieldSingleSelect, schema.FieldMultiSelect:
			var lines []string
			lines = append(lines, header)
			for i, opt := range fb.selectedField.Options {
				marker := "  "
				if fb.selectedField.Type == schema.FieldMultiSelect {
					marker = "[ ] "
					if fb.selectedOptions[opt] {
						marker = "[x] "
					}
				}
				style := plainStyle
				if i == fb.optionIndex {
					style = selectedStyle
				}
				lines = append(lines, style.Render(marker+opt))
			}
			return strings.Join(lines, "\n")
		default:
			if fb.availableOps[fb.operatorIndex].Value == schema.OpBetween && fb.rangePart == 1 {
				return fmt.Sprintf("%s\nFirst: %s\n%s", header, fb.rangeFirst, fb.valueInput.View())
			}
			return fmt.Sprintf("%s\n%s", header, fb.valueInput.View())
		}

	case "save":
		return fmt.Sprintf("Save view as:\n%s", fb.nameInput.View())
	}
	return ""
}
