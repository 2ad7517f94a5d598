package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zendapi/moxygen/pkg/pipeline"
)

func pickerOutputs() []pipeline.Output {
	return []pipeline.Output{
		{Name: "core", Path: "api_core.md"},
		{Name: "io", Path: "api_io.md"},
		{Name: "util", Path: "api_util.md"},
	}
}

func press(t *testing.T, m GroupPickerModel, keys ...string) GroupPickerModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(GroupPickerModel)
		require.True(t, ok)
	}
	return m
}

func names(outputs []pipeline.Output) []string {
	var out []string
	for _, o := range outputs {
		out = append(out, o.Name)
	}
	return out
}

func TestGroupPickerStartsWithAllSelected(t *testing.T) {
	m := NewGroupPickerModel(pickerOutputs())
	assert.Equal(t, []bool{true, true, true}, m.Selected)
	assert.Nil(t, m.Chosen(), "nothing is chosen before confirming")

	m = press(t, m, "enter")
	assert.Equal(t, []string{"core", "io", "util"}, names(m.Chosen()))
}

func TestGroupPickerToggle(t *testing.T) {
	m := NewGroupPickerModel(pickerOutputs())
	before := m

	m = press(t, m, "j", " ", "j", "k", "enter")
	assert.Equal(t, 1, m.Cursor)
	assert.Equal(t, []string{"core", "util"}, names(m.Chosen()))
	assert.True(t, before.Selected[1], "earlier model states are not modified")
}

func TestGroupPickerToggleAll(t *testing.T) {
	m := press(t, NewGroupPickerModel(pickerOutputs()), "a")
	assert.Equal(t, []bool{false, false, false}, m.Selected)

	m = press(t, m, "x", "a")
	assert.Equal(t, []bool{true, true, true}, m.Selected)
}

func TestGroupPickerCursorBounds(t *testing.T) {
	m := press(t, NewGroupPickerModel(pickerOutputs()), "k", "j", "j", "j", "j")
	assert.Equal(t, 2, m.Cursor)
}

func TestGroupPickerAbort(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		m := press(t, NewGroupPickerModel(pickerOutputs()), key)
		assert.False(t, m.Confirmed)
		assert.Nil(t, m.Chosen())
	}
}

func TestGroupPickerScrolls(t *testing.T) {
	m := NewGroupPickerModel(pickerOutputs())
	m.Height = 2
	m = press(t, m, "j", "j")
	assert.Equal(t, 1, m.Offset)
	m = press(t, m, "k", "k")
	assert.Equal(t, 0, m.Offset)
}

func TestGroupPickerView(t *testing.T) {
	m := press(t, NewGroupPickerModel(pickerOutputs()), " ")
	view := m.View()
	assert.Contains(t, view, "Select Groups")
	assert.Contains(t, view, "api_io.md")
	assert.Contains(t, view, "2 selected")
}
