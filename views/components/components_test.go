package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokini/internal/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestOptionsFragment_EscapesAndIndexes(t *testing.T) {
	html := render(t, OptionsFragment(viewmodel.OptionsFragment{
		Options: []viewmodel.OptionItem{{Index: 0, Text: "<script>"}, {Index: 1, Text: "Sushi"}},
		Max:     10,
	}))
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, `action="/options/1/delete"`)
	assert.Contains(t, html, `data-count="2"`)
}

func TestOptionsFragment_Empty(t *testing.T) {
	html := render(t, OptionsFragment(viewmodel.OptionsFragment{Max: 10}))
	assert.Contains(t, html, "No options yet!")
}

func TestDiceFragment_DisabledWhileRolling(t *testing.T) {
	html := render(t, DiceFragment(viewmodel.DiceFragment{Face: "⚂", State: "rolling", Rolling: true}))
	assert.Contains(t, html, "dice-rolling")
	assert.Contains(t, html, "disabled")
	assert.Contains(t, html, "⚂")

	html = render(t, DiceFragment(viewmodel.DiceFragment{Face: "🎲", State: "shuffling", RollEnabled: true}))
	assert.NotContains(t, html, "disabled")
}

func TestResultFragment(t *testing.T) {
	assert.Contains(t, render(t, ResultFragment(viewmodel.ResultFragment{Result: "Pizza & Co"})), "Pizza &amp; Co")
	assert.NotContains(t, render(t, ResultFragment(viewmodel.ResultFragment{})), "The result is")
}

func TestNoticesFragment(t *testing.T) {
	html := render(t, NoticesFragment(viewmodel.NoticesFragment{
		Notices:       []viewmodel.Notice{{ID: 3, Text: "Please enter an option!", Severity: "error", Fading: true}},
		UpdatePrompt:  true,
		UpdateMessage: "New version available!",
	}))
	assert.Contains(t, html, "notice-error")
	assert.Contains(t, html, "notice-fading")
	assert.Contains(t, html, "New version available!")
	assert.Contains(t, html, "location.reload()")
}

func TestThemeToggle(t *testing.T) {
	assert.Contains(t, render(t, ThemeToggle("light_mode")), "light_mode")
}
