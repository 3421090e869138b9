package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"tokini/internal/viewmodel"
)

// DiceFragment renders the dice face and the roll trigger.
func DiceFragment(data viewmodel.DiceFragment) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		rolling, bounce := "", ""
		if data.Rolling {
			rolling = "dice-rolling"
		}
		if data.Bounce {
			bounce = "dice-bounce"
		}
		h.rawf(`<div id="dice" class="dice-area" data-state="%s">`, templ.EscapeString(data.State))
		h.rawf(`<div class="dice-container"><span class="%s" aria-live="polite">`, classes("dice", rolling, bounce))
		h.text(data.Face)
		h.raw(`</span></div>`)
		h.raw(`<form id="rollForm" method="post" action="/roll">`)
		if data.RollEnabled {
			h.raw(`<button id="rollButton" type="submit" class="roll-button">Roll the dice</button>`)
		} else {
			h.raw(`<button id="rollButton" type="submit" class="roll-button" disabled style="pointer-events: none">Rolling...</button>`)
		}
		h.raw(`</form></div>`)
		return h.err
	})
}

// ResultFragment renders the chosen option, or an empty area once cleared.
func ResultFragment(data viewmodel.ResultFragment) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div id="resultArea" class="result-area">`)
		if data.Result != "" {
			h.raw(`<p class="result-label">The result is...</p><p class="result-value">`)
			h.text(data.Result)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}
