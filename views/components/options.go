package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"tokini/internal/viewmodel"
)

// OptionsFragment renders the option list with a remove button per row.
func OptionsFragment(data viewmodel.OptionsFragment) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.rawf(`<div id="optionsList" class="options-list" data-count="%d" data-max="%d">`, len(data.Options), data.Max)
		if len(data.Options) == 0 {
			h.raw(`<div class="options-empty"><p>No options yet! Add some above 📝</p></div>`)
		}
		for _, option := range data.Options {
			h.raw(`<div class="option-item"><p>`)
			h.text(option.Text)
			h.rawf(`</p><form method="post" action="/options/%d/delete">`, option.Index)
			h.raw(`<button type="submit" class="option-remove" aria-label="Remove option"><span class="material-symbols-outlined">close</span></button>`)
			h.raw(`</form></div>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// AddOptionForm renders the input used to add options.
func AddOptionForm(full bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form id="addForm" method="post" action="/options" class="add-form">`)
		h.raw(`<input id="optionInput" name="option" type="text" autocomplete="off" placeholder="Add an option..." maxlength="200">`)
		h.raw(`<button id="addButton" type="submit">Add</button>`)
		h.raw(`</form>`)
		if full {
			h.raw(`<p class="options-full">The list is full.</p>`)
		}
		return h.err
	})
}
