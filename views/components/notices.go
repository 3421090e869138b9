package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"tokini/internal/viewmodel"
)

// NoticesFragment renders transient notices and the update prompt.
func NoticesFragment(data viewmodel.NoticesFragment) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div id="notices" class="notices">`)
		for _, n := range data.Notices {
			fading := ""
			if n.Fading {
				fading = "notice-fading"
			}
			h.rawf(`<div class="%s" data-id="%d" role="status">`, classes("notice", "notice-"+templ.EscapeString(n.Severity), fading), n.ID)
			h.text(n.Text)
			h.raw(`</div>`)
		}
		if data.UpdatePrompt {
			h.raw(`<div class="update-prompt"><span>`)
			h.text(data.UpdateMessage)
			h.raw(`</span><button type="button" onclick="location.reload()">Update</button>`)
			h.raw(`<form method="post" action="/update/dismiss"><button type="submit" aria-label="Dismiss">×</button></form></div>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// ThemeToggle renders the theme switch, labelled with the theme it switches to.
func ThemeToggle(icon string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form id="themeForm" method="post" action="/theme/toggle">`)
		h.raw(`<button id="themeToggle" type="submit" aria-label="Toggle theme"><span id="themeIcon" class="material-symbols-outlined">`)
		h.text(icon)
		h.raw(`</span></button></form>`)
		return h.err
	})
}
