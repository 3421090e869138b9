package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"tokini/internal/viewmodel"
	"tokini/views/components"
)

// WidgetPage renders the full page shell around the widget fragments.
func WidgetPage(data viewmodel.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		htmlClass := ""
		if data.Dark {
			htmlClass = ` class="dark"`
		}
		head := `<!DOCTYPE html><html lang="en"` + htmlClass + `><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(data.Title) + `</title>` +
			`<link rel="stylesheet" href="/static/app.css"></head><body><main class="widget">` +
			`<header class="widget-header"><h1>` + templ.EscapeString(data.Title) + `</h1>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		parts := []templ.Component{
			components.ThemeToggle(data.ThemeIcon),
			templ.Raw(`</header><section class="widget-options">`),
			components.AddOptionForm(data.Options.Full),
			components.OptionsFragment(data.Options),
			templ.Raw(`</section><section class="widget-roll">`),
			components.DiceFragment(data.Dice),
			components.ResultFragment(data.Result),
			templ.Raw(`</section></main>`),
			components.NoticesFragment(data.Notices),
			templ.Raw(`<script src="/static/app.js" defer></script></body></html>`),
		}
		for _, part := range parts {
			if err := part.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
