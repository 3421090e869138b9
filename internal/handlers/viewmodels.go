package handlers

import (
	"tokini/internal/dice"
	"tokini/internal/notify"
	"tokini/internal/options"
	"tokini/internal/theme"
	"tokini/internal/tokini"
	"tokini/internal/viewmodel"
)

const pageTitle = "Tokini"

func buildPage(snapshot tokini.Snapshot) viewmodel.Page {
	return viewmodel.Page{
		Title:     pageTitle,
		Dark:      snapshot.Theme == theme.Dark,
		ThemeIcon: snapshot.Theme.Icon(),
		Options:   buildOptions(snapshot),
		Dice:      buildDice(snapshot),
		Result:    buildResult(snapshot),
		Notices:   buildNotices(snapshot),
	}
}

func buildOptions(snapshot tokini.Snapshot) viewmodel.OptionsFragment {
	items := make([]viewmodel.OptionItem, 0, len(snapshot.Options))
	for i, text := range snapshot.Options {
		items = append(items, viewmodel.OptionItem{Index: i, Text: text})
	}
	return viewmodel.OptionsFragment{
		Options: items,
		Max:     options.MaxOptions,
		Full:    len(items) >= options.MaxOptions,
	}
}

func buildDice(snapshot tokini.Snapshot) viewmodel.DiceFragment {
	return viewmodel.DiceFragment{
		Face:        snapshot.Dice.Face,
		State:       snapshot.Dice.State.String(),
		Rolling:     snapshot.Dice.State == dice.Rolling,
		Bounce:      snapshot.Dice.State == dice.Settling,
		RollEnabled: snapshot.Dice.TriggerEnabled,
	}
}

func buildResult(snapshot tokini.Snapshot) viewmodel.ResultFragment {
	return viewmodel.ResultFragment{Result: snapshot.Dice.Result}
}

func buildNotices(snapshot tokini.Snapshot) viewmodel.NoticesFragment {
	out := make([]viewmodel.Notice, 0, len(snapshot.Notices))
	for _, n := range snapshot.Notices {
		out = append(out, viewmodel.Notice{
			ID:       n.ID,
			Text:     n.Text,
			Severity: string(n.Severity),
			Fading:   n.Fading,
		})
	}
	return viewmodel.NoticesFragment{
		Notices:       out,
		UpdatePrompt:  snapshot.UpdatePrompt,
		UpdateMessage: notify.UpdateMessage,
	}
}
