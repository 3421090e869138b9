package viewmodel

// Page holds data for the full widget page.
type Page struct {
	Title     string
	Dark      bool
	ThemeIcon string
	Options   OptionsFragment
	Dice      DiceFragment
	Result    ResultFragment
	Notices   NoticesFragment
}

// OptionItem is one row of the option list.
type OptionItem struct {
	Index int
	Text  string
}

// OptionsFragment holds data for the option list.
type OptionsFragment struct {
	Options []OptionItem
	Max     int
	Full    bool
}

// DiceFragment holds data for the dice and the roll trigger.
type DiceFragment struct {
	Face        string
	State       string
	Rolling     bool
	Bounce      bool
	RollEnabled bool
}

// ResultFragment holds the displayed result, empty when cleared.
type ResultFragment struct {
	Result string
}

// Notice is one transient message.
type Notice struct {
	ID       uint64
	Text     string
	Severity string
	Fading   bool
}

// NoticesFragment holds the notice stack and the update prompt.
type NoticesFragment struct {
	Notices       []Notice
	UpdatePrompt  bool
	UpdateMessage string
}
