package styles

// DefaultTheme is the baseline palette: warm oranges over a dark
// surface, matching the STIMULUS brand gradient.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background: "#100C08",
		Panel:      "#1A140E",
		Text:       "#F3EDE6",
		TextMuted:  "#A69582",
		Border:     "#43321F",
		Accent:     "#FF8C00",
		Focus:      "#FFAE00",
		Success:    "#3FB950",
		Warning:    "#FFBF00",
		Error:      "#F85149",
		Prompt:     "#3FB950",
	},
}
