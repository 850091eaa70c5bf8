package styles

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Color        Color
	Doc          lipgloss.Style
	TitleBar     lipgloss.Style
	SubtitleBar  lipgloss.Style
	ActionTitle  lipgloss.Style
	ActionBody   lipgloss.Style
	Green        lipgloss.Style
	Red          lipgloss.Style
	Yellow       lipgloss.Style
	Subtle       lipgloss.Style
	Soft         lipgloss.Style
	Medium       lipgloss.Style
	Hard         lipgloss.Style
	Intermediate lipgloss.Style
	Wet          lipgloss.Style
}

type Color struct {
	Red               lipgloss.Color
	Yellow            lipgloss.Color
	Green             lipgloss.Color
	Orange            lipgloss.Color
	WetTire           lipgloss.Color
	IntermediateTire  lipgloss.Color
	HardTire          lipgloss.Color
	MediumTire        lipgloss.Color
	SoftTire          lipgloss.Color
	FiaBlue           lipgloss.Color
	Light             lipgloss.Color
	Dark              lipgloss.Color
	Subtle            lipgloss.AdaptiveColor
	PrimaryForeground lipgloss.AdaptiveColor
}

func Default() *Style {
	red := lipgloss.Color("#CF040E")
	yellow := lipgloss.Color("#FAD105")
	green := lipgloss.Color("#17C81D")
	orange := lipgloss.Color("#F77C14")
	wet := lipgloss.Color("#1277EF")
	intermediate := lipgloss.Color("#2EA43F")
	hard := lipgloss.Color("#D4DFE8")
	medium := lipgloss.Color("#E4E344")
	soft := lipgloss.Color("#FA5A55")
	fiaBlue := lipgloss.Color("#0B203B")
	light := lipgloss.Color("#D1D4DD")
	dark := lipgloss.Color("#383838")
	subtle := lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	primaryForeground := lipgloss.AdaptiveColor{Light: "#383838", Dark: "#D9DCCF"}

	return &Style{
		Color: Color{
			// F1 colors
			Red:              red,
			Yellow:           yellow,
			Green:            green,
			Orange:           orange,
			WetTire:          wet,
			IntermediateTire: intermediate,
			HardTire:         hard,
			MediumTire:       medium,
			SoftTire:         soft,
			FiaBlue:          fiaBlue,
			// Thematic colors
			Light:             light,
			Dark:              dark,
			Subtle:            subtle,
			PrimaryForeground: primaryForeground,
		},
		Doc: lipgloss.NewStyle().Margin(1, 1),
		// header styles
		TitleBar: lipgloss.NewStyle().
			Align(lipgloss.Center).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primaryForeground).
			Foreground(primaryForeground),
		SubtitleBar: lipgloss.NewStyle().
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primaryForeground).
			Foreground(primaryForeground),
		// recommendation callout (i.e. PIT NOW / STAY OUT) styles
		ActionTitle: lipgloss.NewStyle().
			AlignVertical(lipgloss.Center).
			Background(dark).
			Bold(true).
			Foreground(light).
			Padding(0, 2),
		ActionBody: lipgloss.NewStyle().
			AlignVertical(lipgloss.Center).
			Background(light).
			Foreground(dark).
			Padding(0, 2),
		Green:  lipgloss.NewStyle().Foreground(green),
		Red:    lipgloss.NewStyle().Foreground(red),
		Yellow: lipgloss.NewStyle().Foreground(yellow),
		Subtle: lipgloss.NewStyle().Foreground(subtle),
		// tire compound styles
		Soft:         lipgloss.NewStyle().Foreground(soft),
		Medium:       lipgloss.NewStyle().Foreground(medium),
		Hard:         lipgloss.NewStyle().Foreground(hard),
		Intermediate: lipgloss.NewStyle().Foreground(intermediate),
		Wet:          lipgloss.NewStyle().Foreground(wet),
	}
}
