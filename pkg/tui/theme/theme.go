package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header   HeaderTheme
	Footer   FooterTheme
	Carousel CarouselTheme
	Filter   FilterTheme
	List     ListTheme
	Detail   DetailTheme
	Form     FormTheme
	Toast    ToastTheme
	Modal    ModalTheme
}

// HeaderTheme styles the top bar with the app name, language and user.
type HeaderTheme struct {
	Title lipgloss.Style
	Info  lipgloss.Style
	Badge lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
	CommandSelectedDesc lipgloss.Style
}

// CarouselTheme styles the featured slides and their dots.
type CarouselTheme struct {
	Frame     lipgloss.Style
	Title     lipgloss.Style
	Meta      lipgloss.Style
	Dot       lipgloss.Style
	ActiveDot lipgloss.Style
}

// FilterTheme styles the discovery bar.
type FilterTheme struct {
	Label      lipgloss.Style
	Chip       lipgloss.Style
	ActiveChip lipgloss.Style
	Focused    lipgloss.Style
}

// ListTheme styles event rows.
type ListTheme struct {
	Title      lipgloss.Style
	Row        lipgloss.Style
	Selected   lipgloss.Style
	Meta       lipgloss.Style
	Bookmarked lipgloss.Style
	Empty      lipgloss.Style
}

// DetailTheme styles the event detail overlay.
type DetailTheme struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Body   lipgloss.Style
	Stars  lipgloss.Style
	Review lipgloss.Style
}

// FormTheme styles the input forms.
type FormTheme struct {
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style
}

// ToastTheme styles notifications by severity.
type ToastTheme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// ModalTheme styles centered overlays.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	commandName := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	commandDesc := lipgloss.NewStyle().Foreground(muted)

	chip := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("250"))
	toast := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	return Theme{
		Header: HeaderTheme{
			Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
			Info:  lipgloss.NewStyle().Foreground(muted),
			Badge: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("86")).Padding(0, 1),
		},
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:              lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
			CommandName:         commandName,
			CommandDescription:  commandDesc,
			CommandSelectedName: commandName.Reverse(true),
			CommandSelectedDesc: commandDesc.Reverse(true),
		},
		Carousel: CarouselTheme{
			Frame:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
			Title:     lipgloss.NewStyle().Bold(true),
			Meta:      lipgloss.NewStyle().Foreground(muted),
			Dot:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			ActiveDot: lipgloss.NewStyle().Foreground(accent),
		},
		Filter: FilterTheme{
			Label:      lipgloss.NewStyle().Foreground(muted),
			Chip:       chip,
			ActiveChip: chip.Foreground(lipgloss.Color("0")).Background(accent),
			Focused:    lipgloss.NewStyle().Underline(true),
		},
		List: ListTheme{
			Title:      lipgloss.NewStyle().Bold(true),
			Row:        lipgloss.NewStyle(),
			Selected:   lipgloss.NewStyle().Reverse(true),
			Meta:       lipgloss.NewStyle().Foreground(muted),
			Bookmarked: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			Empty:      lipgloss.NewStyle().Italic(true).Foreground(muted),
		},
		Detail: DetailTheme{
			Title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
			Label:  lipgloss.NewStyle().Foreground(muted),
			Body:   lipgloss.NewStyle(),
			Stars:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			Review: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		},
		Form: FormTheme{
			Label:   lipgloss.NewStyle().Foreground(muted),
			Focused: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
			Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
		Toast: ToastTheme{
			Success: toast.BorderForeground(lipgloss.Color("42")),
			Error:   toast.BorderForeground(lipgloss.Color("#FF5F5F")),
			Info:    toast.BorderForeground(lipgloss.Color("39")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}
