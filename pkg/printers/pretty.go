package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/iqevents/pkg/app"
	"tableflip.dev/iqevents/pkg/assistant"
	"tableflip.dev/iqevents/pkg/catalog"
	"tableflip.dev/iqevents/pkg/event"
)

const (
	layoutDate = "Mon Jan 2 2006 15:04"
	wrapWidth  = 76
)

// PrettyPrint renders domain values for the terminal in one language.
type PrettyPrint struct {
	Out    io.Writer
	Lang   event.Language
	ShowID bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) lang() event.Language {
	if pp.Lang == "" {
		return event.English
	}
	return pp.Lang
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " event")
	default:
		_, _ = c.Fprintln(pp.out(), " events")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Events prints one row per event. Bookmarked events are starred.
func (pp *PrettyPrint) Events(evs []event.Event, bookmarks map[string]struct{}) {
	if len(evs) == 0 {
		pp.none()
		return
	}
	lang := pp.lang()
	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	header := []any{bold.Sprint("Date"), bold.Sprint("Title"), bold.Sprint("City"), bold.Sprint("Category"), bold.Sprint("Rating"), ""}
	if pp.ShowID {
		header = append([]any{bold.Sprint("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, e := range evs {
		mark := ""
		if _, ok := bookmarks[e.ID]; ok {
			mark = "★"
		}
		row := []any{
			e.Date.Local().Format("Jan 2 15:04"),
			e.Title.Get(lang),
			catalog.CityName(e.CityID, lang),
			catalog.CategoryName(e.CategoryID, lang),
			rating(e),
			mark,
		}
		if pp.ShowID {
			row = append([]any{y.Sprint(e.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func rating(e event.Event) string {
	avg, n := e.AverageRating()
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d)", avg, n)
}

// Event prints the full listing with its reviews.
func (pp *PrettyPrint) Event(e event.Event, bookmarked bool) {
	lang := pp.lang()
	faint := color.New(color.Faint)
	label := color.New(color.Bold)

	title := e.Title.Get(lang)
	if bookmarked {
		title += " ★"
	}
	pp.Title(title)
	if pp.ShowID {
		_, _ = faint.Fprintln(pp.out(), e.ID)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	tbl.AddRow(label.Sprint("When"), e.Date.Local().Format(layoutDate))
	tbl.AddRow(label.Sprint("Where"), fmt.Sprintf("%s, %s", e.Venue, catalog.CityName(e.CityID, lang)))
	tbl.AddRow(label.Sprint("Category"), catalog.CategoryName(e.CategoryID, lang))
	tbl.AddRow(label.Sprint("Organizer"), e.OrganizerName)
	if e.OrganizerPhone != "" {
		tbl.AddRow(label.Sprint("Phone"), e.OrganizerPhone)
	}
	if e.WhatsappNumber != "" {
		tbl.AddRow(label.Sprint("WhatsApp"), e.WhatsappNumber)
	}
	if e.TicketInfo != "" {
		tbl.AddRow(label.Sprint("Tickets"), e.TicketInfo)
	}
	if e.Coordinates != nil {
		tbl.AddRow(label.Sprint("Location"), e.Coordinates.String())
	}
	if strings.HasPrefix(e.ImageURL, "http") {
		tbl.AddRow(label.Sprint("Image"), e.ImageURL)
	}
	tbl.AddRow(label.Sprint("Rating"), rating(e))
	_, _ = fmt.Fprintln(pp.out(), tbl)

	if desc := strings.TrimSpace(e.Description.Get(lang)); desc != "" {
		pp.NewLine()
		_, _ = fmt.Fprintln(pp.out(), wordwrap.String(desc, wrapWidth))
	}
	pp.NewLine()
	pp.Reviews(e.Reviews)
}

// Reviews prints reviews newest first, as stored.
func (pp *PrettyPrint) Reviews(reviews []event.Review) {
	pp.TitleWithCount("Reviews", len(reviews))
	if len(reviews) == 0 {
		pp.none()
		return
	}
	stars := color.New(color.FgHiYellow)
	faint := color.New(color.Faint)
	for _, r := range reviews {
		n := max(0, min(r.Rating, event.MaxRating))
		_, _ = stars.Fprint(pp.out(), strings.Repeat("★", n)+strings.Repeat("☆", event.MaxRating-n))
		_, _ = fmt.Fprintf(pp.out(), " %s", r.User.Name)
		_, _ = faint.Fprintf(pp.out(), " · %s\n", r.Timestamp.Local().Format("Jan 2 2006"))
		if c := strings.TrimSpace(r.Comment); c != "" {
			_, _ = fmt.Fprintln(pp.out(), indent(wordwrap.String(c, wrapWidth-2), "  "))
		}
	}
	pp.NewLine()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// Suggestion prints a drafted listing in every language.
func (pp *PrettyPrint) Suggestion(s assistant.Suggestion) {
	label := color.New(color.Bold)
	pp.Title("Suggested event")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 64
	for _, l := range event.Languages {
		tbl.AddRow(label.Sprintf("Title (%s)", l), s.Title.Get(l))
	}
	for _, l := range event.Languages {
		tbl.AddRow(label.Sprintf("Description (%s)", l), s.Description.Get(l))
	}
	tbl.AddRow(label.Sprint("City"), catalog.CityName(s.CityID, pp.lang()))
	tbl.AddRow(label.Sprint("Category"), catalog.CategoryName(s.CategoryID, pp.lang()))
	if s.ImageBase64 != "" {
		tbl.AddRow(label.Sprint("Image"), fmt.Sprintf("generated, %d bytes base64", len(s.ImageBase64)))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Itinerary prints the plan by day. Steps that link an event show its
// title; evs resolves them.
func (pp *PrettyPrint) Itinerary(it assistant.Itinerary, evs []event.Event) {
	lang := pp.lang()
	pp.Title(it.Title.Get(lang))
	day := color.New(color.Bold, color.FgCyan)
	link := color.New(color.FgGreen)
	current := ""
	for _, step := range it.Plan {
		if step.Day != current {
			current = step.Day
			_, _ = day.Fprintf(pp.out(), "\n%s\n", step.Day)
		}
		_, _ = fmt.Fprintf(pp.out(), "  • %s\n", step.Title)
		if d := strings.TrimSpace(step.Description); d != "" {
			_, _ = fmt.Fprintln(pp.out(), indent(wordwrap.String(d, wrapWidth-4), "    "))
		}
		if step.EventID == "" {
			continue
		}
		if i := event.Index(evs, step.EventID); i >= 0 {
			_, _ = link.Fprintf(pp.out(), "    → %s (%s)\n", evs[i].Title.Get(lang), step.EventID)
		}
	}
	pp.NewLine()
}

// Cities prints the selectable cities.
func (pp *PrettyPrint) Cities(cities []catalog.City) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("English"), bold.Sprint("العربية"), bold.Sprint("کوردی"))
	for _, c := range cities {
		tbl.AddRow(c.ID, c.Name.Get(event.English), c.Name.Get(event.Arabic), c.Name.Get(event.Kurdish))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Categories prints the selectable categories.
func (pp *PrettyPrint) Categories(categories []catalog.Category) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), "", bold.Sprint("English"), bold.Sprint("العربية"), bold.Sprint("کوردی"))
	for _, c := range categories {
		tbl.AddRow(c.ID, c.Icon, c.Name.Get(event.English), c.Name.Get(event.Arabic), c.Name.Get(event.Kurdish))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Agenda prints the events of an agenda window grouped by city.
func (pp *PrettyPrint) Agenda(result app.AgendaResult, label string) {
	lang := pp.lang()
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	_, _ = fmt.Fprintf(pp.out(), "Agenda · next %s (%s → %s)\n", label, since, until)

	if result.Total == 0 {
		_, _ = fmt.Fprintln(pp.out(), "  No events in this window.")
		pp.NewLine()
		return
	}

	city := color.New(color.Bold)
	faint := color.New(color.Faint)
	for _, section := range result.Sections {
		_, _ = city.Fprintf(pp.out(), "\n%s\n", section.City)
		for _, item := range section.Items {
			line := fmt.Sprintf("  %s  %s", item.Event.Date.Local().Format("Mon Jan 2 15:04"), item.Event.Title.Get(lang))
			_, _ = fmt.Fprint(pp.out(), line)
			if item.Reviews > 0 {
				_, _ = faint.Fprintf(pp.out(), "  ★ %.1f (%d)", item.Rating, item.Reviews)
			}
			_, _ = fmt.Fprintln(pp.out(), "")
		}
	}
	pp.NewLine()
}

// JSON writes v as indented JSON.
func (pp *PrettyPrint) JSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}
