package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/iqevents/pkg/event"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month containing on, with the days that have events
// in bold, followed by those events by day.
func (pp *PrettyPrint) Calendar(on time.Time, evs []event.Event) {
	then := time.Date(on.Year(), on.Month(), 1, 1, 0, 0, 0, on.Location())

	byDay := make([][]event.Event, DaysIn(then))
	for _, e := range evs {
		d := e.Date.In(then.Location())
		if d.Year() == then.Year() && d.Month() == then.Month() {
			byDay[d.Day()-1] = append(byDay[d.Day()-1], e)
		}
	}
	count := make([]int, len(byDay))
	for i, day := range byDay {
		count[i] = len(day)
	}
	pp.PrintMonthCount(then, count)

	lang := pp.lang()
	b := color.New(color.Bold)
	f := color.New(color.Faint)
	for i, day := range byDay {
		if len(day) == 0 {
			continue
		}
		date := time.Date(then.Year(), then.Month(), i+1, 0, 0, 0, 0, then.Location())
		_, _ = b.Fprintf(pp.out(), "%2d %s\n", i+1, date.Weekday().String()[0:3])
		for _, e := range day {
			_, _ = fmt.Fprintf(pp.out(), "   %s %s", e.Date.In(then.Location()).Format("15:04"), e.Title.Get(lang))
			_, _ = f.Fprintf(pp.out(), "  %s\n", e.Venue)
		}
	}
	pp.NewLine()
}

// PrintMonthCount prints a month grid. Days with a non zero count are bold.
func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.out(), "%s%s%s\n", strings.Repeat(" ", max(0, mid)), m, strings.Repeat(" ", max(0, width-mid-len(m))))

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(pp.out(), "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(pp.out(), "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(pp.out(), "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(pp.out(), "\n")
		}
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 1, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
