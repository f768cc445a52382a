package playtest

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var headers = table.Row{"Guess", "Year", "Genres", "Rating", "Director", "Stars", "Took"}

// renderOutcomes renders one row per guess. Failed guesses show the error
// across the feedback columns.
func renderOutcomes(outcomes []Outcome, color bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(headers)

	solved := 0
	for _, o := range outcomes {
		took := o.Took.Round(time.Millisecond).String()
		if o.Err != nil {
			msg := o.Err.Error()
			tw.AppendRow(table.Row{o.Guess, msg, msg, msg, msg, msg, took}, table.RowConfig{AutoMerge: true})
			continue
		}
		if o.Feedback.Solved() {
			solved++
		}
		tw.AppendRow(table.Row{
			o.Guess,
			token(o.Feedback.Year, color),
			token(o.Feedback.Genres, color),
			token(o.Feedback.Rating, color),
			o.Feedback.Director,
			o.Feedback.Stars,
			took,
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "solved", fmt.Sprintf("%d/%d", solved, len(outcomes))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func token(s string, color bool) string {
	if !color {
		return s
	}
	switch s {
	case "green":
		return text.Colors{text.FgHiGreen, text.Bold}.Sprint(s)
	case "yellow":
		return text.FgHiYellow.Sprint(s)
	case "gray":
		return text.FgHiBlack.Sprint(s)
	default:
		return s
	}
}
