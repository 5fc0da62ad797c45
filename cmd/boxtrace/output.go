package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/boxtrace/pkg/render"
	"github.com/entrhq/boxtrace/pkg/resolver"
)

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	amber      = lipgloss.Color("#FDE68A")
	mutedGray  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	warningStyle = lipgloss.NewStyle().
			Foreground(amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)
)

// printResolution writes a human-readable summary of res. When showMarkup is
// set, markup results are followed by a highlighted excerpt of the raw markup.
func printResolution(w io.Writer, res *resolver.Resolution, showMarkup bool) {
	if res.FromCache {
		fmt.Fprintln(w, titleStyle.Render("Found in cache"))
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Container:"), res.Entry.ContainerNumber)
	if res.Action != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Flow:"), res.Action)
	}
	if res.CarrierURL != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Carrier page:"), res.CarrierURL)
	}

	fmt.Fprintln(w, resultBoxStyle.Render(preview(res.Entry.Result)))
	if showMarkup && render.LooksLikeMarkup(res.Entry.Result) {
		fmt.Fprintln(w, render.Highlight(res.Entry.Result, render.PreviewLength))
	}

	if res.Missing {
		fmt.Fprintln(w, warningStyle.Render("The data appears to be missing or incomplete."))
		return
	}
	fmt.Fprintln(w, successStyle.Render("Tracking information extracted successfully."))
}

// preview shortens a result for display. Markup is reduced to its visible
// text, falling back to a highlighted excerpt of the markup itself.
func preview(result string) string {
	if !render.LooksLikeMarkup(result) {
		return render.Truncate(result, render.PreviewLength)
	}
	if text, err := render.VisibleText(result); err == nil && text != "" {
		return render.Truncate(text, render.PreviewLength)
	}
	return render.Highlight(result, render.PreviewLength)
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
