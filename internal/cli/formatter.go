package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/presentation"
)

// Render writes a dashboard in the requested format (human, json, yaml).
func Render(w io.Writer, d presentation.Dashboard, format string) error {
	switch format {
	case "json":
		return writeJSON(w, d)
	case "yaml":
		return writeYAML(w, d)
	case "human":
		fallthrough
	default:
		renderHuman(w, d)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func writeYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

func renderHuman(w io.Writer, d presentation.Dashboard) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "%s readiness\n", d.JobRole)
	fmt.Fprintf(w, "   %s\n\n", d.GithubURL)

	scoreColor(d.Score).Fprintf(w, "SCORE: %d/100\n\n", d.Score)

	green.Fprintln(w, "WHAT STANDS OUT:")
	bullets(w, d.Positive)
	yellow.Fprintln(w, "WHERE TO IMPROVE:")
	bullets(w, d.Negative)

	white.Fprintln(w, "PROJECT IDEAS:")
	if len(d.ProjectSuggestions) == 0 {
		fmt.Fprintln(w, "   (none)")
	}
	for i, p := range d.ProjectSuggestions {
		fmt.Fprintf(w, "   %d. %s\n      %s\n", i+1, p.Title, p.Description)
	}
	fmt.Fprintln(w)

	white.Fprintln(w, "PROFILE IMPROVEMENTS:")
	bullets(w, d.ImprovementPoints)

	cyan.Fprintln(w, "THIS WEEK:")
	if len(d.Weekly) == 0 {
		fmt.Fprintln(w, "   (none)")
	}
	for _, t := range d.Weekly {
		fmt.Fprintf(w, "   %-4s %s\n", t.Day, t.Task)
	}
	fmt.Fprintln(w)
	cyan.Fprintln(w, "THIS MONTH:")
	bullets(w, d.Monthly)

	fmt.Fprintf(w, "%s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func bullets(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "   (none)")
	}
	for _, it := range items {
		fmt.Fprintf(w, "   • %s\n", it)
	}
	fmt.Fprintln(w)
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 75:
		return color.New(color.FgGreen, color.Bold)
	case score >= 50:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// RenderList writes a page of analyses.
func RenderList(w io.Writer, res analysis.PaginatedResult, format string) error {
	switch format {
	case "json":
		return writeJSON(w, res)
	case "yaml":
		return writeYAML(w, res)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROLE\tSCORE\tCREATED")
	for _, r := range res.Data {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.JobRole, r.Data.Score, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "page %d/%d (%d total)\n", res.Page, res.TotalPages, res.Total)
	return nil
}

func printFieldErrors(w io.Writer, verr *analysis.ValidationError) {
	red := color.New(color.FgRed)
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		red.Fprintf(w, "✗ %s %s\n", k, verr.Fields[k])
	}
}
