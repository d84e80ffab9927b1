package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/submission"
)

type submitOptions struct {
	github   string
	role     string
	skills   []string
	projects []string
	noShow   bool
}

func newSubmitCmd(g *globalOptions) *cobra.Command {
	o := &submitOptions{}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Request a new analysis",
		Long: `Submit your profile for analysis and print the resulting dashboard.

Examples:
  # Minimal request
  pilot submit --github https://github.com/alice --role "Backend Developer" --skill Go --skill SQL

  # With featured projects (title|url|description)
  pilot submit --github https://github.com/alice --role "AI Engineer" --skill Python \
    --project "RAG bot|https://github.com/alice/rag|Chat over internal docs with citations"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, g, o)
		},
	}
	cmd.Flags().StringVar(&o.github, "github", "", "GitHub profile URL")
	cmd.Flags().StringVar(&o.role, "role", "", "Target job role (see 'pilot roles')")
	cmd.Flags().StringArrayVarP(&o.skills, "skill", "s", nil, "Skill (repeatable)")
	cmd.Flags().StringArrayVar(&o.projects, "project", nil, `Featured project "title|url|description" (up to 3)`)
	cmd.Flags().BoolVar(&o.noShow, "no-show", false, "Only print the dashboard link")
	return cmd
}

func parseProject(s string) (analysis.Project, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return analysis.Project{}, fmt.Errorf("invalid --project %q: want title|url|description", s)
	}
	return analysis.Project{Title: parts[0], URL: parts[1], Description: parts[2]}, nil
}

func runSubmit(cmd *cobra.Command, g *globalOptions, o *submitOptions) error {
	req := analysis.Request{GithubURL: o.github, Role: o.role, Skills: o.skills}
	for _, p := range o.projects {
		pr, err := parseProject(p)
		if err != nil {
			return err
		}
		req.Projects = append(req.Projects, pr)
	}

	out := cmd.OutOrStdout()
	client := g.client()
	flow := submission.NewFlow(client, newTerminalNotifier(cmd.ErrOrStderr()))
	target, err := flow.Submit(cmd.Context(), req)
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			printFieldErrors(cmd.ErrOrStderr(), verr)
		}
		return err
	}

	fmt.Fprintf(out, "Dashboard: %s%s\n", strings.TrimRight(g.server, "/"), target)
	if o.noShow {
		return nil
	}
	id := analysis.ID(strings.TrimPrefix(target, "/dashboard/"))
	d, err := client.GetDashboard(cmd.Context(), id)
	if err != nil {
		return err
	}
	return Render(out, d, g.output)
}
