package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

func newShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ANALYSIS_ID",
		Short: "Show a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := g.client().GetDashboard(cmd.Context(), analysis.ID(args[0]))
			if err != nil {
				return err
			}
			return Render(cmd.OutOrStdout(), d, g.output)
		},
	}
}

func newListCmd(g *globalOptions) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := g.client().ListAnalyses(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			return RenderList(cmd.OutOrStdout(), res, g.output)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Items per page (max 100)")
	return cmd
}

func newRolesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the suggested job roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := g.client().Roles(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range roles {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}
