// Package cli is the pilot command line client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/profilepilot/internal/submission"
)

type globalOptions struct {
	server string
	apiKey string
	user   string
	output string
}

func (g *globalOptions) client() *submission.Client {
	c := submission.NewClient(g.server, g.apiKey)
	c.UserID = g.user
	return c
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// NewRootCmd builds the pilot command tree.
func NewRootCmd(version string) *cobra.Command {
	g := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "pilot",
		Short: "AI career readiness analysis for your GitHub profile",
		Long: `pilot submits your GitHub profile, target role and skills to a ProfilePilot
server and shows the resulting readiness score, feedback and roadmap.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.server, "server", envOr("PILOT_SERVER", "http://localhost:8080"), "ProfilePilot server URL")
	pf.StringVar(&g.apiKey, "api-key", os.Getenv("PILOT_API_KEY"), "API key (Authorization: Bearer)")
	pf.StringVar(&g.user, "user", os.Getenv("PILOT_USER"), "User id sent as X-User-Id when the server runs in header mode")
	pf.StringVarP(&g.output, "output", "o", "human", "Output format (human, json, yaml)")

	rootCmd.AddCommand(
		newSubmitCmd(g),
		newShowCmd(g),
		newListCmd(g),
		newRolesCmd(g),
		newVersionCmd(version),
	)
	return rootCmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pilot version %s\n", version)
		},
	}
}
