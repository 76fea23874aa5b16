package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/transistor/transistor"
)

// maxConcurrentGets bounds parallel requests for a multi-path get
const maxConcurrentGets = 4

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <path>... [key=value | key:=json]...",
	Short: "Send GET requests",
	Long: `Fetch one or more API paths. Parameters are sent as the query string and apply
to every path; several paths are fetched concurrently and printed in order.

  transistor get shows
  transistor get episodes show_id=123 pagination[page]:=2
  transistor get shows/1 shows/2 --filter 'attr("private") == false'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <path> [key=value | key:=json]...",
	Short: "Send a POST request with a JSON body",
	Args:  cobra.MinimumNArgs(1),
	RunE:  bodyCommand(http.MethodPost),
}

// patchCmd represents the patch command
var patchCmd = &cobra.Command{
	Use:   "patch <path> [key=value | key:=json]...",
	Short: "Send a PATCH request with a JSON body",
	Args:  cobra.MinimumNArgs(1),
	RunE:  bodyCommand(http.MethodPatch),
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Send a DELETE request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := client.Delete(cmd.Context(), args[0], nil)
		return printOutcome(cmd, out)
	},
}

// meCmd represents the me command
var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the account that owns the API key",
	Args:  cobra.NoArgs,
	RunE:  runMe,
}

func init() {
	rootCmd.AddCommand(getCmd, postCmd, patchCmd, deleteCmd, meCmd)
}

func runGet(cmd *cobra.Command, tokens []string) error {
	paths, params, err := splitParams(tokens)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no path given")
	}

	outcomes := make([]*transistor.Outcome, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentGets)

	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = client.Get(ctx, path, params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for _, out := range outcomes {
		if err := printOutcome(cmd, out); err != nil {
			if len(outcomes) == 1 {
				return err
			}
			failed++
			logger.Error().Err(err).Str("path", out.Request.Path).Msg("Request failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(outcomes))
	}
	return nil
}

func bodyCommand(method string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, tokens []string) error {
		paths, params, err := splitParams(tokens)
		if err != nil {
			return err
		}
		if len(paths) != 1 {
			return fmt.Errorf("expected exactly one path, got %d", len(paths))
		}

		var out *transistor.Outcome
		switch method {
		case http.MethodPost:
			out = client.Post(cmd.Context(), paths[0], params)
		case http.MethodPatch:
			out = client.Patch(cmd.Context(), paths[0], params)
		}
		return printOutcome(cmd, out)
	}
}

func runMe(cmd *cobra.Command, args []string) error {
	out := client.CurrentUser(cmd.Context())
	if raw || !out.Success {
		return printOutcome(cmd, out)
	}
	if verbose {
		printDiagnostics(cmd.ErrOrStderr(), out)
	}

	user, err := transistor.DecodeUser(out)
	if err != nil {
		return fmt.Errorf("failed to decode user: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (ID: %s)\n", user.DisplayName(), user.ID)
	if user.TimeZone != "" {
		fmt.Fprintf(w, "- Time zone: %s\n", user.TimeZone)
	}
	if !user.CreatedAt.IsZero() {
		fmt.Fprintf(w, "- Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
