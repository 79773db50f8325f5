package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net/http/httputil"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imishinist/http-shortcuts/internal/request"
	"github.com/imishinist/http-shortcuts/internal/variables"
)

var execCmd = &cobra.Command{
	Use:   "exec <shortcut-id>",
	Short: "Build and optionally send a shortcut's request",
	Long: `Resolve the shortcut's {{variables}} and build its request.
Without --send the request is printed instead of sent.`,
	Example: `  # Preview the request
  http-shortcuts exec <shortcut-id> --var user=alice

  # Send it
  http-shortcuts exec <shortcut-id> --var user=alice --send`,
	Args: cobra.ExactArgs(1),
	RunE: execShortcut,
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().StringArray("var", []string{}, "Variables in key=value format")
	execCmd.Flags().Bool("send", false, "Send the request")
	execCmd.Flags().Int("retries", 0, "Retry network failures this many times, waiting 2.4^n seconds in between")
	execCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	viper.BindPFlag("retries", execCmd.Flags().Lookup("retries"))
}

func execShortcut(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	// Parse flags
	assignments, _ := cmd.Flags().GetStringArray("var")
	send, _ := cmd.Flags().GetBool("send")
	yes, _ := cmd.Flags().GetBool("yes")

	vars, err := variables.ParseAssignments(assignments)
	if err != nil {
		return err
	}

	shortcut, err := e.store.Load(args[0])
	if err != nil {
		return err
	}

	// Report every missing variable at once
	required, err := variables.ExtractShortcut(shortcut)
	if err != nil {
		return err
	}
	var missing []string
	for _, name := range required {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing variables: %s (set them with --var key=value)", strings.Join(missing, ", "))
	}

	ctx := context.Background()
	req, err := request.NewBuilder(vars, e.logger).Build(ctx, shortcut)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	out := cmd.OutOrStdout()
	if !send {
		dump, err := httputil.DumpRequest(req, true)
		if err != nil {
			return fmt.Errorf("failed to print request: %w", err)
		}
		fmt.Fprintf(out, "%s\n", dump)
		return nil
	}

	if shortcut.RequireConfirmation && !yes && !confirm(cmd, shortcut.Name) {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	if delay := shortcut.Delay(); delay > 0 {
		e.logger.WithField("delay", delay).Info("waiting before sending")
		if err := request.Wait(ctx, delay); err != nil {
			return err
		}
	}

	client, err := request.NewClient(e.cfg, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	resp, err := client.Send(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s)\n", resp.Status, resp.Elapsed)
	fmt.Fprintf(out, "%s\n", resp.Body)
	return nil
}

// confirm asks on stdin whether to send the request.
func confirm(cmd *cobra.Command, name string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "Send request %q? [y/N] ", name)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
