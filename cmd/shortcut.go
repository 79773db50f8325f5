package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imishinist/http-shortcuts/internal/models"
)

var shortcutCmd = &cobra.Command{
	Use:   "shortcut",
	Short: "Manage shortcuts",
	Long:  "Create, inspect, and delete shortcut definitions",
}

var shortcutCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new shortcut",
	RunE:  shortcutCreate,
}

var shortcutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shortcuts",
	Args:  cobra.NoArgs,
	RunE:  shortcutList,
}

var shortcutShowCmd = &cobra.Command{
	Use:   "show <shortcut-id>",
	Short: "Show a shortcut",
	Args:  cobra.ExactArgs(1),
	RunE:  shortcutShow,
}

var shortcutDeleteCmd = &cobra.Command{
	Use:   "delete <shortcut-id>",
	Short: "Delete a shortcut and its parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  shortcutDelete,
}

func init() {
	rootCmd.AddCommand(shortcutCmd)
	shortcutCmd.AddCommand(shortcutCreateCmd)
	shortcutCmd.AddCommand(shortcutListCmd)
	shortcutCmd.AddCommand(shortcutShowCmd)
	shortcutCmd.AddCommand(shortcutDeleteCmd)

	// Create command flags
	shortcutCreateCmd.Flags().String("name", "", "Shortcut name (required)")
	shortcutCreateCmd.Flags().String("method", "GET", "HTTP method")
	shortcutCreateCmd.Flags().String("url", "", "Request URL, may contain {{variables}} (required)")
	shortcutCreateCmd.Flags().StringArray("header", []string{}, "Headers in key=value format")
	shortcutCreateCmd.Flags().String("description", "", "Shortcut description")
	shortcutCreateCmd.Flags().Bool("require-confirmation", false, "Ask before sending the request")
	shortcutCreateCmd.Flags().Duration("delay", 0, "Wait this long before sending the request")
	shortcutCreateCmd.MarkFlagRequired("name")
	shortcutCreateCmd.MarkFlagRequired("url")
}

func shortcutCreate(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	// Parse flags
	name, _ := cmd.Flags().GetString("name")
	method, _ := cmd.Flags().GetString("method")
	url, _ := cmd.Flags().GetString("url")
	headers, _ := cmd.Flags().GetStringArray("header")
	description, _ := cmd.Flags().GetString("description")
	confirm, _ := cmd.Flags().GetBool("require-confirmation")
	delay, _ := cmd.Flags().GetDuration("delay")

	shortcut := models.NewShortcut(name, method, url)
	shortcut.Description = description
	shortcut.RequireConfirmation = confirm
	shortcut.DelayMillis = delay.Milliseconds()
	shortcut.Headers, err = parseHeaders(headers)
	if err != nil {
		return err
	}

	if err := e.store.Save(shortcut); err != nil {
		return fmt.Errorf("failed to save shortcut: %w", err)
	}

	// Output only the id for shell scripting
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", shortcut.ID)
	return nil
}

// parseHeaders parses header strings in key=value format
func parseHeaders(headers []string) ([]models.Header, error) {
	result := make([]models.Header, 0, len(headers))
	for _, header := range headers {
		parts := strings.SplitN(header, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header format: %s (expected key=value)", header)
		}
		result = append(result, models.Header{Name: parts[0], Content: parts[1]})
	}
	return result, nil
}

func shortcutList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	shortcuts, err := e.store.List()
	if err != nil {
		return fmt.Errorf("failed to list shortcuts: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, s := range shortcuts {
		fmt.Fprintf(out, "%s\t%s\t%s %s\t(%d parameters)\n", s.ID, s.Name, s.Method, s.URL, s.Parameters.Len())
	}
	return nil
}

func shortcutShow(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	shortcut, err := e.store.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %s\n", shortcut.ID)
	fmt.Fprintf(out, "Name: %s\n", shortcut.Name)
	if shortcut.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", shortcut.Description)
	}
	fmt.Fprintf(out, "Request: %s %s\n", shortcut.Method, shortcut.URL)
	if shortcut.RequireConfirmation {
		fmt.Fprintln(out, "Requires confirmation: yes")
	}
	if shortcut.DelayMillis > 0 {
		fmt.Fprintf(out, "Delay: %s\n", shortcut.Delay())
	}
	if len(shortcut.Headers) > 0 {
		fmt.Fprintln(out, "Headers:")
		for _, h := range shortcut.Headers {
			fmt.Fprintf(out, "  %s: %s\n", h.Key(), h.Value())
		}
	}
	fmt.Fprintln(out, "Parameters:")
	printParameters(cmd, shortcut.Parameters)
	return nil
}

func shortcutDelete(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	if err := e.store.Delete(args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted shortcut %s\n", args[0])
	return nil
}
