package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imishinist/http-shortcuts/internal/models"
	"github.com/imishinist/http-shortcuts/internal/parser"
)

var paramCmd = &cobra.Command{
	Use:   "param",
	Short: "Edit the body parameters of a shortcut",
	Long: `Add, update, move, and remove body parameters of a shortcut.
Parameters are addressed by the id printed when they were added, never by key.`,
}

var paramAddCmd = &cobra.Command{
	Use:   "add <shortcut-id>",
	Short: "Append a parameter",
	Args:  cobra.ExactArgs(1),
	RunE:  paramAdd,
}

var paramUpdateCmd = &cobra.Command{
	Use:   "update <shortcut-id> <param-id>",
	Short: "Change the key and/or value of a parameter",
	Args:  cobra.ExactArgs(2),
	RunE:  paramUpdate,
}

var paramRemoveCmd = &cobra.Command{
	Use:   "remove <shortcut-id> <param-id>",
	Short: "Remove a parameter",
	Args:  cobra.ExactArgs(2),
	RunE:  paramRemove,
}

var paramMoveCmd = &cobra.Command{
	Use:   "move <shortcut-id> <param-id> <index>",
	Short: "Move a parameter to a new position",
	Long:  "Move a parameter to a zero-based position. Positions past either end are clamped.",
	Args:  cobra.ExactArgs(3),
	RunE:  paramMove,
}

var paramListCmd = &cobra.Command{
	Use:   "list <shortcut-id>",
	Short: "List parameters in order",
	Args:  cobra.ExactArgs(1),
	RunE:  paramList,
}

var paramImportCmd = &cobra.Command{
	Use:   "import <shortcut-id>",
	Short: "Append several parameters at once",
	Long: `Append parameters given with --param, in order, then those of a JSON or
YAML file holding an ordered parameters list.`,
	Args:  cobra.ExactArgs(1),
	RunE:  paramImport,
}

func init() {
	rootCmd.AddCommand(paramCmd)
	paramCmd.AddCommand(paramAddCmd)
	paramCmd.AddCommand(paramUpdateCmd)
	paramCmd.AddCommand(paramRemoveCmd)
	paramCmd.AddCommand(paramMoveCmd)
	paramCmd.AddCommand(paramListCmd)
	paramCmd.AddCommand(paramImportCmd)

	// Add command flags
	paramAddCmd.Flags().String("key", "", "Parameter key")
	paramAddCmd.Flags().String("value", "", "Parameter value")

	// Update command flags
	paramUpdateCmd.Flags().String("key", "", "New parameter key")
	paramUpdateCmd.Flags().String("value", "", "New parameter value")

	// Import command flags
	paramImportCmd.Flags().StringArray("param", []string{}, "Parameters in key=value format (repeatable, order kept)")
	paramImportCmd.Flags().String("from-file", "", "Load parameters from file (JSON/YAML)")
}

// editParameters loads a shortcut, applies fn to its parameters and saves it.
func editParameters(shortcutID string, fn func(*models.ParameterSet) error) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	shortcut, err := e.store.Load(shortcutID)
	if err != nil {
		return err
	}
	if err := fn(shortcut.Parameters); err != nil {
		return err
	}
	if err := e.store.Save(shortcut); err != nil {
		return fmt.Errorf("failed to save shortcut: %w", err)
	}
	return nil
}

func parseParameterID(s string) (models.ParameterID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter id: %s", s)
	}
	return models.ParameterID(id), nil
}

func paramAdd(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	value, _ := cmd.Flags().GetString("value")

	var id models.ParameterID
	err := editParameters(args[0], func(set *models.ParameterSet) error {
		id = set.Add(key, value)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d\n", id)
	return nil
}

func paramUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseParameterID(args[1])
	if err != nil {
		return err
	}

	var update models.ParameterUpdate
	if cmd.Flags().Changed("key") {
		key, _ := cmd.Flags().GetString("key")
		update.Key = &key
	}
	if cmd.Flags().Changed("value") {
		value, _ := cmd.Flags().GetString("value")
		update.Value = &value
	}
	if update.Key == nil && update.Value == nil {
		return fmt.Errorf("either --key or --value must be specified")
	}

	err = editParameters(args[0], func(set *models.ParameterSet) error {
		return set.Update(id, update)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated parameter %d\n", id)
	return nil
}

func paramRemove(cmd *cobra.Command, args []string) error {
	id, err := parseParameterID(args[1])
	if err != nil {
		return err
	}

	err = editParameters(args[0], func(set *models.ParameterSet) error {
		return set.Remove(id)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed parameter %d\n", id)
	return nil
}

func paramMove(cmd *cobra.Command, args []string) error {
	id, err := parseParameterID(args[1])
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid index: %s", args[2])
	}

	err = editParameters(args[0], func(set *models.ParameterSet) error {
		return set.Move(id, index)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Moved parameter %d\n", id)
	return nil
}

func paramList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	shortcut, err := e.store.Load(args[0])
	if err != nil {
		return err
	}

	printParameters(cmd, shortcut.Parameters)
	return nil
}

func printParameters(cmd *cobra.Command, set *models.ParameterSet) {
	out := cmd.OutOrStdout()
	i := 0
	for p := range set.All() {
		fmt.Fprintf(out, "  [%d] id=%d %s=%s\n", i, p.ID(), p.Key(), p.Value())
		i++
	}
}

func paramImport(cmd *cobra.Command, args []string) error {
	params, _ := cmd.Flags().GetStringArray("param")
	fromFile, _ := cmd.Flags().GetString("from-file")

	if len(params) == 0 && fromFile == "" {
		return fmt.Errorf("either --param or --from-file must be specified")
	}

	// Parameters from command line
	var pairs []models.Pair
	for _, param := range params {
		parts := strings.SplitN(param, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid parameter format: %s (expected key=value)", param)
		}
		pairs = append(pairs, models.Pair{Key: parts[0], Value: parts[1]})
	}

	// Parameters from file
	if fromFile != "" {
		filePairs, err := readParamsFile(fromFile)
		if err != nil {
			return err
		}
		pairs = append(pairs, filePairs...)
	}

	var ids []models.ParameterID
	err := editParameters(args[0], func(set *models.ParameterSet) error {
		for _, p := range pairs {
			ids = append(ids, set.Add(p.Key, p.Value))
		}
		return nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully imported %d parameters\n", len(pairs))
	for i, p := range pairs {
		fmt.Fprintf(out, "  id=%d %s=%s\n", ids[i], p.Key, p.Value)
	}
	return nil
}

func readParamsFile(path string) ([]models.Pair, error) {
	format, err := parser.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	pairs, err := parser.ParseParams(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}
	return pairs, nil
}
