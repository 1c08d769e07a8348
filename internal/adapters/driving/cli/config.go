package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change the ontology, store, transform and watch settings.

Settings are stored in ~/.ecore2owl/config.toml. Run "ecore2owl config keys"
to list the keys accepted by "config set" and "config reset".`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting.

Examples:
  ecore2owl config set ontology.format turtle
  ecore2owl config set store.backend sqlite
  ecore2owl config set watch.debounce_ms 1000`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigReset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runConfigKeys,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where settings are stored",
	RunE:  runConfigPath,
}

var configWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the ontology and store settings step by step.`,
	RunE:  runConfigWizard,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configWizardCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Ontology]")
	cmd.Printf("  Namespace: %s\n", settings.Ontology.Namespace)
	cmd.Printf("  Prefix: %s\n", settings.Ontology.Prefix)
	cmd.Printf("  Format: %s\n", settings.Ontology.Format.Description())
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend.Description())
	if settings.Store.Backend == domain.StoreSQLite {
		path := settings.Store.Path
		if path == "" {
			path = "(default)"
		}
		cmd.Printf("  Path: %s\n", path)
	}
	cmd.Printf("  Reset on run: %s\n", yesNo(settings.Store.Reset))
	cmd.Println()

	cmd.Println("[Transform]")
	cmd.Printf("  Check conformance: %s\n", yesNo(settings.Transform.CheckConformance))
	cmd.Printf("  Resolve meta-model: %s\n", yesNo(settings.Transform.ResolveMetaModel))
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Debounce: %dms\n", settings.Watch.DebounceMillis)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'ecore2owl config wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	cmd.Printf("%s restored to its default\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	cmd.Println(settingsService.Path())
	return nil
}

func runConfigWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("ecore2owl Setup Wizard")
	cmd.Println("======================")
	cmd.Println()

	cmd.Printf("Namespace [%s]: ", settings.Ontology.Namespace)
	if input := readLine(reader); input != "" {
		settings.Ontology.Namespace = input
	}
	cmd.Printf("Prefix [%s]: ", settings.Ontology.Prefix)
	if input := readLine(reader); input != "" {
		settings.Ontology.Prefix = input
	}
	cmd.Println()

	formats := domain.AllOutputFormats()
	cmd.Println("Output format:")
	current := 1
	for i, f := range formats {
		cmd.Printf("  %d. %s\n", i+1, f.Description())
		if f == settings.Ontology.Format {
			current = i + 1
		}
	}
	cmd.Printf("Choice [%d]: ", current)
	settings.Ontology.Format = formats[parseChoice(readLine(reader), len(formats), current)-1]
	cmd.Println()

	backends := domain.AllStoreBackends()
	cmd.Println("Triple store:")
	current = 1
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
		if b == settings.Store.Backend {
			current = i + 1
		}
	}
	cmd.Printf("Choice [%d]: ", current)
	settings.Store.Backend = backends[parseChoice(readLine(reader), len(backends), current)-1]
	if settings.Store.Backend == domain.StoreSQLite {
		cmd.Printf("Database path [%s]: ", orDefault(settings.Store.Path))
		if input := readLine(reader); input != "" {
			settings.Store.Path = input
		}
	}
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

//nolint:errcheck // CLI helper, a read error counts as empty input
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// parseChoice reads a 1-based menu choice, falling back to defaultVal for
// empty or out of range input.
func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDefault(s string) string {
	if s == "" {
		return "default"
	}
	return s
}
