// Package main implements bsptile, a binary-space-partitioning tiling
// engine with a terminal demo front end. Windows live in per-screen
// BSP trees that are reconciled against an authoritative window list,
// with directional navigation across screens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/bsptile/internal/config"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode   bool
	screenCount int
	themeName   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bsptile",
		Short: "BSP tiling layout engine",
		Long: `bsptile - binary space partitioning tiler

An interactive demo of the bsptile layout engine: windows are tiled
into per-screen BSP trees, navigated directionally, and reconciled
against an authoritative window list every tick.`,
		Example: `  # Run the demo
  bsptile

  # Run with two simulated screens and debug logging
  bsptile --screens 2 --debug

  # Preview the layout of 5 windows at the current terminal size
  bsptile layout 5

  # Edit configuration
  bsptile config edit`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to a file")
	rootCmd.Flags().IntVar(&screenCount, "screens", 1, "Number of simulated screens")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "Color theme name (empty for terminal defaults)")

	var (
		layoutWindows int
		layoutWidth   int
		layoutHeight  int
		layoutGap     int
	)
	layoutCmd := &cobra.Command{
		Use:   "layout [windows]",
		Short: "Print the tiled layout for N windows",
		Long: `Print the rectangles the engine assigns to N windows, without
starting the interactive demo. The terminal size is used unless
--width and --height are given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if _, err := fmt.Sscanf(args[0], "%d", &layoutWindows); err != nil {
					return fmt.Errorf("invalid window count %q", args[0])
				}
			}
			if layoutWindows < 1 {
				layoutWindows = 4
			}
			return printLayout(layoutWindows, layoutWidth, layoutHeight, layoutGap)
		},
	}
	layoutCmd.Flags().IntVar(&layoutWidth, "width", 0, "Layout width (0 = terminal width)")
	layoutCmd.Flags().IntVar(&layoutHeight, "height", 0, "Layout height (0 = terminal height)")
	layoutCmd.Flags().IntVar(&layoutGap, "gap", -1, "Gap between cells (-1 = configured gap)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bsptile configuration",
		Long:  `Manage the bsptile configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the bsptile configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common
editors like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the bsptile configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "List configured keybindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	}

	rootCmd.AddCommand(layoutCmd, configCmd, keybindsCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// printConfigPath prints the config file path.
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// editConfigFile opens the config file in $EDITOR.
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resetConfigToDefaults overwrites the configuration with defaults
// after confirmation.
func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteConfig(configPath, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: bsptile config edit")
	return nil
}

// listKeybindings prints the configured keybindings as a table.
func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		userConfig = config.DefaultConfig()
	}
	registry := config.NewKeybindRegistry(userConfig)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := [][]string{}
	for _, action := range actionOrder {
		keys := registry.GetKeysForDisplay(action)
		if keys == "" {
			continue
		}
		desc := config.ActionDescriptions[action]
		if desc == "" {
			desc = action
		}
		rows = append(rows, []string{keys, desc})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("Keys", "Action").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("bsptile Keybindings"))
	fmt.Println(t.Render())
	fmt.Println()
	return nil
}

// actionOrder fixes the display order of the keybinding table.
var actionOrder = []string{
	"new_window", "close_window",
	"focus_left", "focus_down", "focus_up", "focus_right",
	"toggle_split_dir", "shrink", "grow",
	"toggle_zen", "toggle_fullscreen", "cycle_split_mode",
	"toggle_swap", "compact", "next_screen",
	"toggle_help", "quit",
}
