package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/hub/internal/config"
	"github.com/ciciliostudio/hub/internal/logging"
)

var cfgFile string
var hubConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hub",
	Short: "Hub - ProjectHub terminal client",
	Long: `Hub is a terminal client for the ProjectHub academic project
management platform: browse and update projects, respond to team
invitations, and talk to the AI assistant, all without leaving the
terminal.

When run without arguments, Hub launches the interactive interface.
Use subcommands for specific operations like 'init', 'login', or
'projects'.`,
	Run: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .hub/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringP("env", "e", "", "environment to use")
	rootCmd.PersistentFlags().StringP("project", "p", ".", "project directory")
	rootCmd.Flags().BoolP("version", "v", false, "show version information")
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	projectDir, _ := rootCmd.PersistentFlags().GetString("project")

	if err := logging.Initialize(projectDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize logging: %v\n", err)
	} else {
		logging.RedirectStandardLog()
	}

	if verbose {
		logging.GetLogger().SetLevel(logging.DEBUG)
	}

	loader := config.NewLoader(projectDir)
	if !loader.IsInitialized() {
		return
	}

	var err error
	hubConfig, err = loader.Load()
	if err != nil {
		logging.Warn("Failed to load config: %v", err)
		return
	}

	// Apply environment override from flag
	if env, _ := rootCmd.PersistentFlags().GetString("env"); env != "" {
		if _, exists := hubConfig.Envs[env]; exists {
			hubConfig.Current = env
		}
	}

	logging.Info("Using config with environment: %s", hubConfig.Current)
}

// runTUI launches the main TUI interface
func runTUI(cmd *cobra.Command, args []string) {
	if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
		fmt.Printf("Hub version %s\n", appVersion)
		return
	}

	if hubConfig == nil {
		fmt.Println("Hub is not initialized in this project.")
		fmt.Println("Run 'hub init' to get started.")
		os.Exit(1)
	}

	projectDir, _ := cmd.Flags().GetString("project")
	if err := launchTUI(hubConfig, projectDir); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
