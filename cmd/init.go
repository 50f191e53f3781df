package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/hub/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Hub in the current directory",
	Long: `Initialize Hub with a default configuration:
- Set the ProjectHub server URL
- Create the .hub directory holding config, session, and chat history`,
	Run: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolP("force", "", false, "Overwrite an existing configuration")
	initCmd.Flags().StringP("server", "", "http://localhost:8000", "ProjectHub server base URL")
}

func runInit(cmd *cobra.Command, args []string) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Printf("Error getting current directory: %v\n", err)
		os.Exit(1)
	}

	force, _ := cmd.Flags().GetBool("force")
	server, _ := cmd.Flags().GetString("server")

	loader := config.NewLoader(cwd)
	if loader.IsInitialized() && !force {
		fmt.Println("Hub is already initialized here. Use --force to overwrite.")
		return
	}

	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = server
	for name, env := range cfg.Envs {
		env.BaseURL = server
		cfg.Envs[name] = env
	}

	path := loader.GetConfigPath()
	if err := loader.Save(cfg, path); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Next: run 'hub login' to sign in, then 'hub' for the interface.")
}
