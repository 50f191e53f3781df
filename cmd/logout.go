package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/hub/internal/session"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		projectDir, _ := cmd.Flags().GetString("project")
		sessionMgr := session.NewManager(stateDirFor(projectDir))
		if err := sessionMgr.End(); err != nil {
			fmt.Printf("Could not remove session: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Signed out.")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
