package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ciciliostudio/hub/internal/api"
	"github.com/ciciliostudio/hub/internal/session"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the ProjectHub server",
	Long: `Sign in and store the session locally, so the interactive
interface opens straight onto the dashboard.`,
	Run: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("email", "", "", "Account email (prompted if omitted)")
}

func runLogin(cmd *cobra.Command, args []string) {
	if hubConfig == nil {
		fmt.Println("Hub is not initialized in this project.")
		fmt.Println("Run 'hub init' to get started.")
		os.Exit(1)
	}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("Error reading email: %v\n", err)
			os.Exit(1)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := api.NewClient(hubConfig.BaseURL())
	token, err := client.Login(ctx, email, string(bytePassword))
	if err != nil {
		fmt.Printf("Login failed: %v\n", err)
		os.Exit(1)
	}

	user, err := client.Me(ctx)
	if err != nil {
		fmt.Printf("Could not fetch your profile: %v\n", err)
		os.Exit(1)
	}

	projectDir, _ := cmd.Flags().GetString("project")
	sessionMgr := session.NewManager(stateDirFor(projectDir))
	if _, err := sessionMgr.Start(user, token.AccessToken, client.BaseURL()); err != nil {
		fmt.Printf("Could not save session: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Signed in as %s (%s).\n", user.FullName, user.Role)
}
