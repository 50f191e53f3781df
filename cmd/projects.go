package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/hub/internal/api"
	"github.com/ciciliostudio/hub/internal/session"
)

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects without opening the interface",
	Run:   runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().StringP("status", "", "", "Filter by status (planning, in_progress, completed)")
}

func runProjects(cmd *cobra.Command, args []string) {
	if hubConfig == nil {
		fmt.Println("Hub is not initialized in this project.")
		fmt.Println("Run 'hub init' to get started.")
		os.Exit(1)
	}

	projectDir, _ := cmd.Flags().GetString("project")
	sessionMgr := session.NewManager(stateDirFor(projectDir))
	sess, err := sessionMgr.Load()
	if err != nil {
		fmt.Println("Not signed in. Run 'hub login' first.")
		os.Exit(1)
	}

	client := api.NewClient(hubConfig.BaseURL())
	client.SetToken(sess.Token)

	status, _ := cmd.Flags().GetString("status")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	projects, err := client.ListProjects(ctx, status)
	if err != nil {
		fmt.Printf("Could not list projects: %v\n", err)
		os.Exit(1)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tPROGRESS\tGUIDE\tDEADLINE")
	for _, p := range projects {
		deadline := "-"
		if p.Deadline != nil {
			deadline = p.Deadline.Format("2006-01-02")
		}
		guide := p.GuideName
		if guide == "" {
			guide = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\n", p.Name, p.Status, p.Progress, guide, deadline)
	}
	w.Flush()
}
