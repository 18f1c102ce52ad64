package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roastivator/roastivator/internal/models"
	"github.com/roastivator/roastivator/internal/services"
	"github.com/roastivator/roastivator/pkg/config"
)

var (
	outputJSON bool
	tokenFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "roast <username>",
	Short: "Roast a GitHub profile from the terminal",
	Long: `Fetch a GitHub profile, its repositories and recent commits, run the
roast analysis and print the critique report.

Example:
  roast octocat
  roast --json octocat`,
	Args: cobra.ExactArgs(1),
	RunE: runRoast,
}

func init() {
	rootCmd.Flags().BoolVar(&outputJSON, "json", false, "print the report as JSON")
	rootCmd.Flags().StringVar(&tokenFlag, "token", "", "GitHub API token (overrides GITHUB_TOKEN)")
}

func runRoast(cmd *cobra.Command, args []string) error {
	username := args[0]

	if err := models.ValidateUsername(username); err != nil {
		return err
	}

	if err := config.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if tokenFlag != "" {
		config.AppConfig.GitHub.Token = tokenFlag
	}

	githubService := services.NewGitHubService(config.AppConfig)
	snapshotService := services.NewSnapshotService(githubService, nil, 0)
	roastService := services.NewRoastService(config.AppConfig.Roast, services.NewMetricsService(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, _, err := snapshotService.Assemble(ctx, username)
	if err != nil {
		return err
	}

	report := roastService.GenerateRoast(snapshot)

	if outputJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	printReport(report)
	return nil
}

func printReport(report *models.RoastReport) {
	fmt.Printf("Score: %d/10 (%s)\n\n", report.Score, models.SeverityForScore(report.Score))
	fmt.Println(report.OverallRoast)

	sections := []struct {
		title    string
		findings []string
	}{
		{"Commit messages", report.CommitMessageRoasts},
		{"Repositories", report.RepositoryRoasts},
		{"Contributions", report.ContributionRoasts},
		{"Emojis", report.EmojiRoasts},
	}

	for _, section := range sections {
		if len(section.findings) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", section.title)
		for _, finding := range section.findings {
			fmt.Printf("  - %s\n", finding)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
