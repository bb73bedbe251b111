package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	calcLeagueID    string
	rankingSeasonID string
	rankingLeagueID string
)

func init() {
	calculateCmd.Flags().StringVar(&calcLeagueID, "league", "", "Recalculate one league (and its seasons) instead of the global scope")
	rankingsCmd.Flags().StringVar(&rankingSeasonID, "season", "", "Season to rank")
	rankingsCmd.Flags().StringVar(&rankingLeagueID, "league", "", "League to rank across seasons")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Trigger a stats recalculation",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/calculate"
		if calcLeagueID != "" {
			endpoint += "?type=league&league_id=" + url.QueryEscape(calcLeagueID)
		}
		return performPostRequest(endpoint)
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the calculation job queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/jobs")
	},
}

var jobCmd = &cobra.Command{
	Use:   "job [id]",
	Short: "Show the status of one calculation job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/jobs/" + args[0])
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the leaderboard for a season or a league",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if rankingSeasonID != "" {
			params.Set("season_id", rankingSeasonID)
		}
		if rankingLeagueID != "" {
			params.Set("league_id", rankingLeagueID)
		}
		return performGetRequest("/rankings?" + params.Encode())
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
