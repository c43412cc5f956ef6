package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Query server status or specific job",
	Long: `Queries the server for job status information.
If no job-id is provided, lists all jobs.
If job-id is provided, shows detailed status for that job.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// List all jobs
		url := fmt.Sprintf("%s/api/v1/jobs", serverURL)
		return listJobs(url)
	}

	// Get specific job status
	jobID := args[0]
	url := fmt.Sprintf("%s/api/v1/jobs/%s/status", serverURL, jobID)
	return getJobStatus(url, jobID)
}

func listJobs(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var jobs []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("Found %d job(s):\n\n", len(jobs))
	for _, job := range jobs {
		config, _ := job["config"].(map[string]interface{})
		fmt.Printf("Job ID: %s\n", job["id"])
		fmt.Printf("  State: %s\n", job["state"])
		if config != nil {
			fmt.Printf("  Algorithm: %s\n", config["algorithm"])
			fmt.Printf("  Mode: %s\n", config["mode"])
		}
		if tick, ok := job["tick"].(float64); ok && tick > 0 {
			fmt.Printf("  Tick: %.0f\n", tick)
		}
		if score, ok := job["score"].(map[string]interface{}); ok {
			fmt.Printf("  Boxes: %v\n", score["boxCount"])
		}
		fmt.Println()
	}

	return nil
}

func getJobStatus(url, jobID string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	// Display status
	fmt.Printf("Job: %s\n", status["id"])
	fmt.Printf("State: %s\n", status["state"])
	fmt.Println()

	if config, ok := status["config"].(map[string]interface{}); ok {
		fmt.Println("Configuration:")
		fmt.Printf("  Algorithm: %s\n", config["algorithm"])
		fmt.Printf("  Mode: %s\n", config["mode"])
		if problem, ok := config["problem"].(map[string]interface{}); ok {
			fmt.Printf("  Rectangles: %v\n", problem["rectCount"])
			fmt.Printf("  Box side: %v\n", problem["boxSide"])
			fmt.Printf("  Seed: %v\n", problem["seed"])
		}
		fmt.Println()
	}

	fmt.Println("Progress:")
	if tick, ok := status["tick"].(float64); ok {
		fmt.Printf("  Tick: %.0f\n", tick)
	}
	if score, ok := status["score"].(map[string]interface{}); ok {
		if valid, _ := score["valid"].(bool); valid {
			fmt.Printf("  Boxes: %v\n", score["boxCount"])
			fmt.Printf("  Entropy: %v\n", score["boxEntropy"])
			fmt.Printf("  Incident edges: %v\n", score["incidentEdges"])
		} else {
			fmt.Printf("  No valid score yet (overlaps: %v)\n", score["overlaps"])
		}
	}
	if outcome, ok := status["outcome"].(string); ok && outcome != "" {
		fmt.Printf("  Outcome: %s\n", outcome)
	}

	if elapsed, ok := status["elapsed"].(float64); ok {
		fmt.Printf("  Elapsed: %s\n", time.Duration(elapsed*float64(time.Second)).Round(time.Millisecond))
	}

	if tps, ok := status["tps"].(float64); ok && tps > 0 {
		fmt.Printf("  Throughput: %.0f ticks/sec\n", tps)
	}

	if errMsg, ok := status["error"].(string); ok && errMsg != "" {
		fmt.Printf("\nError: %s\n", errMsg)
	}

	return nil
}
