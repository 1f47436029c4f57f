package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/renderq/renderq/cmd/renderq/internal/format"
	"github.com/renderq/renderq/pkg/queue"
)

var statsTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12")).
	MarginBottom(1)

// queuesPayload mirrors the GET /api/v1/queues response body.
type queuesPayload struct {
	Queues []queue.Stats `json:"queues"`
}

// NewStatsCommand creates a command that queries a running server for
// queue statistics.
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Show queue statistics from a running RenderQ server",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE:    runStats,
	}

	cmd.Flags().String("server-url", "http://127.0.0.1:8080", "Base URL of the RenderQ server")
	cmd.Flags().String("category", "", "Show a single category instead of all queues")
	cmd.Flags().String("output", "table", "Output format: table, json or yaml")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Duration("timeout", 10*time.Second, "HTTP request timeout")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	formatter := format.FromCommand(cmd)

	outputMode, _ := cmd.Flags().GetString("output")
	if err := format.ValidateMode(outputMode); err != nil {
		return err
	}

	serverURL, _ := cmd.Flags().GetString("server-url")
	category, _ := cmd.Flags().GetString("category")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	stats, err := fetchStats(serverURL, category, timeout)
	if err != nil {
		_ = formatter.PrintError(err)
		return err
	}

	if handled, perr := formatter.PrintStructured(queuesPayload{Queues: stats}); handled {
		return perr
	}

	return printStatsTable(cmd, formatter, stats)
}

func fetchStats(serverURL, category string, timeout time.Duration) ([]queue.Stats, error) {
	client := &http.Client{Timeout: timeout}

	url := serverURL + "/api/v1/queues"
	if category != "" {
		url += "/" + category
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("query server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	if category != "" {
		var single queue.Stats
		if err := json.NewDecoder(resp.Body).Decode(&single); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return []queue.Stats{single}, nil
	}

	var payload queuesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Queues, nil
}

func printStatsTable(cmd *cobra.Command, formatter format.Formatter, stats []queue.Stats) error {
	noColor, _ := cmd.Flags().GetBool("no-color")

	title := "RenderQ Queues"
	if !noColor {
		title = statsTitleStyle.Render(title)
	}
	fmt.Fprintln(cmd.OutOrStdout(), title)

	headers := []string{"category", "queued", "state", "current job", "completed", "failed"}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		state := "idle"
		current := "-"
		if s.Processing {
			state = "processing"
			if s.CurrentJob != nil {
				current = fmt.Sprintf("%s (%s)", s.CurrentJob.ID, s.CurrentJob.Elapsed.Round(time.Second))
			}
		}
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.QueueLength),
			state,
			current,
			strconv.Itoa(s.CompletedCount),
			strconv.Itoa(s.FailedCount),
		})
	}

	return formatter.PrintTable(headers, rows)
}
