package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/marmos91/triggerfish/cmd/triggerfishctl/cmdutil"
	"github.com/marmos91/triggerfish/internal/cli/credentials"
	"github.com/marmos91/triggerfish/internal/cli/health"
	"github.com/marmos91/triggerfish/internal/cli/output"
	"github.com/marmos91/triggerfish/internal/cli/timeutil"
	"github.com/marmos91/triggerfish/pkg/apiclient"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Display the status of the connected Triggerfish daemon.

This command checks the daemon health endpoint and displays status,
uptime, and version information. When logged in, it also reports the
number of registered controllers and prefetch queue statistics.

Examples:
  # Check status of connected daemon
  triggerfishctl status

  # Output as JSON
  triggerfishctl status -o json`,
	RunE: runStatus,
}

// ServerStatus represents the daemon status for display.
type ServerStatus struct {
	Server      string                   `json:"server" yaml:"server"`
	Status      string                   `json:"status" yaml:"status"`
	Healthy     bool                     `json:"healthy" yaml:"healthy"`
	Service     string                   `json:"service,omitempty" yaml:"service,omitempty"`
	Version     string                   `json:"version,omitempty" yaml:"version,omitempty"`
	StartedAt   string                   `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Uptime      string                   `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Controllers int                      `json:"controllers,omitempty" yaml:"controllers,omitempty"`
	Prefetch    *apiclient.PrefetchStats `json:"prefetch,omitempty" yaml:"prefetch,omitempty"`
	Error       string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	// Load credential store
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}

	// Get current context
	ctx, err := store.GetCurrentContext()
	if err != nil {
		return fmt.Errorf("not logged in. Run 'triggerfishctl login' first")
	}

	serverURL := ctx.ServerURL
	if serverURL == "" {
		return fmt.Errorf("no server configured. Run 'triggerfishctl login' first")
	}

	status := ServerStatus{
		Server:  serverURL,
		Status:  "unreachable",
		Healthy: false,
	}

	// Check health endpoint
	healthURL := serverURL + "/health"
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(healthURL)
	if err != nil {
		status.Error = err.Error()
	} else {
		defer func() { _ = resp.Body.Close() }()

		var healthResp health.Response
		if err := json.NewDecoder(resp.Body).Decode(&healthResp); err == nil {
			status.Status = healthResp.Status
			status.Healthy = healthResp.Status == "healthy"
			status.Service = healthResp.Data.Service
			status.StartedAt = healthResp.Data.StartedAt
			status.Uptime = healthResp.Data.Uptime
			if healthResp.Error != "" {
				status.Error = healthResp.Error
			}
		} else {
			status.Status = "unknown"
			status.Error = "Failed to parse health response"
		}
	}

	// Enrich with authenticated status when possible
	if status.Healthy {
		if apiClient, err := cmdutil.GetAuthenticatedClient(); err == nil {
			if detail, err := apiClient.GetStatus(); err == nil {
				status.Version = detail.Version
				status.Controllers = detail.Controllers
				status.Prefetch = detail.Prefetch
			}
		}
	}

	// Output based on format
	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("Triggerfish Daemon Status")
	fmt.Println("=========================")
	fmt.Println()
	fmt.Printf("  Server:       %s\n", status.Server)

	if status.Healthy {
		fmt.Printf("  Status:       \033[32m● %s\033[0m\n", status.Status)
	} else if status.Status == "unreachable" {
		fmt.Printf("  Status:       \033[31m○ %s\033[0m\n", status.Status)
	} else {
		fmt.Printf("  Status:       \033[33m● %s\033[0m\n", status.Status)
	}

	if status.Service != "" {
		fmt.Printf("  Service:      %s\n", status.Service)
	}
	if status.Version != "" {
		fmt.Printf("  Version:      %s\n", status.Version)
	}
	if status.StartedAt != "" {
		fmt.Printf("  Started:      %s\n", timeutil.FormatTime(status.StartedAt))
	}
	if status.Uptime != "" {
		fmt.Printf("  Uptime:       %s\n", timeutil.FormatUptime(status.Uptime))
	}
	if status.Controllers > 0 {
		fmt.Printf("  Controllers:  %d\n", status.Controllers)
	}
	if status.Prefetch != nil {
		fmt.Println()
		fmt.Println("  Prefetch queue:")
		fmt.Printf("    Pending (demand):      %d\n", status.Prefetch.PendingDemand)
		fmt.Printf("    Pending (speculative): %d\n", status.Prefetch.PendingSpeculative)
		fmt.Printf("    Completed:             %d\n", status.Prefetch.Completed)
		fmt.Printf("    Failed:                %d\n", status.Prefetch.Failed)
		fmt.Printf("    Dropped:               %d\n", status.Prefetch.Dropped)
	}
	if status.Error != "" {
		fmt.Printf("  Error:        %s\n", status.Error)
	}
	fmt.Println()
}
