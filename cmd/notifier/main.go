// In file: cmd/notifier/main.go

// Command notifier asks a running gateway for the weather in a city and prints
// a notification when rain or overcast skies are reported.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/notify"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// consoleSink prints agent output to the terminal.
type consoleSink struct {
	out io.Writer
}

func (s consoleSink) Notify(message string) {
	fmt.Fprintln(s.out, color.YellowString("🔔 Notification:"))
	fmt.Fprintln(s.out, message)
}

func (s consoleSink) Skip(condition string) {
	fmt.Fprintf(s.out, "%s Current condition: %s\n", color.HiBlackString("No notification sent."), condition)
}

func newRootCmd() *cobra.Command {
	var (
		city    string
		url     string
		name    string
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "notifier",
		Short: "Weather notification agent",
		Long: `Fetches the current weather for a city through the gateway's /run-tool
endpoint and prints a notification when the condition mentions rain or overcast skies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				log.SetOutput(io.Discard)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			bridge := notify.NewBridge(url, timeout)
			agent := notify.NewAgent(name, city, bridge, consoleSink{out: cmd.OutOrStdout()})
			outcome := agent.Execute(ctx)
			if outcome.Err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("✗ %s failed: %v", name, outcome.Err))
				return outcome.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ %s completed", name))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&city, "city", "c", "Austin", "City to check the weather for")
	cmd.Flags().StringVarP(&url, "url", "u", notify.DefaultRunToolURL, "Gateway run-tool endpoint")
	cmd.Flags().StringVarP(&name, "name", "n", "WeatherAgent1", "Agent name used in log lines")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Overall timeout for the run")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print agent log lines")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
