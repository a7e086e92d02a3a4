package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	baseURL string
	token   string
	timeout time.Duration
	asJSON  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "bankledger-cli",
		Short:         "BankLedger CLI tool",
		Long:          `A command line interface for tellers and operators of the BankLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("BANKLEDGER_URL", "http://localhost:8080"), "Base URL of the BankLedger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("BANKLEDGER_TOKEN"), "Bearer token for authenticated servers")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		depositCmd(opts),
		withdrawCmd(opts),
		transferCmd(opts),
		historyCmd(opts),
		accountCmd(opts),
		customerCmd(opts),
		statementCmd(opts),
		ledgerCmd(opts),
		tokenCmd(),
		hashPINCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("flag setup: %v", err))
	}
}
