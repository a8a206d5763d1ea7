package main

import (
	"fmt"
	"os"

	"github.com/cnap-oss/clawboard/internal/telemetry"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const rootLong = `Clawboard is the command-line interface to the mission-control board.
Every command takes an optional JSON argument and prints JSON to stdout.

USAGE:
  clawboard <command> ['<json>']

EXAMPLES:
  clawboard agents:create '{"name":"Aria","role":"Researcher"}'
  clawboard tasks:create '{"title":"Survey sources","assigneeIds":["<agent-id>"]}'
  clawboard tasks:update '{"id":"<task-id>","status":"in_progress"}'
  clawboard messages:create '{"taskId":"<task-id>","content":"Started"}'
  clawboard activities:tail

ACTIVITY TYPES:
  task_created, task_updated, status_changed, message_sent,
  document_created, audit_completed

TASK STATUSES:
  inbox, assigned, in_progress, review, done

AGENT STATUSES:
  idle, active, blocked

DOCUMENT TYPES:
  deliverable, research, protocol

THREAT LEVELS:
  safe, warning, critical`

func main() {
	telemetry.Version = Version

	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError는 "Error: <메시지>"를 stderr에 출력합니다. 터미널일 때만 빨간색을 사용합니다.
func printError(err error) {
	c := color.New(color.FgRed)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintf(os.Stderr, "Error: %s\n", err)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clawboard",
		Short:         "Clawboard - mission-control board CLI",
		Long:          rootLong,
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("Unknown command: %s\nRun \"clawboard help\" for usage information.", args[0])
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ${CLAWBOARD_DIR}/config.yaml)")

	// health 명령어
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check application health status",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(buildSetupCommand(a))
	rootCmd.AddCommand(buildMigrateCommand(a))
	rootCmd.AddCommand(buildRelayCommand(a))
	rootCmd.AddCommand(buildTailCommand(a))
	for _, op := range operations() {
		rootCmd.AddCommand(buildOperationCommand(a, op))
	}

	return rootCmd
}
