package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cnap-oss/clawboard/internal/common"
	"github.com/cnap-oss/clawboard/internal/connector"
	"github.com/cnap-oss/clawboard/internal/watch"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// buildSetupCommand는 PATH 설정 방법과 데이터베이스 위치를 안내합니다.
func buildSetupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Show how to put clawboard on your PATH",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}

			binDir := "<directory containing clawboard>"
			if exe, err := os.Executable(); err == nil {
				binDir = filepath.Dir(exe)
			}

			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			_, _ = bold.Fprintln(out, "Clawboard CLI Setup")
			fmt.Fprintln(out, "===================")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Add clawboard to your PATH by adding this line to your shell profile:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %s\n", color.CyanString("export PATH=%q", binDir+":$PATH"))
			fmt.Fprintln(out)
			fmt.Fprintln(out, `Then run "clawboard help" to see the available commands.`)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Database location: %s\n", color.GreenString(databaseLocation(a.cfg)))
			return nil
		},
	}
}

// buildMigrateCommand는 스키마를 적용합니다. 다른 명령도 실행 시 스키마를 적용하지만
// 배포 직후 한 번 명시적으로 실행할 수 있도록 별도 명령을 둡니다.
func buildMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.controller(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"migrated": true,
				"database": databaseLocation(a.cfg),
			})
		},
	}
}

// buildRelayCommand는 미전달 알림을 Discord로 보내는 릴레이를 실행합니다.
func buildRelayCommand(a *app) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay undelivered notifications to Discord",
		Long: `Relay periodically sends undelivered notifications to the configured Discord
channel as "@<agent name> <content>" and marks each one delivered after it is sent.

Requires CLAWBOARD_DISCORD_TOKEN and CLAWBOARD_DISCORD_CHANNEL_ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctrl, err := a.controller(ctx)
			if err != nil {
				return err
			}
			conn, err := connector.NewConnector(a.logger, ctrl, a.cfg,
				connector.WithRelayTelemetry(a.provider.Tracer, a.metrics))
			if err != nil {
				return err
			}

			if once {
				result, err := conn.Flush(ctx)
				stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if stopErr := conn.Stop(stopCtx); stopErr != nil {
					a.logger.Warn("Failed to stop connector", zap.Error(stopErr))
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			}
			return conn.Start(ctx)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "flush pending notifications once and exit")
	return cmd
}

// buildTailCommand는 다른 프로세스가 기록한 활동을 실시간으로 출력합니다.
func buildTailCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "activities:tail",
		Short: "Stream new activities as JSON lines",
		Long: `Watch the SQLite database file and print every newly recorded activity as one
JSON object per line until interrupted. Not available with a PostgreSQL DSN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctrl, err := a.controller(ctx)
			if err != nil {
				return err
			}
			path := common.GetDatabasePath(a.cfg)
			if path == "" {
				return fmt.Errorf("activities:tail requires a SQLite database")
			}

			w, err := watch.New(path, a.logger)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}

			var cursor time.Time
			if !all {
				latest, err := ctrl.ListActivities(ctx)
				if err != nil {
					return err
				}
				if len(latest) > 0 {
					cursor = latest[0].CreatedAt
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)

			emit := func() error {
				activities, err := ctrl.ListActivitiesSince(ctx, cursor)
				if err != nil {
					return err
				}
				for _, activity := range activities {
					if err := enc.Encode(activity); err != nil {
						return err
					}
					cursor = activity.CreatedAt
				}
				return nil
			}

			if all {
				if err := emit(); err != nil {
					return err
				}
			}
			for range w.Changes() {
				if err := emit(); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print the existing timeline before streaming")
	return cmd
}
