package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"EmpireBuilder/internal/empire/bootstrap"
	httphandler "EmpireBuilder/internal/empire/interfaces/handler/http"
	"EmpireBuilder/internal/shared/logs"
	"EmpireBuilder/internal/shared/scheduler"
	"EmpireBuilder/internal/shared/serverconfig"
	transportgrpc "EmpireBuilder/internal/shared/transport/grpc"
	"EmpireBuilder/modules/kit/logx"
)

var (
	configFile string
	timeout    time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "empirectl",
		Short: "Empire engine admin tool",
		Long: `Operates directly on the configured empire storage:
seed AI empires, list the power ranking, trigger a production or AI round.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to conf.yml (default: search configs/conf.yml upward)")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Overall command timeout")

	rootCmd.AddCommand(seedAICmd(), listCmd(), tickCmd(), healthCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withComponents 加载配置并装配引擎，执行完关闭连接。
func withComponents(fn func(ctx context.Context, c *bootstrap.Components) error) error {
	conf, err := serverconfig.Load(configFile)
	if err != nil {
		return err
	}
	conf.Log.FileDir = ""
	if conf.Log.Level == "" || conf.Log.Level == "debug" {
		conf.Log.Level = "warn"
	}
	if err := logs.Init("empirectl", conf.Log); err != nil {
		return err
	}
	defer logs.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c, err := bootstrap.Build(ctx, conf, logx.NewZapLogger(logs.Logger()))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(context.Background()); cerr != nil {
			logs.Warn("close failed", zap.Error(cerr))
		}
	}()
	return fn(ctx, c)
}

func seedAICmd() *cobra.Command {
	var (
		count      int
		difficulty string
	)
	cmd := &cobra.Command{
		Use:   "seed-ai",
		Short: "Top up AI empires to the given count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withComponents(func(ctx context.Context, c *bootstrap.Components) error {
				created, err := c.Service.SeedAI(ctx, count, difficulty)
				if err != nil {
					return err
				}
				for _, e := range created {
					fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) strategy=%s\n", e.Name, e.ID, e.AI.Strategy)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d ai empires created\n", len(created))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "Target number of AI empires")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "normal", "easy | normal | hard")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print empires ranked by military power",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withComponents(func(ctx context.Context, c *bootstrap.Components) error {
				all, err := c.Service.ListEmpires(ctx)
				if err != nil {
					return err
				}
				return renderRanking(cmd.OutOrStdout(), httphandler.Rank(c.Catalog, all), all)
			})
		},
	}
}

func tickCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "tick [production|ai]",
		Short:     "Run one production sweep or one AI round now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{bootstrap.JobProduction, bootstrap.JobAI},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(func(ctx context.Context, c *bootstrap.Components) error {
				job, ok := c.Job(c.Service, args[0])
				if !ok {
					return fmt.Errorf("unknown job %q", args[0])
				}
				if err := scheduler.New(c.Log).RunOnce(ctx, job); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s done\n", job.Name)
				return nil
			})
		},
	}
}

func healthCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query the server's grpc health service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := transportgrpc.Dial(addr)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.GetStatus().String())
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9090", "grpc server address")
	return cmd
}
