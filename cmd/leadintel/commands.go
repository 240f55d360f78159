package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/checkfox/leadintel/internal/app"
	"github.com/checkfox/leadintel/internal/config"
	"github.com/checkfox/leadintel/internal/insights"
	"github.com/checkfox/leadintel/internal/logger"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	fixtures string
	days     int
	context  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "leadintel",
		Short:         "Lead scoring and AI-assisted sales insights",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.fixtures, "fixtures", "", "read leads from a JSON fixture file instead of Postgres")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newCompareCmd(opts),
		newScriptCmd(opts),
		newAdviceCmd(opts),
		newTrendsCmd(opts),
		newPingCmd(opts),
	)
	return root
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <lead-id>",
		Short: "Score a lead and write a narrative analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLeadID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, opts, func(ctx context.Context, svc *insights.Service) (interface{}, error) {
				return svc.AnalyzeLead(ctx, id)
			})
		},
	}
}

func newCompareCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <lead-id> <lead-id> [lead-id...]",
		Short: "Analyze several leads and rank them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseLeadID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return withService(cmd, opts, func(ctx context.Context, svc *insights.Service) (interface{}, error) {
				return svc.CompareLeads(ctx, ids)
			})
		},
	}
}

func newScriptCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <lead-id> <script-type>",
		Short: "Generate a sales script (first_contact, follow_up, presentation, closing, objection_handling)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLeadID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, opts, func(ctx context.Context, svc *insights.Service) (interface{}, error) {
				return svc.GenerateScript(ctx, id, args[1], opts.context)
			})
		},
	}
	cmd.Flags().StringVar(&opts.context, "context", "", "extra context for the script")
	return cmd
}

func newAdviceCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advice <advice-type>",
		Short: "Marketing advice (campaign_optimization, lead_generation, conversion_improvement, budget_allocation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc *insights.Service) (interface{}, error) {
				return svc.GetAdvice(ctx, args[0], opts.days)
			})
		},
	}
	cmd.Flags().IntVar(&opts.days, "days", 30, "length of the period in days")
	return cmd
}

func newTrendsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Lead quality trends over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc *insights.Service) (interface{}, error) {
				return svc.LeadTrends(ctx, opts.days)
			})
		},
	}
	cmd.Flags().IntVar(&opts.days, "days", 30, "length of the period in days")
	return cmd
}

func newPingCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the completion service answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc *insights.Service) (interface{}, error) {
				connected := svc.TestConnection(ctx)
				if !connected {
					return nil, fmt.Errorf("completion service is not reachable")
				}
				return map[string]bool{"connected": connected}, nil
			})
		},
	}
}

// withService assembles the engine, runs fn and prints its result as JSON
func withService(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, svc *insights.Service) (interface{}, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.InitWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	engine, err := app.New(ctx, cfg, app.Options{FixturesPath: opts.fixtures})
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := fn(ctx, engine.Service)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func parseLeadID(raw string) (int64, error) {
	id, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid lead id %q", raw)
	}
	return id, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
