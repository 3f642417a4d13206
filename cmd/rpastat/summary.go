package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/secondary/jsonfile"
	"github.com/sgk-rpa/rpa-dashboard/internal/config"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/services"
)

type summaryCmd struct {
	variant  string
	file     string
	profiles string
	from     string
	to       string
	query    string
	where    []string
	trend    int
	logger   func() *slog.Logger
}

func newSummaryCmd(logger func() *slog.Logger) *cobra.Command {
	sc := &summaryCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate a JSON export and print the dashboard summary",
		Example: `  rpastat summary --file data/data.json --from 2024-03-01 --where isyeri=Uludağ
  rpastat summary --variant exit --file data/datacikis.json --where cikis_nedeni=04`,
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.variant, "variant", domain.VariantEntry, "Dashboard variant")
	cmd.Flags().StringVar(&sc.file, "file", "", "Path to the JSON export")
	cmd.Flags().StringVar(&sc.profiles, "profiles", "", "Path to a dashboard profile file")
	cmd.Flags().StringVar(&sc.from, "from", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sc.to, "to", "", "Last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sc.query, "q", "", "Free-text search")
	cmd.Flags().StringArrayVar(&sc.where, "where", nil, "Field constraint as field=value (repeatable)")
	cmd.Flags().IntVar(&sc.trend, "trend", -1, "Trend window in days (0 keeps every day, -1 uses the variant default)")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (sc *summaryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	variants, err := config.LoadVariants(sc.profiles)
	if err != nil {
		return err
	}
	var selected *domain.Variant
	for i := range variants {
		if variants[i].Name == sc.variant {
			selected = &variants[i]
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("unknown variant %q", sc.variant)
	}

	filter := domain.FilterSpec{From: sc.from, To: sc.to, Query: sc.query}
	for _, w := range sc.where {
		field, value, ok := strings.Cut(w, "=")
		if !ok || field == "" {
			return fmt.Errorf("invalid --where %q: expected field=value", w)
		}
		filter = filter.Where(field, value)
	}

	source := jsonfile.NewSource(map[string]string{sc.variant: sc.file})
	svc := services.NewDashboardService(source, nil, sc.logger(), *selected)
	if _, err := svc.Reload(ctx, sc.variant); err != nil {
		return err
	}

	params := ports.SummaryParams{QueryParams: ports.QueryParams{Variant: sc.variant, Filter: filter}}
	if sc.trend >= 0 {
		params.TrendWindow = &sc.trend
	}
	summary, err := svc.Summary(ctx, params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
