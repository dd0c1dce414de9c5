package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/ticket-report-engine/internal/dto"
	"github.com/noah-isme/ticket-report-engine/internal/repository"
	"github.com/noah-isme/ticket-report-engine/internal/service"
	"github.com/noah-isme/ticket-report-engine/pkg/config"
	"github.com/noah-isme/ticket-report-engine/pkg/database"
	"github.com/noah-isme/ticket-report-engine/pkg/logger"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	fixture string
	quiet   bool
}

// requestFlags mirror the raw report request fields.
type requestFlags struct {
	reportType  string
	dateRange   string
	dateFrom    string
	dateTo      string
	entities    []string
	statuses    []string
	priorities  []string
	agents      []string
	slaStatuses []string
	groupBy     string
	sortBy      string
	sortOrder   string
	limit       string
	kbMetric    string
	noSummary   bool
	noCharts    bool
	noDetails   bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Generate ticket, SLA, agent and knowledge base reports",
		Long: `reportctl builds the same reports as the HTTP API.

Data comes from the database configured through the environment (.env, DB_DRIVER,
DB_HOST, ...) or, with --fixture, from a YAML fixture file.

Examples:
  reportctl generate --type tickets --range last_30_days --status open --status in_progress
  reportctl generate --type agent --fixture testdata/tickets.yaml
  reportctl export --type sla --format csv --out sla.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.fixture, "fixture", "", "Read report data from a YAML fixture instead of the database")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress log output")

	root.AddCommand(newGenerateCmd(opts), newExportCmd(opts))
	return root
}

func bindRequestFlags(cmd *cobra.Command, f *requestFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.reportType, "type", "t", "tickets", "Report type: tickets|sla|agent|knowledgebase")
	flags.StringVarP(&f.dateRange, "range", "r", "last_7_days", "Date range: today|yesterday|last_7_days|last_30_days|last_90_days|custom")
	flags.StringVar(&f.dateFrom, "from", "", "Custom range start (YYYY-MM-DD)")
	flags.StringVar(&f.dateTo, "to", "", "Custom range end, inclusive (YYYY-MM-DD)")
	flags.StringSliceVar(&f.entities, "entity", nil, "Entity id filter (repeatable)")
	flags.StringSliceVar(&f.statuses, "status", nil, "Ticket status filter (repeatable)")
	flags.StringSliceVar(&f.priorities, "priority", nil, "Priority filter (repeatable)")
	flags.StringSliceVar(&f.agents, "agent", nil, `Agent id filter, "unassigned" for no agent (repeatable)`)
	flags.StringSliceVar(&f.slaStatuses, "sla-status", nil, "SLA status filter (repeatable)")
	flags.StringVar(&f.groupBy, "group-by", "", "Group rows by: status|priority|entity|agent|date|sla_status")
	flags.StringVar(&f.sortBy, "sort-by", "", "Sort column")
	flags.StringVar(&f.sortOrder, "sort-order", "", "Sort order: ASC|DESC")
	flags.StringVar(&f.limit, "limit", "", `Row limit or "all"`)
	flags.StringVar(&f.kbMetric, "kb-metric", "", "Knowledge base ranking: views|helpful|helpfulness_ratio")
	flags.BoolVar(&f.noSummary, "no-summary", false, "Omit summary statistics")
	flags.BoolVar(&f.noCharts, "no-charts", false, "Omit chart data")
	flags.BoolVar(&f.noDetails, "no-details", false, "Omit detail rows")
}

func (f *requestFlags) toRequest() dto.ReportRequest {
	return dto.ReportRequest{
		ReportType:      f.reportType,
		DateRange:       f.dateRange,
		DateFrom:        f.dateFrom,
		DateTo:          f.dateTo,
		FilterEntityID:  f.entities,
		FilterStatus:    f.statuses,
		FilterPriority:  f.priorities,
		FilterAgentID:   f.agents,
		FilterSLAStatus: f.slaStatuses,
		GroupBy:         f.groupBy,
		SortBy:          f.sortBy,
		SortOrder:       f.sortOrder,
		Limit:           f.limit,
		KBMetric:        f.kbMetric,
		ShowSummary:     boolPtr(!f.noSummary),
		ShowCharts:      boolPtr(!f.noCharts),
		ShowDetails:     boolPtr(!f.noDetails),
	}
}

func boolPtr(v bool) *bool { return &v }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openReportService builds the service over the fixture or the configured
// database. The returned closer releases the data source.
func openReportService(opts *globalOptions) (*service.ReportService, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logr := zap.NewNop()
	if !opts.quiet {
		if logr, err = logger.New(cfg); err != nil {
			return nil, nil, fmt.Errorf("init logger: %w", err)
		}
	}

	if opts.fixture != "" {
		store, err := repository.LoadFixtureStore(opts.fixture)
		if err != nil {
			return nil, nil, err
		}
		return service.NewReportService(store, store, store, nil, logr, cfg.Reports), closerFunc(func() error { return nil }), nil
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	svc := service.NewReportService(
		repository.NewTicketRepository(db),
		repository.NewKBAnalyticsRepository(db),
		repository.NewDirectoryRepository(db),
		nil,
		logr,
		cfg.Reports,
	)
	return svc, db, nil
}
