package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/crm-suite/backend/internal/application/usecase/report"
	"github.com/crm-suite/backend/internal/integration/entrypoint/dto"
	"github.com/crm-suite/backend/internal/integration/persistence"
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		flags    rangeFlags
		tenant   string
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compute a tenant's report summary against the previous period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("invalid tenant id %q: %w", tenant, err)
			}
			clock, loc, err := a.clock()
			if err != nil {
				return err
			}
			tr, from, to, err := flags.parse(loc)
			if err != nil {
				return err
			}

			gdb, closeDB, err := a.deps.OpenDB(a.settings.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() { _ = closeDB() }()

			uc := report.NewGetSummaryUseCase(
				persistence.NewReportRepository(gdb),
				report.NewDateRangeResolver(clock),
				report.SummaryOptions{MaxParallelQueries: parallel},
			)
			output, err := uc.Execute(cmd.Context(), report.GetSummaryInput{
				TenantID:  tenantID,
				TimeRange: tr,
				From:      from,
				To:        to,
			})
			if err != nil {
				return err
			}
			return a.printJSON(dto.ToSummaryResponse(output, a.settings.LocaleTag()))
		},
	}
	flags.register(cmd, string(report.TimeRangeThisMonth))
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant id")
	cmd.Flags().IntVar(&parallel, "parallel", 6, "Maximum concurrent aggregate queries")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
