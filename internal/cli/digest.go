package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/crm-suite/backend/internal/application/adapter"
	"github.com/crm-suite/backend/internal/application/usecase/report"
	"github.com/crm-suite/backend/internal/integration/email"
	"github.com/crm-suite/backend/internal/integration/email/templates"
	"github.com/crm-suite/backend/internal/integration/entrypoint/dto"
	"github.com/crm-suite/backend/internal/integration/persistence"
)

func newDigestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Queue and deliver report digests",
	}
	cmd.AddCommand(newDigestSendCmd(a), newDigestFlushCmd(a))
	return cmd
}

// sender returns the configured provider, or a recorder when no API key is set.
func (a *app) sender() adapter.EmailSender {
	if a.deps.Sender != nil {
		return a.deps.Sender
	}
	if a.settings.ResendAPIKey == "" {
		return email.NewRecordingSender()
	}
	return email.NewResendClient(a.settings.ResendAPIKey, a.settings.FromName, a.settings.FromEmail)
}

func newDigestSendCmd(a *app) *cobra.Command {
	var (
		flags  rangeFlags
		tenant string
		to     string
		name   string
		lang   string
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Snapshot a summary and deliver it by email right away",
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
			tr, from, rangeTo, err := flags.parse(loc)
			if err != nil {
				return err
			}
			locale := a.settings.LocaleTag()
			if lang != "" {
				locale = report.MatchLocale(lang, locale)
			}

			gdb, closeDB, err := a.deps.OpenDB(a.settings.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() { _ = closeDB() }()

			queue := persistence.NewReportDigestRepository(gdb)
			summary := report.NewGetSummaryUseCase(
				persistence.NewReportRepository(gdb),
				report.NewDateRangeResolver(clock),
				report.SummaryOptions{},
			)
			output, err := report.NewScheduleDigestUseCase(summary, queue, clock).Execute(cmd.Context(), report.ScheduleDigestInput{
				TenantID:       tenantID,
				TimeRange:      tr,
				From:           from,
				To:             rangeTo,
				RecipientEmail: to,
				RecipientName:  name,
				Locale:         locale,
			})
			if err != nil {
				return err
			}

			worker, err := a.worker(queue, clock)
			if err != nil {
				return err
			}
			worker.ProcessNow(cmd.Context())

			digest, err := queue.GetByID(cmd.Context(), output.Digest.ID)
			if err != nil {
				return err
			}
			return a.printJSON(dto.ToDigestResponse(digest))
		},
	}
	flags.register(cmd, string(report.TimeRangeLastWeek))
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant id")
	cmd.Flags().StringVar(&to, "to-email", "", "Recipient address")
	cmd.Flags().StringVar(&name, "name", "", "Recipient display name")
	cmd.Flags().StringVar(&lang, "lang", "", "Digest language (he or en)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("to-email")
	return cmd
}

func newDigestFlushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Deliver every digest that is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clock, _, err := a.clock()
			if err != nil {
				return err
			}
			gdb, closeDB, err := a.deps.OpenDB(a.settings.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() { _ = closeDB() }()

			worker, err := a.worker(persistence.NewReportDigestRepository(gdb), clock)
			if err != nil {
				return err
			}
			worker.ProcessNow(cmd.Context())
			_, err = fmt.Fprintln(a.deps.Out, "due digests processed")
			return err
		},
	}
}

func (a *app) worker(queue adapter.DigestQueueRepository, clock report.Clock) (*email.Worker, error) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	return email.NewWorker(queue, a.sender(), renderer, email.WorkerConfig{}, clock.Now), nil
}
