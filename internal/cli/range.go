package cli

import (
	"github.com/spf13/cobra"

	"github.com/crm-suite/backend/internal/application/usecase/report"
	"github.com/crm-suite/backend/internal/integration/entrypoint/dto"
)

func newRangeCmd(a *app) *cobra.Command {
	var flags rangeFlags
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print the current and previous intervals a selector resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clock, loc, err := a.clock()
			if err != nil {
				return err
			}
			tr, from, to, err := flags.parse(loc)
			if err != nil {
				return err
			}

			output, err := report.NewResolveRangeUseCase(report.NewDateRangeResolver(clock)).Execute(report.ResolveRangeInput{
				TimeRange: tr,
				From:      from,
				To:        to,
			})
			if err != nil {
				return err
			}
			return a.printJSON(dto.ToRangeResponse(output, a.settings.LocaleTag()))
		},
	}
	flags.register(cmd, string(report.TimeRangeThisMonth))
	return cmd
}
