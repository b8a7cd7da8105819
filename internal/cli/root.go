package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/config"
	"github.com/crm-suite/backend/internal/application/adapter"
	"github.com/crm-suite/backend/internal/application/usecase/report"
	"github.com/crm-suite/backend/internal/infra/db"
)

// Deps are the collaborators reportctl reaches outside the process.
type Deps struct {
	Out io.Writer
	// Now is the wall clock; commands read it in the reporting timezone.
	Now func() time.Time
	// OpenDB connects to the CRM database and returns a close function.
	OpenDB func(url string) (*gorm.DB, func() error, error)
	// Sender overrides the email provider chosen from settings.
	Sender adapter.EmailSender
}

// DefaultDeps connects to PostgreSQL and writes to stdout.
func DefaultDeps() Deps {
	return Deps{
		Out:    os.Stdout,
		Now:    time.Now,
		OpenDB: openPostgres,
	}
}

func openPostgres(url string) (*gorm.DB, func() error, error) {
	database, err := db.NewPostgresConnection(&config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	return database.DB(), database.Close, nil
}

// app carries the resolved settings between the root and its subcommands.
type app struct {
	deps       Deps
	configPath string
	settings   *Settings
}

// NewRootCmd builds the reportctl command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.OpenDB == nil {
		deps.OpenDB = openPostgres
	}

	a := &app{deps: deps}
	cmd := &cobra.Command{
		Use:           "reportctl",
		Short:         "Inspect CRM report periods and deliver report digests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := LoadSettings(a.configPath)
			if err != nil {
				return err
			}
			a.settings = settings
			return nil
		},
	}
	cmd.SetOut(deps.Out)
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML, JSON or TOML settings file")

	cmd.AddCommand(
		newRangeCmd(a),
		newSummaryCmd(a),
		newDigestCmd(a),
		newTokenCmd(a),
	)
	return cmd
}

// clock returns the wall clock pinned to the reporting timezone.
func (a *app) clock() (report.Clock, *time.Location, error) {
	loc, err := a.settings.Location()
	if err != nil {
		return nil, nil, err
	}
	return locatedClock{now: a.deps.Now, loc: loc}, loc, nil
}

type locatedClock struct {
	now func() time.Time
	loc *time.Location
}

func (c locatedClock) Now() time.Time {
	return c.now().In(c.loc)
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.deps.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// rangeFlags are the period selector flags shared by report commands.
type rangeFlags struct {
	timeRange string
	from      string
	to        string
}

func (f *rangeFlags) register(cmd *cobra.Command, def string) {
	cmd.Flags().StringVar(&f.timeRange, "range", def, "Time range selector (today, last_week, this_month, custom, ...)")
	cmd.Flags().StringVar(&f.from, "from", "", "Custom range start (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&f.to, "to", "", "Custom range end (YYYY-MM-DD or RFC3339)")
}

func (f *rangeFlags) parse(loc *time.Location) (report.TimeRange, *time.Time, *time.Time, error) {
	tr, err := report.ParseTimeRange(f.timeRange)
	if err != nil {
		return "", nil, nil, err
	}
	from, err := report.ParseDateBound(f.from, loc, false)
	if err != nil {
		return "", nil, nil, err
	}
	to, err := report.ParseDateBound(f.to, loc, true)
	if err != nil {
		return "", nil, nil, err
	}
	return tr, from, to, nil
}
