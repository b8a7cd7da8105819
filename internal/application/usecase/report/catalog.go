package report

import (
	domainerror "github.com/crm-suite/backend/internal/domain/error"
	"github.com/crm-suite/backend/internal/domain/entity"
)

// Module identifies a reportable CRM module.
type Module string

const (
	ModuleLeads        Module = "leads"
	ModuleCustomers    Module = "customers"
	ModuleOrders       Module = "orders"
	ModuleInvoices     Module = "invoices"
	ModuleAppointments Module = "appointments"
)

// RecordSource describes how a module is stored. Column names here are the
// only identifiers ever interpolated into report queries.
type RecordSource struct {
	Module        Module
	Table         string
	DateColumn    string
	TitleColumn   string
	StatusColumn  string
	AmountColumn  string
	SearchColumns []string
}

// HasAmount reports whether the source carries a monetary column.
func (s RecordSource) HasAmount() bool {
	return s.AmountColumn != ""
}

var recordSources = map[Module]RecordSource{
	ModuleLeads: {
		Module:        ModuleLeads,
		Table:         "leads",
		DateColumn:    "created_at",
		TitleColumn:   "full_name",
		StatusColumn:  "status",
		AmountColumn:  "estimated_value",
		SearchColumns: []string{"full_name", "email", "phone", "source"},
	},
	ModuleCustomers: {
		Module:        ModuleCustomers,
		Table:         "customers",
		DateColumn:    "created_at",
		TitleColumn:   "name",
		StatusColumn:  "status",
		SearchColumns: []string{"name", "email", "phone", "company"},
	},
	ModuleOrders: {
		Module:        ModuleOrders,
		Table:         "orders",
		DateColumn:    "ordered_at",
		TitleColumn:   "order_number",
		StatusColumn:  "status",
		AmountColumn:  "total_amount",
		SearchColumns: []string{"order_number", "notes"},
	},
	ModuleInvoices: {
		Module:        ModuleInvoices,
		Table:         "invoices",
		DateColumn:    "issued_at",
		TitleColumn:   "invoice_number",
		StatusColumn:  "status",
		AmountColumn:  "total_amount",
		SearchColumns: []string{"invoice_number"},
	},
	ModuleAppointments: {
		Module:        ModuleAppointments,
		Table:         "appointments",
		DateColumn:    "starts_at",
		TitleColumn:   "title",
		StatusColumn:  "status",
		SearchColumns: []string{"title", "location"},
	},
}

// ParseModule validates a raw module name and returns its record source.
func ParseModule(raw string) (RecordSource, error) {
	source, ok := recordSources[Module(raw)]
	if !ok {
		return RecordSource{}, domainerror.NewReportError(
			domainerror.ErrCodeInvalidModule,
			domainerror.ErrInvalidModule.Error(),
			domainerror.ErrInvalidModule,
		)
	}
	return source, nil
}

// SourceFor returns the record source of a known module.
func SourceFor(m Module) (RecordSource, bool) {
	source, ok := recordSources[m]
	return source, ok
}

// AggregateKind selects how matching rows are folded into one value.
type AggregateKind string

const (
	AggregateCount AggregateKind = "count"
	AggregateSum   AggregateKind = "sum"
)

// FilterOp is a comparison applied to a single column.
type FilterOp string

const (
	FilterEq    FilterOp = "eq"
	FilterNotEq FilterOp = "neq"
	FilterIn    FilterOp = "in"
)

// Filter narrows the rows of a source. For FilterIn, Value holds a []string.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

// MetricKey names a summary metric.
type MetricKey string

const (
	MetricNewLeads              MetricKey = "new_leads"
	MetricConvertedLeads        MetricKey = "converted_leads"
	MetricNewCustomers          MetricKey = "new_customers"
	MetricOrders                MetricKey = "orders"
	MetricRevenue               MetricKey = "revenue"
	MetricInvoicedAmount        MetricKey = "invoiced_amount"
	MetricPaidInvoices          MetricKey = "paid_invoices"
	MetricAppointments          MetricKey = "appointments"
	MetricCompletedAppointments MetricKey = "completed_appointments"
)

// Metric is one aggregate reported for both the current and previous period.
type Metric struct {
	Key     MetricKey
	Module  Module
	Kind    AggregateKind
	Filters []Filter
}

// IsMonetary reports whether the metric sums an amount column.
func (m Metric) IsMonetary() bool {
	return m.Kind == AggregateSum
}

// MetricCatalog is the ordered list of metrics in a summary.
var MetricCatalog = []Metric{
	{Key: MetricNewLeads, Module: ModuleLeads, Kind: AggregateCount},
	{
		Key:     MetricConvertedLeads,
		Module:  ModuleLeads,
		Kind:    AggregateCount,
		Filters: []Filter{{Column: "status", Op: FilterEq, Value: string(entity.LeadStatusConverted)}},
	},
	{Key: MetricNewCustomers, Module: ModuleCustomers, Kind: AggregateCount},
	{
		Key:     MetricOrders,
		Module:  ModuleOrders,
		Kind:    AggregateCount,
		Filters: []Filter{{Column: "status", Op: FilterNotEq, Value: string(entity.OrderStatusCancelled)}},
	},
	{
		Key:     MetricRevenue,
		Module:  ModuleOrders,
		Kind:    AggregateSum,
		Filters: []Filter{{Column: "status", Op: FilterNotEq, Value: string(entity.OrderStatusCancelled)}},
	},
	{
		Key:     MetricInvoicedAmount,
		Module:  ModuleInvoices,
		Kind:    AggregateSum,
		Filters: []Filter{{Column: "status", Op: FilterNotEq, Value: string(entity.InvoiceStatusVoid)}},
	},
	{
		Key:     MetricPaidInvoices,
		Module:  ModuleInvoices,
		Kind:    AggregateSum,
		Filters: []Filter{{Column: "status", Op: FilterEq, Value: string(entity.InvoiceStatusPaid)}},
	},
	{
		Key:    MetricAppointments,
		Module: ModuleAppointments,
		Kind:   AggregateCount,
		Filters: []Filter{{Column: "status", Op: FilterIn, Value: []string{
			string(entity.AppointmentStatusScheduled),
			string(entity.AppointmentStatusCompleted),
			string(entity.AppointmentStatusNoShow),
		}}},
	},
	{
		Key:     MetricCompletedAppointments,
		Module:  ModuleAppointments,
		Kind:    AggregateCount,
		Filters: []Filter{{Column: "status", Op: FilterEq, Value: string(entity.AppointmentStatusCompleted)}},
	},
}
