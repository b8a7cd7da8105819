package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm-suite/backend/internal/integration/persistence/model"
)

// registerDataSteps registers steps that seed CRM records.
func registerDataSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^tenant "([^"]*)" has leads:$`, tenantHasLeads)
	ctx.Step(`^tenant "([^"]*)" has customers:$`, tenantHasCustomers)
	ctx.Step(`^tenant "([^"]*)" has orders:$`, tenantHasOrders)
	ctx.Step(`^tenant "([^"]*)" has invoices:$`, tenantHasInvoices)
	ctx.Step(`^tenant "([^"]*)" has appointments:$`, tenantHasAppointments)
}

// tableRows maps each data row to its header names.
func tableRows(table *godog.Table) []map[string]string {
	if len(table.Rows) == 0 {
		return nil
	}
	header := table.Rows[0].Cells
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		values := make(map[string]string, len(header))
		for i, cell := range row.Cells {
			values[header[i].Value] = cell.Value
		}
		rows = append(rows, values)
	}
	return rows
}

func parseInstant(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return t.UTC(), nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// deletedAt soft-deletes a row when the deleted column says yes.
func deletedAt(row map[string]string, at time.Time) *time.Time {
	if row["deleted"] != "yes" {
		return nil
	}
	return &at
}

func tenantHasLeads(ctx context.Context, name string, table *godog.Table) error {
	tc := GetTestContext(ctx)
	tenantID := tc.tenant(name)

	for _, row := range tableRows(table) {
		createdAt, err := parseInstant(row["created_at"])
		if err != nil {
			return err
		}
		value, err := parseAmount(row["value"])
		if err != nil {
			return err
		}
		lead := model.LeadModel{
			ID:             uuid.New(),
			TenantID:       tenantID,
			FullName:       row["name"],
			Email:          row["email"],
			Status:         row["status"],
			EstimatedValue: value,
			CreatedAt:      createdAt,
			UpdatedAt:      createdAt,
		}
		if d := deletedAt(row, createdAt); d != nil {
			lead.DeletedAt.Time, lead.DeletedAt.Valid = *d, true
		}
		if err := tc.db.DbConn.Create(&lead).Error; err != nil {
			return err
		}
	}
	return nil
}

func tenantHasCustomers(ctx context.Context, name string, table *godog.Table) error {
	tc := GetTestContext(ctx)
	tenantID := tc.tenant(name)

	for _, row := range tableRows(table) {
		createdAt, err := parseInstant(row["created_at"])
		if err != nil {
			return err
		}
		customer := model.CustomerModel{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      row["name"],
			Status:    row["status"],
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		if err := tc.db.DbConn.Create(&customer).Error; err != nil {
			return err
		}
	}
	return nil
}

func tenantHasOrders(ctx context.Context, name string, table *godog.Table) error {
	tc := GetTestContext(ctx)
	tenantID := tc.tenant(name)

	for _, row := range tableRows(table) {
		orderedAt, err := parseInstant(row["ordered_at"])
		if err != nil {
			return err
		}
		amount, err := parseAmount(row["amount"])
		if err != nil {
			return err
		}
		order := model.OrderModel{
			ID:          uuid.New(),
			TenantID:    tenantID,
			OrderNumber: row["number"],
			Status:      row["status"],
			TotalAmount: amount,
			OrderedAt:   orderedAt,
			CreatedAt:   orderedAt,
			UpdatedAt:   orderedAt,
		}
		if d := deletedAt(row, orderedAt); d != nil {
			order.DeletedAt.Time, order.DeletedAt.Valid = *d, true
		}
		if err := tc.db.DbConn.Create(&order).Error; err != nil {
			return err
		}
	}
	return nil
}

func tenantHasInvoices(ctx context.Context, name string, table *godog.Table) error {
	tc := GetTestContext(ctx)
	tenantID := tc.tenant(name)

	for _, row := range tableRows(table) {
		issuedAt, err := parseInstant(row["issued_at"])
		if err != nil {
			return err
		}
		amount, err := parseAmount(row["amount"])
		if err != nil {
			return err
		}
		invoice := model.InvoiceModel{
			ID:            uuid.New(),
			TenantID:      tenantID,
			InvoiceNumber: row["number"],
			Status:        row["status"],
			TotalAmount:   amount,
			IssuedAt:      issuedAt,
			CreatedAt:     issuedAt,
			UpdatedAt:     issuedAt,
		}
		if err := tc.db.DbConn.Create(&invoice).Error; err != nil {
			return err
		}
	}
	return nil
}

func tenantHasAppointments(ctx context.Context, name string, table *godog.Table) error {
	tc := GetTestContext(ctx)
	tenantID := tc.tenant(name)

	for _, row := range tableRows(table) {
		startsAt, err := parseInstant(row["starts_at"])
		if err != nil {
			return err
		}
		appointment := model.AppointmentModel{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Title:     row["title"],
			Status:    row["status"],
			StartsAt:  startsAt,
			EndsAt:    startsAt.Add(time.Hour),
			CreatedAt: startsAt,
			UpdatedAt: startsAt,
		}
		if err := tc.db.DbConn.Create(&appointment).Error; err != nil {
			return err
		}
	}
	return nil
}
