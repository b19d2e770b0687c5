package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/validation"
)

var invoiceTable = table{
	name:   "app_invoice",
	entity: "Invoice",
	fields: []string{"Id", "Name", "client_id", "project_id", "amount", "status", "dueDate", "paymentDate", "Tags", "Owner", "CreatedOn", "ModifiedOn"},
}

// InvoiceService reads and writes invoice records.
type InvoiceService struct {
	*crud[models.Invoice]
}

func NewInvoiceService(a *access) *InvoiceService {
	s := &InvoiceService{}
	s.crud = &crud[models.Invoice]{access: a, table: invoiceTable, decode: models.InvoiceFromRecord, normalize: s.normalize}
	return s
}

// MarkAsPaid sets the invoice status to paid and stamps the payment date.
// An empty payment date is rejected before the backend is called.
func (s *InvoiceService) MarkAsPaid(ctx context.Context, id any, paymentDate any) (*models.Invoice, error) {
	v := make(validation.Violations)
	if _, err := validation.ParseID(id); err != nil {
		v.Add("Id", "Invalid invoice ID")
	}
	if validation.Required("paymentDate", paymentDate, "Payment date is required", v) {
		dateField(Fields{"paymentDate": paymentDate}, v, "paymentDate", "Invalid payment date", "paymentDate")
	}
	if !v.Empty() {
		return nil, s.fail(ctx, s.table, &ValidationError{Entity: s.table.entity, Violations: v})
	}
	return s.Update(ctx, id, Fields{"status": string(models.InvoiceStatusPaid), "paymentDate": paymentDate})
}

// MarkAsSent sets the invoice status to sent.
func (s *InvoiceService) MarkAsSent(ctx context.Context, id any) (*models.Invoice, error) {
	return s.Update(ctx, id, Fields{"status": string(models.InvoiceStatusSent)})
}

// ForClient lists the invoices of one client.
func (s *InvoiceService) ForClient(ctx context.Context, clientID any) ([]models.Invoice, error) {
	id, err := s.parseID(ctx, clientTable, clientID)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, records.FetchParams{
		Where: []records.Condition{{FieldName: "client_id", Operator: records.OpEqualTo, Values: []any{id}}},
	})
}

func (s *InvoiceService) normalize(f Fields, partial bool) (records.Record, validation.Violations) {
	v := make(validation.Violations)
	rec := records.Record{}

	if name, ok := f.text("Name", "name"); ok && name != "" {
		rec["Name"] = name
	} else if !partial {
		rec["Name"] = fmt.Sprintf("Invoice-%d", s.now().UnixMilli())
	}

	raw, ok := f.lookup("project_id", "projectId")
	if ok || !partial {
		if validation.Required("project_id", raw, "Project ID is required", v) {
			if id, valid := validation.ID("project_id", raw, "Invalid project ID", v); valid {
				rec["project_id"] = id
			}
		}
	}
	if raw, ok := f.lookup("client_id", "clientId"); ok && !validation.Blank(raw) {
		if id, valid := validation.ID("client_id", raw, "Invalid client ID", v); valid {
			rec["client_id"] = id
		}
	}

	if raw, ok := f.lookup("amount", "Amount"); ok || !partial {
		if validation.Blank(raw) {
			v.Add("amount", "Amount must be greater than 0")
		} else if amount, valid := validation.PositiveFloat("amount", raw, "Amount must be a valid number", "Amount must be greater than 0", v); valid {
			rec["amount"] = amount
		}
	}

	if raw, _ := f.lookup("dueDate", "due_date"); !partial && validation.Blank(raw) {
		v.Add("dueDate", "Due date is required")
	} else if due, ok := dateField(f, v, "dueDate", "Invalid due date", "dueDate", "due_date"); ok {
		rec["dueDate"] = due.Format(models.DateLayout)
	}

	if paid, ok := dateField(f, v, "paymentDate", "Invalid payment date", "paymentDate", "payment_date"); ok {
		rec["paymentDate"] = paid.UTC().Format(time.RFC3339)
	}

	status, ok := f.text("status", "Status")
	switch {
	case ok && status != "":
		validation.OneOf("status", status, models.InvoiceStatuses, "Invalid invoice status", v)
		rec["status"] = status
	case !partial:
		rec["status"] = string(models.InvoiceStatusDraft)
	}

	if tags, ok := f.text("Tags", "tags"); ok {
		rec["Tags"] = tags
	}
	return rec, v
}
