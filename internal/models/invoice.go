package models

import (
	"time"

	"github.com/diewo77/go-crm/internal/records"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// InvoiceStatuses lists the accepted invoice statuses.
var InvoiceStatuses = []string{string(InvoiceStatusDraft), string(InvoiceStatusSent), string(InvoiceStatusPaid), string(InvoiceStatusOverdue)}

// Invoice represents a billing invoice.
type Invoice struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	ClientID    int           `json:"clientId,omitempty"`
	ClientName  string        `json:"clientName,omitempty"`
	ProjectID   int           `json:"projectId,omitempty"`
	ProjectName string        `json:"projectName,omitempty"`
	Amount      float64       `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	PaymentDate *time.Time    `json:"paymentDate,omitempty"`
	Tags        string        `json:"tags,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
	ModifiedAt  *time.Time    `json:"modifiedAt,omitempty"`
}

// IsPaid returns true once the invoice has been paid.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsOverdue reports whether an unpaid invoice is past its due date at t.
func (i *Invoice) IsOverdue(t time.Time) bool {
	if i.IsPaid() || i.DueDate == nil {
		return i.Status == InvoiceStatusOverdue
	}
	return i.Status == InvoiceStatusOverdue || i.DueDate.Before(t)
}

// InvoiceFromRecord maps a backend record to an Invoice.
func InvoiceFromRecord(r records.Record) Invoice {
	clientID, clientName := ref(r, "client_id", "clientId")
	projectID, projectName := ref(r, "project_id", "projectId")
	return Invoice{
		ID:          int(num(r, "Id", "id")),
		Name:        str(r, "Name", "name"),
		ClientID:    clientID,
		ClientName:  clientName,
		ProjectID:   projectID,
		ProjectName: projectName,
		Amount:      num(r, "amount", "Amount"),
		Status:      InvoiceStatus(str(r, "status", "Status")),
		DueDate:     stamp(r, "dueDate", "due_date"),
		PaymentDate: stamp(r, "paymentDate", "payment_date"),
		Tags:        str(r, "Tags", "tags"),
		CreatedAt:   stamp(r, "CreatedOn", "createdAt"),
		ModifiedAt:  stamp(r, "ModifiedOn", "updatedAt"),
	}
}
