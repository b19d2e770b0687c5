package models

import (
	"time"

	"github.com/diewo77/go-crm/internal/records"
)

// ClientStatus is the lifecycle state of a client.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusProspect ClientStatus = "prospect"
)

// ClientStatuses lists the accepted client statuses.
var ClientStatuses = []string{string(ClientStatusActive), string(ClientStatusInactive), string(ClientStatusProspect)}

// Client is a customer of the business.
type Client struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email,omitempty"`
	Company   string       `json:"company,omitempty"`
	Status    ClientStatus `json:"status"`
	Notes     string       `json:"notes,omitempty"`
	Tags      string       `json:"tags,omitempty"`
	OwnerID   int          `json:"ownerId,omitempty"`
	CreatedAt *time.Time   `json:"createdAt,omitempty"`
}

// IsActive reports whether the client is currently active.
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// ClientFromRecord maps a backend record to a Client.
func ClientFromRecord(r records.Record) Client {
	owner, _ := ref(r, "Owner", "owner")
	return Client{
		ID:        int(num(r, "Id", "id")),
		Name:      str(r, "Name", "name"),
		Email:     str(r, "email", "Email"),
		Company:   str(r, "company", "Company"),
		Status:    ClientStatus(str(r, "status", "Status")),
		Notes:     str(r, "notes", "Notes"),
		Tags:      str(r, "Tags", "tags"),
		OwnerID:   owner,
		CreatedAt: stamp(r, "createdAt", "created_at", "CreatedOn"),
	}
}
