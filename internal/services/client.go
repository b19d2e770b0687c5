package services

import (
	"net/mail"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/validation"
)

var clientTable = table{
	name:   "client",
	entity: "Client",
	fields: []string{"Id", "Name", "email", "company", "status", "notes", "createdAt", "Tags", "Owner", "CreatedOn", "ModifiedOn"},
}

// ClientService reads and writes client records.
type ClientService struct {
	*crud[models.Client]
}

func NewClientService(a *access) *ClientService {
	s := &ClientService{}
	s.crud = &crud[models.Client]{access: a, table: clientTable, decode: models.ClientFromRecord, normalize: s.normalize}
	return s
}

func (s *ClientService) normalize(f Fields, partial bool) (records.Record, validation.Violations) {
	v := make(validation.Violations)
	rec := records.Record{}

	if name, ok := f.text("Name", "name"); ok || !partial {
		if validation.Required("Name", name, "Client name is required", v) {
			rec["Name"] = name
		}
	}
	if email, ok := f.text("email", "Email"); ok {
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				v.Add("email", "Invalid email address")
			}
		}
		rec["email"] = email
	}
	if company, ok := f.text("company", "Company"); ok {
		rec["company"] = company
	}
	if notes, ok := f.text("notes", "Notes"); ok {
		rec["notes"] = notes
	}
	if tags, ok := f.text("Tags", "tags"); ok {
		rec["Tags"] = tags
	}

	status, ok := f.text("status", "Status")
	switch {
	case ok && status != "":
		validation.OneOf("status", status, models.ClientStatuses, "Invalid client status", v)
		rec["status"] = status
	case !partial:
		rec["status"] = string(models.ClientStatusActive)
	}
	if !partial {
		rec["createdAt"] = s.now().UTC().Format(time.RFC3339)
	}
	return rec, v
}
