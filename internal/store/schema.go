package store

// kind is the storage type of a column.
type kind int

const (
	kindText kind = iota
	kindInt
	kindFloat
	kindDate
	kindDateTime
	kindRef
)

type column struct {
	name     string
	label    string
	kind     kind
	required bool
	readonly bool
	enum     []string
	ref      string // referenced table for kindRef
}

type schema struct {
	table   string
	columns []column
	model   func() row
}

func (s *schema) column(name string) (column, bool) {
	for _, c := range s.columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

func (s *schema) names() []string {
	out := make([]string, 0, len(s.columns))
	for _, c := range s.columns {
		out = append(out, c.name)
	}
	return out
}

// row is the gorm model of one table.
type row interface {
	TableName() string
	key() int
}

func system(cols ...column) []column {
	head := []column{{name: "Id", label: "Id", kind: kindInt, readonly: true}}
	tail := []column{
		{name: "Owner", label: "Owner", kind: kindInt, readonly: true},
		{name: "CreatedOn", label: "Created On", kind: kindDateTime, readonly: true},
		{name: "ModifiedOn", label: "Modified On", kind: kindDateTime, readonly: true},
	}
	return append(append(head, cols...), tail...)
}

var schemas = map[string]*schema{
	"client": {
		table: "client",
		model: func() row { return &clientRow{} },
		columns: system(
			column{name: "Name", label: "Name", kind: kindText, required: true},
			column{name: "email", label: "Email", kind: kindText},
			column{name: "company", label: "Company", kind: kindText},
			column{name: "status", label: "Status", kind: kindText, enum: []string{"active", "inactive", "prospect"}},
			column{name: "notes", label: "Notes", kind: kindText},
			column{name: "createdAt", label: "Created At", kind: kindDateTime},
			column{name: "Tags", label: "Tags", kind: kindText},
		),
	},
	"project": {
		table: "project",
		model: func() row { return &projectRow{} },
		columns: system(
			column{name: "Name", label: "Name", kind: kindText, required: true},
			column{name: "description", label: "Description", kind: kindText},
			column{name: "client_id", label: "Client", kind: kindRef, ref: "client"},
			column{name: "status", label: "Status", kind: kindText, enum: []string{"planning", "active", "on-hold", "completed"}},
			column{name: "budget", label: "Budget", kind: kindFloat},
			column{name: "startDate", label: "Start Date", kind: kindDate},
			column{name: "endDate", label: "End Date", kind: kindDate},
			column{name: "Tags", label: "Tags", kind: kindText},
		),
	},
	"task": {
		table: "task",
		model: func() row { return &taskRow{} },
		columns: system(
			column{name: "Name", label: "Name", kind: kindText},
			column{name: "title", label: "Title", kind: kindText, required: true},
			column{name: "priority", label: "Priority", kind: kindText, enum: []string{"low", "medium", "high"}},
			column{name: "status", label: "Status", kind: kindText, enum: []string{"todo", "in-progress", "review", "done"}},
			column{name: "dueDate", label: "Due Date", kind: kindDate},
			column{name: "total_time", label: "Total Time", kind: kindInt},
			column{name: "project_id", label: "Project", kind: kindRef, ref: "project"},
			column{name: "Tags", label: "Tags", kind: kindText},
		),
	},
	"app_invoice": {
		table: "app_invoice",
		model: func() row { return &invoiceRow{} },
		columns: system(
			column{name: "Name", label: "Name", kind: kindText},
			column{name: "client_id", label: "Client", kind: kindRef, ref: "client"},
			column{name: "project_id", label: "Project", kind: kindRef, ref: "project"},
			column{name: "amount", label: "Amount", kind: kindFloat, required: true},
			column{name: "status", label: "Status", kind: kindText, enum: []string{"draft", "sent", "paid", "overdue"}},
			column{name: "dueDate", label: "Due Date", kind: kindDate},
			column{name: "paymentDate", label: "Payment Date", kind: kindDateTime},
			column{name: "Tags", label: "Tags", kind: kindText},
		),
	},
	"time_log": {
		table: "time_log",
		model: func() row { return &timeLogRow{} },
		columns: system(
			column{name: "Name", label: "Name", kind: kindText},
			column{name: "task_id", label: "Task", kind: kindRef, ref: "task", required: true},
			column{name: "startTime", label: "Start Time", kind: kindDateTime, required: true},
			column{name: "endTime", label: "End Time", kind: kindDateTime},
			column{name: "duration", label: "Duration", kind: kindInt},
			column{name: "date", label: "Date", kind: kindDate},
		),
	},
}
