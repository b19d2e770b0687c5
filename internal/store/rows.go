package store

type clientRow struct {
	ID         int     `gorm:"column:Id;primaryKey" mapstructure:"Id"`
	Name       string  `gorm:"column:Name;not null" mapstructure:"Name"`
	Email      *string `gorm:"column:email" mapstructure:"email"`
	Company    *string `gorm:"column:company" mapstructure:"company"`
	Status     *string `gorm:"column:status" mapstructure:"status"`
	Notes      *string `gorm:"column:notes" mapstructure:"notes"`
	Created    *string `gorm:"column:createdAt" mapstructure:"createdAt"`
	Tags       *string `gorm:"column:Tags" mapstructure:"Tags"`
	Owner      *int    `gorm:"column:Owner;index" mapstructure:"Owner"`
	CreatedOn  string  `gorm:"column:CreatedOn" mapstructure:"CreatedOn"`
	ModifiedOn string  `gorm:"column:ModifiedOn" mapstructure:"ModifiedOn"`
}

func (clientRow) TableName() string { return "client" }
func (r *clientRow) key() int { return r.ID }

type projectRow struct {
	ID          int      `gorm:"column:Id;primaryKey" mapstructure:"Id"`
	Name        string   `gorm:"column:Name;not null" mapstructure:"Name"`
	Description *string  `gorm:"column:description" mapstructure:"description"`
	ClientID    *int     `gorm:"column:client_id;index" mapstructure:"client_id"`
	Status      *string  `gorm:"column:status" mapstructure:"status"`
	Budget      *float64 `gorm:"column:budget" mapstructure:"budget"`
	StartDate   *string  `gorm:"column:startDate" mapstructure:"startDate"`
	EndDate     *string  `gorm:"column:endDate" mapstructure:"endDate"`
	Tags        *string  `gorm:"column:Tags" mapstructure:"Tags"`
	Owner       *int     `gorm:"column:Owner;index" mapstructure:"Owner"`
	CreatedOn   string   `gorm:"column:CreatedOn" mapstructure:"CreatedOn"`
	ModifiedOn  string   `gorm:"column:ModifiedOn" mapstructure:"ModifiedOn"`
}

func (projectRow) TableName() string { return "project" }
func (r *projectRow) key() int { return r.ID }

type taskRow struct {
	ID         int     `gorm:"column:Id;primaryKey" mapstructure:"Id"`
	Name       *string `gorm:"column:Name" mapstructure:"Name"`
	Title      string  `gorm:"column:title;not null" mapstructure:"title"`
	Priority   *string `gorm:"column:priority" mapstructure:"priority"`
	Status     *string `gorm:"column:status" mapstructure:"status"`
	DueDate    *string `gorm:"column:dueDate" mapstructure:"dueDate"`
	TotalTime  *int    `gorm:"column:total_time" mapstructure:"total_time"`
	ProjectID  *int    `gorm:"column:project_id;index" mapstructure:"project_id"`
	Tags       *string `gorm:"column:Tags" mapstructure:"Tags"`
	Owner      *int    `gorm:"column:Owner;index" mapstructure:"Owner"`
	CreatedOn  string  `gorm:"column:CreatedOn" mapstructure:"CreatedOn"`
	ModifiedOn string  `gorm:"column:ModifiedOn" mapstructure:"ModifiedOn"`
}

func (taskRow) TableName() string { return "task" }
func (r *taskRow) key() int { return r.ID }

type invoiceRow struct {
	ID          int     `gorm:"column:Id;primaryKey" mapstructure:"Id"`
	Name        *string `gorm:"column:Name" mapstructure:"Name"`
	ClientID    *int    `gorm:"column:client_id;index" mapstructure:"client_id"`
	ProjectID   *int    `gorm:"column:project_id;index" mapstructure:"project_id"`
	Amount      float64 `gorm:"column:amount;not null" mapstructure:"amount"`
	Status      *string `gorm:"column:status" mapstructure:"status"`
	DueDate     *string `gorm:"column:dueDate" mapstructure:"dueDate"`
	PaymentDate *string `gorm:"column:paymentDate" mapstructure:"paymentDate"`
	Tags        *string `gorm:"column:Tags" mapstructure:"Tags"`
	Owner       *int    `gorm:"column:Owner;index" mapstructure:"Owner"`
	CreatedOn   string  `gorm:"column:CreatedOn" mapstructure:"CreatedOn"`
	ModifiedOn  string  `gorm:"column:ModifiedOn" mapstructure:"ModifiedOn"`
}

func (invoiceRow) TableName() string { return "app_invoice" }
func (r *invoiceRow) key() int { return r.ID }

type timeLogRow struct {
	ID         int     `gorm:"column:Id;primaryKey" mapstructure:"Id"`
	Name       *string `gorm:"column:Name" mapstructure:"Name"`
	TaskID     int     `gorm:"column:task_id;index;not null" mapstructure:"task_id"`
	StartTime  string  `gorm:"column:startTime;not null" mapstructure:"startTime"`
	EndTime    *string `gorm:"column:endTime" mapstructure:"endTime"`
	Duration   *int    `gorm:"column:duration" mapstructure:"duration"`
	Date       *string `gorm:"column:date" mapstructure:"date"`
	Owner      *int    `gorm:"column:Owner;index" mapstructure:"Owner"`
	CreatedOn  string  `gorm:"column:CreatedOn" mapstructure:"CreatedOn"`
	ModifiedOn string  `gorm:"column:ModifiedOn" mapstructure:"ModifiedOn"`
}

func (timeLogRow) TableName() string { return "time_log" }
func (r *timeLogRow) key() int { return r.ID }

// Models returns every table model, for AutoMigrate.
func Models() []any {
	return []any{&clientRow{}, &projectRow{}, &taskRow{}, &invoiceRow{}, &timeLogRow{}}
}
