package models

import "time"

// PaymentStatus enumerates payment ledger states.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentPartial PaymentStatus = "partial"
)

// Payment represents a fee ledger entry. StudentRef is optional; payments
// without a student still count toward global totals.
type Payment struct {
	ID          string        `db:"id" json:"-"`
	PaymentID   string        `db:"payment_id" json:"id"`
	StudentRef  *string       `db:"student_ref" json:"-"`
	StudentCode *string       `db:"student_code" json:"studentId,omitempty"`
	StudentName *string       `db:"student_name" json:"studentName,omitempty"`
	Type        string        `db:"payment_type" json:"type"`
	Amount      float64       `db:"amount" json:"amount"`
	Currency    string        `db:"currency" json:"currency"`
	DueDate     time.Time     `db:"due_date" json:"dueDate"`
	PaidDate    *time.Time    `db:"paid_date" json:"paidDate,omitempty"`
	Method      string        `db:"payment_method" json:"paymentMethod,omitempty"`
	Reference   string        `db:"payment_reference" json:"paymentReference,omitempty"`
	Status      PaymentStatus `db:"status" json:"status"`
	Notes       string        `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

// PaymentRow is the reduced snapshot consumed by the payment report.
type PaymentRow struct {
	StudentRef *string       `db:"student_ref"`
	Type       string        `db:"payment_type"`
	Method     string        `db:"payment_method"`
	Amount     float64       `db:"amount"`
	Currency   string        `db:"currency"`
	DueDate    time.Time     `db:"due_date"`
	PaidDate   *time.Time    `db:"paid_date"`
	Status     PaymentStatus `db:"status"`
}

// PaymentFilter captures filtering criteria for listing payments.
type PaymentFilter struct {
	Status      PaymentStatus
	PaymentType string
	StudentCode string
	Window      TimeWindow
	Page        int
	Limit       int
}
