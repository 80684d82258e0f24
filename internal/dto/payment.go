package dto

// CreatePaymentRequest carries a new fee ledger entry.
type CreatePaymentRequest struct {
	StudentID string  `json:"studentId"`
	Type      string  `json:"type" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency"`
	DueDate   string  `json:"dueDate" binding:"required"`
	Method    string  `json:"paymentMethod"`
	Reference string  `json:"paymentReference"`
	Notes     string  `json:"notes"`
}

// UpdatePaymentStatusRequest transitions a payment's settlement state.
type UpdatePaymentStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	PaidDate  string `json:"paidDate"`
	Method    string `json:"paymentMethod"`
	Reference string `json:"paymentReference"`
	Notes     string `json:"notes"`
}

// UpdateDonationStatusRequest transitions a donation's ledger state.
type UpdateDonationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
