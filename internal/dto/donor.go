package dto

// CreateDonorRequest carries a new donor relationship.
type CreateDonorRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateDonorRequest carries a partial donor update.
type UpdateDonorRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Status         *string `json:"status"`
	Notes          *string `json:"notes"`
	NextFollowUpAt *string `json:"nextFollowUpAt"`
}

// AddDonationRequest records a donation under a donor.
type AddDonationRequest struct {
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Currency     string  `json:"currency"`
	Purpose      string  `json:"purpose"`
	DonationDate string  `json:"donationDate"`
	Status       string  `json:"status"`
}
