package models

import "time"

// DonationStatus enumerates donation ledger states.
type DonationStatus string

const (
	DonationCompleted DonationStatus = "completed"
	DonationPending   DonationStatus = "pending"
	DonationFailed    DonationStatus = "failed"
	DonationRefunded  DonationStatus = "refunded"
)

// Donor represents a donor relationship record.
type Donor struct {
	ID             string     `db:"id" json:"-"`
	DonorID        string     `db:"donor_id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email,omitempty"`
	Phone          string     `db:"phone" json:"phone,omitempty"`
	Address        string     `db:"address" json:"address,omitempty"`
	Status         string     `db:"status" json:"status"`
	Notes          string     `db:"notes" json:"notes,omitempty"`
	NextFollowUpAt *time.Time `db:"next_follow_up_at" json:"nextFollowUpAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// Donation represents a single donation ledger entry.
type Donation struct {
	ID           string         `db:"id" json:"-"`
	DonationID   string         `db:"donation_id" json:"id"`
	DonorRef     *string        `db:"donor_ref" json:"-"`
	DonorCode    *string        `db:"donor_code" json:"donorId,omitempty"`
	DonorName    *string        `db:"donor_name" json:"donorName,omitempty"`
	Amount       float64        `db:"amount" json:"amount"`
	Currency     string         `db:"currency" json:"currency"`
	Purpose      string         `db:"purpose" json:"purpose,omitempty"`
	DonationDate time.Time      `db:"donation_date" json:"donationDate"`
	Status       DonationStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// DonationRow is the reduced snapshot consumed by the donor report.
// DonorRef is optional; donations without a donor still count toward
// global totals but are excluded from per-donor rankings.
type DonationRow struct {
	DonorRef     *string        `db:"donor_ref"`
	DonorCode    *string        `db:"donor_code"`
	DonorName    *string        `db:"donor_name"`
	DonorEmail   *string        `db:"donor_email"`
	Amount       float64        `db:"amount"`
	Currency     string         `db:"currency"`
	Purpose      string         `db:"purpose"`
	DonationDate time.Time      `db:"donation_date"`
	Status       DonationStatus `db:"status"`
}

// DonorFilter captures filtering criteria for listing donors.
type DonorFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}
