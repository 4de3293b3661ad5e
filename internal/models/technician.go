// internal/models/technician.go
package models

import "strings"

// Status is the closed classification of a technician registration.
type Status string

const (
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusPending      Status = "pending"
	StatusUnrecognized Status = "unrecognized"
)

func (s Status) String() string { return string(s) }

// NormalizeStatus maps a raw status string from the store onto the closed set.
// Matching is case-insensitive; anything outside the known values is Unrecognized.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	case "pending":
		return StatusPending
	default:
		return StatusUnrecognized
	}
}

// TechnicianRecord is a technician registration as read from the store.
// Records are created and mutated by the external registration flow; this
// service only reads them.
type TechnicianRecord struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Status      string `json:"status"` // raw value; normalize before branching
	Expertise   string `json:"expertise,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Complete reports whether the record carries everything an email needs.
func (t TechnicianRecord) Complete() bool {
	return t.Email != "" && t.FirstName != "" && t.LastName != ""
}

// FullName joins first and last name, substituting a placeholder when the
// first name is missing so failure reports stay readable.
func (t TechnicianRecord) FullName() string {
	first := t.FirstName
	if first == "" {
		first = "No name"
	}
	return strings.TrimSpace(first + " " + t.LastName)
}

// DisplayEmail returns the email or a placeholder for report rendering.
func (t TechnicianRecord) DisplayEmail() string {
	if t.Email == "" {
		return "No email"
	}
	return t.Email
}

// DisplayExpertise returns the expertise with the display default applied.
func (t TechnicianRecord) DisplayExpertise() string {
	if t.Expertise == "" {
		return "Technician"
	}
	return t.Expertise
}

// DisplayPhoneNumber returns the phone number with the display default applied.
func (t TechnicianRecord) DisplayPhoneNumber() string {
	if t.PhoneNumber == "" {
		return "Not provided"
	}
	return t.PhoneNumber
}

// DisplayAddress returns the address with the display default applied.
func (t TechnicianRecord) DisplayAddress() string {
	if t.Address == "" {
		return "Not provided"
	}
	return t.Address
}
