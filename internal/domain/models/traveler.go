package models

// Traveler is one passenger on a wizard session. Every field except
// CallingCode is collected from the form; CallingCode is resolved from the
// nationality just before booking.
type Traveler struct {
	Title          string `json:"title,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	Nationality    string `json:"nationality"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CallingCode    string `json:"calling_code,omitempty"`
	PassportNumber string `json:"passport_number"`
	PassportExpiry string `json:"passport_expiry"`
}
