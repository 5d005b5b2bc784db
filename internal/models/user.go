package models

// User represents a user in the system
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Not serialized
	AccessToken  string `json:"-"` // Encrypted provider access token, empty until a bank is linked
}

// BankConnected reports whether the user has linked a bank
func (u *User) BankConnected() bool {
	return u.AccessToken != ""
}
