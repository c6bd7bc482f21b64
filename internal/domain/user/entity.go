package user

// User represents a user record of the remote directory.
// Values are replaced wholesale on update; there is no partial update.
type User struct {
	ID       int64  `json:"id"`       // ID is server-assigned, or provisional before creation
	Name     string `json:"name"`     // Name is the display name of the user
	Username string `json:"username"` // Username is the user's handle
	Email    string `json:"email"`    // Email is not format-checked
}

// Provisional returns the placeholder record used when a caller creates a user
// without supplying fields of its own.
func Provisional() User {
	return User{
		ID:       0,
		Name:     "New User",
		Username: "New",
		Email:    "New Email",
	}
}
