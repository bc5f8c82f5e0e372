package user

// SignUpRequest represents the request payload for creating an account.
// Image is the stored avatar path.
type SignUpRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Image    string
}

// LogInRequest represents the request payload for logging in.
type LogInRequest struct {
	Email    string
	Password string
}

// AuthResponse is returned by sign-up and log-in.
type AuthResponse struct {
	UserID string
	Email  string
	Token  string
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO for API responses. It never carries the password.
type User struct {
	ID       string
	Name     string
	Email    string
	Image    string
	PlaceIDs []string
}
