package user

// User represents a registered account in the system.
type User struct {
	ID       string   // ID is the unique identifier for the user
	Name     string   // Name is the display name of the user
	Email    string   // Email is the unique, normalized email address of the user
	Password string   // Password is the bcrypt hash, never the plaintext
	Image    string   // Image is the stored path of the avatar
	PlaceIDs []string // PlaceIDs lists the places owned by the user
}
