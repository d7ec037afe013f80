package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role determines the scope of records a user may act on.
type Role string

// Possible user roles
const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the CloudTask application.
// A user owns zero or more Projects; a Task's owner is resolved
// transitively through its Project.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given email, full name and password.
// It generates a new UUID for the user ID, assigns the USER role, marks the
// user active and sets the creation timestamp.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(email, fullName, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		FullName:  fullName,
		Password:  password, // Plaintext password - must be hashed before storage
		Role:      RoleUser,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !isValidRole(u.Role) {
		return ErrInvalidRole
	}

	if u.Password != "" {
		// When a plaintext password is provided, validate its length
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the database carry only the hash
		return ErrEmptyPassword
	}

	return nil
}

// isValidRole checks if the given role is a known Role.
func isValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Require a dot in the domain part, not at its edges
	domainPart := email[atIndex+1:]
	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
