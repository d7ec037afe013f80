package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("test@example.com", "Test User", "verysecurepassword")

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "Test User", user.FullName)
	assert.Equal(t, RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(u *User)
		wantErr error
	}{
		{
			name:    "valid user",
			modify:  func(u *User) {},
			wantErr: nil,
		},
		{
			name:    "empty ID",
			modify:  func(u *User) { u.ID = uuid.Nil },
			wantErr: ErrEmptyUserID,
		},
		{
			name:    "empty email",
			modify:  func(u *User) { u.Email = "" },
			wantErr: ErrEmptyEmail,
		},
		{
			name:    "malformed email",
			modify:  func(u *User) { u.Email = "not-an-email" },
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "dot at end of domain",
			modify:  func(u *User) { u.Email = "user@example." },
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "unknown role",
			modify:  func(u *User) { u.Role = Role("SUPERUSER") },
			wantErr: ErrInvalidRole,
		},
		{
			name:    "password too short",
			modify:  func(u *User) { u.Password = "short" },
			wantErr: ErrPasswordTooShort,
		},
		{
			name:    "no password at all",
			modify:  func(u *User) { u.Password = ""; u.HashedPassword = "" },
			wantErr: ErrEmptyPassword,
		},
		{
			name:    "hashed password only",
			modify:  func(u *User) { u.Password = ""; u.HashedPassword = "$2a$10$hash" },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser("test@example.com", "Test User", "verysecurepassword")
			assert.NoError(t, err)

			tt.modify(user)
			err = user.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserIsAdmin(t *testing.T) {
	user, err := NewUser("admin@example.com", "Admin", "verysecurepassword")
	assert.NoError(t, err)
	assert.False(t, user.IsAdmin())

	user.Role = RoleAdmin
	assert.True(t, user.IsAdmin())
}
