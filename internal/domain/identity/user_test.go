package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, role Role) *User {
	t.Helper()
	user, err := NewUser("jordan@example.com", "$2a$10$hashhashhash", "Jordan", role)
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active customer", func(t *testing.T) {
		user := newTestUser(t, RoleCustomer)

		assert.Equal(t, "jordan@example.com", user.Email)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.True(t, user.IsActive())
		assert.Nil(t, user.LastLoginAt)
	})

	t.Run("normalizes email", func(t *testing.T) {
		user, err := NewUser("  Jordan@Example.COM ", "$2a$10$hash", "", RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, "jordan@example.com", user.Email)
	})

	t.Run("publishes registered event", func(t *testing.T) {
		user := newTestUser(t, RoleCustomer)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserRegistered, events[0].EventType())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewUser("not-an-email", "$2a$10$hash", "", RoleCustomer)
		assert.Error(t, err)

		_, err = NewUser("jordan@example.com", "", "", RoleCustomer)
		assert.Error(t, err)

		_, err = NewUser("jordan@example.com", "$2a$10$hash", "", Role("superuser"))
		assert.Error(t, err)
	})
}

func TestUserSupplierLink(t *testing.T) {
	t.Run("links supplier account", func(t *testing.T) {
		user := newTestUser(t, RoleSupplier)
		supplierID := uuid.New()

		err := user.LinkSupplier(supplierID)
		require.NoError(t, err)
		require.NotNil(t, user.SupplierID)
		assert.Equal(t, supplierID, *user.SupplierID)
	})

	t.Run("customer cannot be linked", func(t *testing.T) {
		user := newTestUser(t, RoleCustomer)

		err := user.LinkSupplier(uuid.New())
		assert.Error(t, err)
	})
}

func TestUserLifecycle(t *testing.T) {
	t.Run("disable and enable", func(t *testing.T) {
		user := newTestUser(t, RoleCustomer)

		require.NoError(t, user.Disable())
		assert.False(t, user.IsActive())
		assert.Error(t, user.Disable())

		require.NoError(t, user.Enable())
		assert.True(t, user.IsActive())
	})

	t.Run("record login", func(t *testing.T) {
		user := newTestUser(t, RoleCustomer)

		user.RecordLogin()
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("change password", func(t *testing.T) {
		user := newTestUser(t, RoleCustomer)

		require.NoError(t, user.ChangePassword("$2a$10$newhash"))
		assert.Equal(t, "$2a$10$newhash", user.PasswordHash)

		assert.Error(t, user.ChangePassword(""))
	})
}

func TestUserHasRole(t *testing.T) {
	admin := newTestUser(t, RoleAdmin)

	assert.True(t, admin.HasRole(RoleAdmin))
	assert.True(t, admin.HasRole(RoleSupplier, RoleAdmin))
	assert.False(t, admin.HasRole(RoleCustomer, RoleSupplier))
}
