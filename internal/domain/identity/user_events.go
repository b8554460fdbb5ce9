package identity

import (
	"github.com/batterydepartment/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserRegistered = "UserRegistered"
)

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserRegisteredEvent creates a new user registered event
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Role:            user.Role,
	}
}
