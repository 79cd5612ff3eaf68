package auth

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/rcorp/claims-service/internal/domain"
	"github.com/rcorp/claims-service/internal/repository"
)

// RoleAuthorizer implements the transition authorization contract on
// top of the role model: admins and brokers may transition any ticket,
// fleet managers only tickets of their own account.
type RoleAuthorizer struct {
	users repository.UserRepository
}

// NewRoleAuthorizer builds the authorizer.
func NewRoleAuthorizer(users repository.UserRepository) *RoleAuthorizer {
	return &RoleAuthorizer{users: users}
}

// CanTransition reports whether the actor may transition the ticket.
// Unknown or inactive actors are denied, not errored.
func (a *RoleAuthorizer) CanTransition(ctx context.Context, actorID string, ticket *domain.Ticket) (bool, error) {
	user, err := a.users.GetByID(ctx, actorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	if !user.IsActive {
		return false, nil
	}
	switch user.Role {
	case domain.RoleAdmin, domain.RoleBroker:
		return true, nil
	case domain.RoleFleetManager:
		return user.AccountID != "" && user.AccountID == ticket.AccountID, nil
	default:
		return false, nil
	}
}

// DirectoryAdapter exposes the user repository as the actor directory
// used for display-name denormalization.
type DirectoryAdapter struct {
	users repository.UserRepository
}

// NewDirectoryAdapter builds the adapter.
func NewDirectoryAdapter(users repository.UserRepository) *DirectoryAdapter {
	return &DirectoryAdapter{users: users}
}

// GetDisplayName resolves the actor's display name.
func (d *DirectoryAdapter) GetDisplayName(ctx context.Context, actorID string) (string, error) {
	user, err := d.users.GetByID(ctx, actorID)
	if err != nil {
		return "", err
	}
	return user.DisplayName, nil
}
