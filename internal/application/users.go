package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/example/campshare/internal/notify"
	"github.com/example/campshare/internal/persistence"
)

// AddUser creates a user directly. Permissions default to read-only and the invitation
// status defaults to pending. The profile counts as completed when a phone number is given.
func (c *Container) AddUser(ctx context.Context, input UserInput) (user User, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	logger := c.loggerWith(ctx, "AddUser")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "add user failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user added", "user_id", user.ID, "invitation_status", user.InvitationStatus)
	}()

	perms, err := permissionsOrDefault(input.Permissions)
	if err != nil {
		return
	}

	user = User{
		Name:             strings.TrimSpace(input.Name),
		Permissions:      perms,
		PhoneNumber:      notify.DigitsOnly(input.PhoneNumber),
		Email:            strings.TrimSpace(input.Email),
		InvitationStatus: input.InvitationStatus,
	}
	if user.InvitationStatus == "" {
		user.InvitationStatus = InvitationPending
	}
	user.ProfileCompleted = user.PhoneNumber != ""
	if input.Password != "" {
		if user.Password, err = c.credentials.Seal(input.Password); err != nil {
			err = fmt.Errorf("failed to seal password: %w", err)
			return
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	user.ID = c.idGenerator()
	c.users = append(c.users, cloneUser(user))
	err = c.persistLocked(ctx, persistence.BucketUsers, c.users)
	return
}

// UpdateUserPermissions replaces the permission set of a user. Unknown ids are ignored.
func (c *Container) UpdateUserPermissions(ctx context.Context, id string, permissions []Permission) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	perms, err := normalizePermissions(permissions)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.users, id, func(u User) string { return u.ID })
	if idx < 0 {
		return nil
	}
	c.users[idx].Permissions = perms
	if err := c.persistLocked(ctx, persistence.BucketUsers, c.users); err != nil {
		return err
	}
	c.loggerWith(ctx, "UpdateUserPermissions", "user_id", id).InfoContext(ctx, "permissions updated", "permissions", perms)
	return nil
}

// UpdateUserProfile merges the supplied fields into a user. Unknown ids are ignored.
//
// Accepting the invitation stamps LastLogin. Other invitation statuses in the patch are ignored.
// Supplying a phone number marks the profile completed.
func (c *Container) UpdateUserProfile(ctx context.Context, id string, patch UserPatch) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.applyProfilePatchLocked(id, patch); errors.Is(err, ErrNotFound) {
		return nil
	}
	return c.persistLocked(ctx, persistence.BucketUsers, c.users)
}

// applyProfilePatchLocked reports ErrNotFound for unknown ids.
func (c *Container) applyProfilePatchLocked(id string, patch UserPatch) (User, error) {
	idx := indexByID(c.users, id, func(u User) string { return u.ID })
	if idx < 0 {
		return User{}, ErrNotFound
	}

	user := &c.users[idx]
	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = notify.DigitsOnly(*patch.PhoneNumber)
		if user.PhoneNumber != "" {
			user.ProfileCompleted = true
		}
	}
	if patch.InvitationStatus != nil && *patch.InvitationStatus == InvitationAccepted {
		user.InvitationStatus = InvitationAccepted
		user.LastLogin = c.timestamp()
	}
	return cloneUser(*user), nil
}

func (c *Container) findUserByPhoneLocked(phone string) int {
	if phone == "" {
		return -1
	}
	return slices.IndexFunc(c.users, func(u User) bool { return u.PhoneNumber == phone })
}

// permissionsOrDefault grants read-only to new accounts created without permissions.
func permissionsOrDefault(perms []Permission) ([]Permission, error) {
	if len(perms) == 0 {
		return []Permission{PermissionReadOnly}, nil
	}
	return normalizePermissions(perms)
}

// normalizePermissions validates and de-duplicates perms, keeping first-seen order.
func normalizePermissions(perms []Permission) ([]Permission, error) {
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if !p.Valid() {
			vErr := &ValidationError{}
			vErr.add("permissions", fmt.Sprintf("unknown permission %q", p))
			return nil, vErr
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}
