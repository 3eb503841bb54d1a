package application

import (
	"context"
	"fmt"

	"github.com/example/campshare/internal/notify"
	"github.com/example/campshare/internal/persistence"
)

// LoginWithPhoneAndPassword authenticates the first user with the given phone number.
//
// A matching temporary password logs in without touching LastLogin and sets MustSetPassword.
// A matching permanent password stamps LastLogin. Unknown numbers and wrong passwords both
// return ErrInvalidCredentials; the reason is only logged at debug level.
func (c *Container) LoginWithPhoneAndPassword(ctx context.Context, phoneNumber, password string) (result LoginResult, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	phone := notify.DigitsOnly(phoneNumber)
	logger := c.loggerWith(ctx, "LoginWithPhoneAndPassword", "phone_suffix", notify.PhoneSuffix(phone))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "login failed", "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded", "user_id", result.User.ID, "temporary_password", result.MustSetPassword)
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.findUserByPhoneLocked(phone)
	if idx < 0 {
		logger.DebugContext(ctx, "no user with phone number")
		err = ErrInvalidCredentials
		return
	}

	user := &c.users[idx]
	switch {
	case c.credentials.Matches(user.TempPassword, password):
		result = LoginResult{User: cloneUser(*user), MustSetPassword: true}
	case c.credentials.Matches(user.Password, password):
		user.LastLogin = c.timestamp()
		if err = c.persistLocked(ctx, persistence.BucketUsers, c.users); err != nil {
			return
		}
		result = LoginResult{User: cloneUser(*user)}
	default:
		logger.DebugContext(ctx, "password mismatch", "user_id", user.ID)
		err = ErrInvalidCredentials
		return
	}

	current := cloneUser(result.User)
	c.current = &current
	err = c.persistCurrentLocked(ctx)
	return
}

// ResetPassword replaces the user's password when oldPassword matches the temporary or the
// permanent password. It clears the temporary password and marks the invitation accepted.
// The session user is refreshed when it refers to the same user.
func (c *Container) ResetPassword(ctx context.Context, id, oldPassword, newPassword string) (err error) {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	logger := c.loggerWith(ctx, "ResetPassword", "user_id", id)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "password reset failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "password reset")
	}()

	sealed, err := c.credentials.Seal(newPassword)
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.users, id, func(u User) string { return u.ID })
	if idx < 0 {
		return ErrNotFound
	}
	user := &c.users[idx]
	if !c.credentials.Matches(user.TempPassword, oldPassword) && !c.credentials.Matches(user.Password, oldPassword) {
		return ErrInvalidCredentials
	}

	user.Password = sealed
	user.TempPassword = ""
	user.InvitationStatus = InvitationAccepted
	user.PasswordSetAt = c.timestamp()
	user.ProfileCompleted = true
	if err = c.persistLocked(ctx, persistence.BucketUsers, c.users); err != nil {
		return err
	}

	if c.current != nil && c.current.ID == id {
		current := cloneUser(*user)
		c.current = &current
		return c.persistCurrentLocked(ctx)
	}
	return nil
}

// CurrentUser returns the session user, if any.
func (c *Container) CurrentUser() (User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return User{}, false
	}
	return cloneUser(*c.current), true
}

// SetCurrentUser replaces the session user. A nil user logs out.
func (c *Container) SetCurrentUser(ctx context.Context, user *User) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if user == nil {
		c.current = nil
	} else {
		current := cloneUser(*user)
		c.current = &current
	}
	return c.persistCurrentLocked(ctx)
}

// Logout clears the session user.
func (c *Container) Logout(ctx context.Context) error {
	if err := c.SetCurrentUser(ctx, nil); err != nil {
		return err
	}
	c.loggerWith(ctx, "Logout").InfoContext(ctx, "logged out")
	return nil
}

// Authorize returns the session user when it holds permission.
func (c *Container) Authorize(permission Permission) (User, error) {
	user, ok := c.CurrentUser()
	if !ok {
		return User{}, ErrUnauthenticated
	}
	if !user.HasPermission(permission) {
		return User{}, ErrForbidden
	}
	return user, nil
}
