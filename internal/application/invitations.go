package application

import (
	"context"
	"fmt"

	"github.com/example/campshare/internal/notify"
	"github.com/example/campshare/internal/persistence"
)

// InviteUserBySMS issues a temporary password to phoneNumber and texts it.
//
// A user that already has the phone number is updated in place; otherwise a new user is
// created. State is persisted before the message is sent, and a failed send leaves it in place.
// The returned error covers validation and persistence only; delivery is reported in the result.
func (c *Container) InviteUserBySMS(ctx context.Context, phoneNumber, name string, permissions []Permission) (result InvitationResult, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	phone := notify.DigitsOnly(phoneNumber)
	logger := c.loggerWith(ctx, "InviteUserBySMS", "phone_suffix", notify.PhoneSuffix(phone))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "invitation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "invitation processed",
			"user_id", result.User.ID,
			"delivered", result.Delivered,
			"detail", result.Detail,
		)
	}()

	if phone == "" {
		vErr := &ValidationError{}
		vErr.add("phoneNumber", "phone number is required")
		err = vErr
		return
	}

	perms, err := permissionsOrDefault(permissions)
	if err != nil {
		return
	}

	tempPassword, sealed, err := c.issueTempPassword()
	if err != nil {
		return
	}

	c.mu.Lock()
	now := c.timestamp()
	if idx := c.findUserByPhoneLocked(phone); idx >= 0 {
		user := &c.users[idx]
		user.InvitationStatus = InvitationSent
		user.InvitationSentAt = now
		user.Permissions = perms
		user.TempPassword = sealed
		user.Password = ""
		result.User = cloneUser(*user)
	} else {
		user := User{
			ID:               c.idGenerator(),
			Name:             name,
			PhoneNumber:      phone,
			Permissions:      perms,
			InvitationStatus: InvitationSent,
			InvitationSentAt: now,
			TempPassword:     sealed,
		}
		c.users = append(c.users, user)
		result.User = cloneUser(user)
	}
	err = c.persistLocked(ctx, persistence.BucketUsers, c.users)
	c.mu.Unlock()
	if err != nil {
		return
	}

	c.deliver(ctx, &result, phone, tempPassword)
	return
}

// ResendInvitation issues a fresh temporary password to an existing user and texts it.
func (c *Container) ResendInvitation(ctx context.Context, id string) (result InvitationResult, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	logger := c.loggerWith(ctx, "ResendInvitation", "user_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "resend invitation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "invitation resent", "delivered", result.Delivered, "detail", result.Detail)
	}()

	tempPassword, sealed, err := c.issueTempPassword()
	if err != nil {
		return
	}

	c.mu.Lock()
	idx := indexByID(c.users, id, func(u User) string { return u.ID })
	switch {
	case idx < 0:
		err = ErrNotFound
	case c.users[idx].PhoneNumber == "":
		err = ErrNoPhoneNumber
	default:
		user := &c.users[idx]
		user.InvitationStatus = InvitationSent
		user.InvitationSentAt = c.timestamp()
		user.TempPassword = sealed
		result.User = cloneUser(*user)
		err = c.persistLocked(ctx, persistence.BucketUsers, c.users)
	}
	c.mu.Unlock()
	if err != nil {
		return
	}

	c.deliver(ctx, &result, result.User.PhoneNumber, tempPassword)
	return
}

// VerifyInvitation checks code with the configured verifier and, on success, marks the user
// with that phone number as accepted.
func (c *Container) VerifyInvitation(ctx context.Context, phoneNumber, code string) (user User, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	phone := notify.DigitsOnly(phoneNumber)
	logger := c.loggerWith(ctx, "VerifyInvitation", "phone_suffix", notify.PhoneSuffix(phone))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "invitation verification failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "invitation accepted", "user_id", user.ID)
	}()

	ok, err := c.verifier.Verify(ctx, phone, code)
	if err != nil {
		err = fmt.Errorf("failed to verify invitation code: %w", err)
		return
	}
	if !ok {
		err = ErrInvalidCredentials
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.findUserByPhoneLocked(phone)
	if idx < 0 {
		err = ErrNotFound
		return
	}
	accepted := InvitationAccepted
	if user, err = c.applyProfilePatchLocked(c.users[idx].ID, UserPatch{InvitationStatus: &accepted}); err != nil {
		return
	}
	err = c.persistLocked(ctx, persistence.BucketUsers, c.users)
	return
}

func (c *Container) issueTempPassword() (plain, sealed string, err error) {
	if plain, err = c.tempPassword(); err != nil {
		return "", "", err
	}
	if sealed, err = c.credentials.Seal(plain); err != nil {
		return "", "", fmt.Errorf("failed to seal temporary password: %w", err)
	}
	return plain, sealed, nil
}

func (c *Container) deliver(ctx context.Context, result *InvitationResult, phone, tempPassword string) {
	sent := c.sender.Send(ctx, notify.Message{To: phone, Body: notify.InvitationMessage(tempPassword)})
	result.Delivered = sent.Success
	result.Detail = sent.Error
}
