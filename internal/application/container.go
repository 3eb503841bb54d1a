package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/example/campshare/internal/notify"
	"github.com/example/campshare/internal/persistence"
)

const (
	defaultStartTime = "09:00"
	defaultEndTime   = "17:00"
	unknownUserName  = "Unknown"
)

// StateRepository persists whole collections by bucket name.
type StateRepository interface {
	Save(ctx context.Context, bucket string, value any) error
	Load(ctx context.Context, bucket string, dst any) (bool, error)
	Remove(ctx context.Context, bucket string) error
}

// Deps wires the collaborators of a Container. Repository and IDGenerator are required.
type Deps struct {
	Repository   StateRepository
	Sender       notify.Sender
	Credentials  Credentials
	Verifier     InvitationVerifier
	IDGenerator  func() string
	Now          func() time.Time
	TempPassword func() (string, error)
	Logger       *slog.Logger
}

// Container holds the camp state: events, maintenance tasks, cleaning tasks, users and the
// current session user. Every mutation is written through to the repository before returning.
type Container struct {
	repo         StateRepository
	sender       notify.Sender
	credentials  Credentials
	verifier     InvitationVerifier
	idGenerator  func() string
	now          func() time.Time
	tempPassword func() (string, error)
	logger       *slog.Logger

	mu          sync.Mutex
	events      []Event
	maintenance []MaintenanceTask
	cleaning    []CleaningTask
	users       []User
	current     *User
}

// Open builds a Container and loads persisted state. A missing users bucket is seeded with
// the default administrator and read-only accounts.
func Open(ctx context.Context, deps Deps) (*Container, error) {
	if deps.Repository == nil {
		return nil, fmt.Errorf("state repository not configured")
	}

	c := &Container{
		repo:         deps.Repository,
		sender:       deps.Sender,
		credentials:  deps.Credentials,
		verifier:     deps.Verifier,
		idGenerator:  deps.IDGenerator,
		now:          deps.Now,
		tempPassword: deps.TempPassword,
		logger:       defaultLogger(deps.Logger),
	}
	if c.sender == nil {
		c.sender = notify.UnconfiguredSender{}
	}
	if c.credentials == nil {
		c.credentials = PlaintextCredentials{}
	}
	if c.verifier == nil {
		c.verifier = FixedCodeVerifier{Code: DefaultVerificationCode}
	}
	if c.idGenerator == nil {
		return nil, fmt.Errorf("id generator not configured")
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.tempPassword == nil {
		c.tempPassword = GenerateTempPassword
	}

	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, c.logger, "Container", operation, attrs...)
}

func (c *Container) load(ctx context.Context) error {
	logger := c.loggerWith(ctx, "Open")

	if _, err := c.repo.Load(ctx, persistence.BucketEvents, &c.events); err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	for i := range c.events {
		if c.events[i].StartTime == "" {
			c.events[i].StartTime = defaultStartTime
		}
		if c.events[i].EndTime == "" {
			c.events[i].EndTime = defaultEndTime
		}
	}

	if _, err := c.repo.Load(ctx, persistence.BucketMaintenance, &c.maintenance); err != nil {
		return fmt.Errorf("failed to load maintenance tasks: %w", err)
	}
	if _, err := c.repo.Load(ctx, persistence.BucketCleaning, &c.cleaning); err != nil {
		return fmt.Errorf("failed to load cleaning tasks: %w", err)
	}

	found, err := c.repo.Load(ctx, persistence.BucketUsers, &c.users)
	switch {
	case err != nil && found:
		logger.WarnContext(ctx, "stored users are unreadable, using default accounts", "error", err)
		fallthrough
	case !found:
		if c.users, err = c.defaultUsers(); err != nil {
			return err
		}
		if err := c.repo.Save(ctx, persistence.BucketUsers, c.users); err != nil {
			return fmt.Errorf("failed to persist default users: %w", err)
		}
		logger.InfoContext(ctx, "seeded default users", "count", len(c.users))
	case err != nil:
		return fmt.Errorf("failed to load users: %w", err)
	}

	var current User
	found, err = c.repo.Load(ctx, persistence.BucketCurrentUser, &current)
	switch {
	case err != nil && found:
		logger.WarnContext(ctx, "stored session is unreadable, starting logged out", "error", err)
	case err != nil:
		return fmt.Errorf("failed to load current user: %w", err)
	case found:
		c.current = &current
	}

	logger.InfoContext(ctx, "state loaded",
		"events", len(c.events),
		"maintenance_tasks", len(c.maintenance),
		"cleaning_tasks", len(c.cleaning),
		"users", len(c.users),
		"logged_in", c.current != nil,
	)
	return nil
}

func (c *Container) defaultUsers() ([]User, error) {
	adminPassword, err := c.credentials.Seal("admin123")
	if err != nil {
		return nil, fmt.Errorf("failed to seal default password: %w", err)
	}
	userPassword, err := c.credentials.Seal("user123")
	if err != nil {
		return nil, fmt.Errorf("failed to seal default password: %w", err)
	}
	return []User{
		{
			ID:               "admin-user-id",
			Name:             "Admin User",
			Permissions:      []Permission{PermissionAdmin},
			PhoneNumber:      "1234567890",
			Password:         adminPassword,
			ProfileCompleted: true,
			InvitationStatus: InvitationAccepted,
		},
		{
			ID:               "regular-user-id",
			Name:             "Regular User",
			Permissions:      []Permission{PermissionReadOnly},
			PhoneNumber:      "0987654321",
			Password:         userPassword,
			ProfileCompleted: true,
			InvitationStatus: InvitationAccepted,
		},
	}, nil
}

func (c *Container) persistLocked(ctx context.Context, bucket string, value any) error {
	if err := c.repo.Save(ctx, bucket, value); err != nil {
		return fmt.Errorf("failed to persist %s: %w", bucket, err)
	}
	return nil
}

func (c *Container) persistCurrentLocked(ctx context.Context) error {
	if c.current == nil {
		if err := c.repo.Remove(ctx, persistence.BucketCurrentUser); err != nil {
			return fmt.Errorf("failed to clear current user: %w", err)
		}
		return nil
	}
	return c.persistLocked(ctx, persistence.BucketCurrentUser, c.current)
}

func (c *Container) timestamp() *time.Time {
	now := c.now()
	return &now
}

// Events returns a copy of every event in insertion order.
func (c *Container) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAll(c.events, cloneEvent)
}

// MaintenanceTasks returns a copy of every maintenance task in insertion order.
func (c *Container) MaintenanceTasks() []MaintenanceTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAll(c.maintenance, cloneMaintenanceTask)
}

// CleaningTasks returns a copy of every cleaning task in insertion order.
func (c *Container) CleaningTasks() []CleaningTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAll(c.cleaning, cloneCleaningTask)
}

// Users returns a copy of every user in insertion order.
func (c *Container) Users() []User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAll(c.users, cloneUser)
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	out := make([]T, 0, len(in))
	for _, item := range in {
		out = append(out, clone(item))
	}
	return out
}

func indexByID[T any](items []T, id string, key func(T) string) int {
	return slices.IndexFunc(items, func(item T) bool { return key(item) == id })
}
