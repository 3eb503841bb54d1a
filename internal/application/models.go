package application

import (
	"slices"
	"time"
)

// Permission is a capability tag governing which areas a user may access.
type Permission string

const (
	PermissionAdmin       Permission = "admin"
	PermissionMaintenance Permission = "maintenance"
	PermissionCleaning    Permission = "cleaning"
	PermissionCalendar    Permission = "calendar"
	PermissionReadOnly    Permission = "read-only"
)

// Valid reports whether p is a known permission.
func (p Permission) Valid() bool {
	switch p {
	case PermissionAdmin, PermissionMaintenance, PermissionCleaning, PermissionCalendar, PermissionReadOnly:
		return true
	}
	return false
}

// EventCategory classifies calendar events.
type EventCategory string

const (
	CategoryRetreat      EventCategory = "retreat"
	CategoryCamp         EventCategory = "camp"
	CategoryAppointment  EventCategory = "appointment"
	CategoryDayOff       EventCategory = "day-off"
	CategorySpecialEvent EventCategory = "special-event"
	CategoryOther        EventCategory = "other"
)

// Valid reports whether c is empty or a known category.
func (c EventCategory) Valid() bool {
	switch c {
	case "", CategoryRetreat, CategoryCamp, CategoryAppointment, CategoryDayOff, CategorySpecialEvent, CategoryOther:
		return true
	}
	return false
}

// Priority ranks maintenance tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// TaskStatus tracks maintenance progress.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// CleanStatus is the state of a cleaning area.
type CleanStatus string

const (
	StatusClean   CleanStatus = "clean"
	StatusUnclean CleanStatus = "unclean"
)

// InvitationStatus is the onboarding stage of a user.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationSent     InvitationStatus = "sent"
	InvitationAccepted InvitationStatus = "accepted"
	// InvitationExpired is reserved; nothing computes it.
	InvitationExpired InvitationStatus = "expired"
)

// Event is a calendar entry. Multi-day events carry an EndDate.
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Date        time.Time     `json:"date"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	StartTime   string        `json:"startTime,omitempty"`
	EndTime     string        `json:"endTime,omitempty"`
	Description string        `json:"description,omitempty"`
	CreatedBy   string        `json:"createdBy"`
	Category    EventCategory `json:"category,omitempty"`
	Color       string        `json:"color,omitempty"`
}

// EventInput carries the fields of a new event.
type EventInput struct {
	Title       string
	Date        time.Time
	EndDate     *time.Time
	StartTime   string
	EndTime     string
	Description string
	CreatedBy   string
	Category    EventCategory
	Color       string
}

// MaintenanceTask is a repair or upkeep job.
type MaintenanceTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// MaintenanceTaskInput carries the fields of a new maintenance task.
type MaintenanceTaskInput struct {
	Title       string
	Description string
	Priority    Priority
	Status      TaskStatus
	AssignedTo  string
	DueDate     *time.Time
}

// CleaningTask is an area that needs periodic cleaning.
type CleaningTask struct {
	ID          string      `json:"id"`
	Area        string      `json:"area"`
	Description string      `json:"description,omitempty"`
	Status      CleanStatus `json:"status"`
	AssignedTo  string      `json:"assignedTo,omitempty"`
	LastCleaned *time.Time  `json:"lastCleaned,omitempty"`
}

// CleaningTaskInput carries the fields of a new cleaning task.
type CleaningTaskInput struct {
	Area        string
	Description string
	Status      CleanStatus
	AssignedTo  string
	LastCleaned *time.Time
}

// User is an account holder. Passwords are stored as produced by the configured Credentials policy.
type User struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Permissions      []Permission     `json:"permissions"`
	PhoneNumber      string           `json:"phoneNumber,omitempty"`
	Email            string           `json:"email,omitempty"`
	InvitationStatus InvitationStatus `json:"invitationStatus,omitempty"`
	InvitationSentAt *time.Time       `json:"invitationSentAt,omitempty"`
	LastLogin        *time.Time       `json:"lastLogin,omitempty"`
	ProfileCompleted bool             `json:"profileCompleted"`
	TempPassword     string           `json:"tempPassword,omitempty"`
	Password         string           `json:"password,omitempty"`
	PasswordSetAt    *time.Time       `json:"passwordSetAt,omitempty"`
}

// HasPermission reports whether the user holds p. Administrators hold every permission.
func (u User) HasPermission(p Permission) bool {
	return slices.Contains(u.Permissions, p) || slices.Contains(u.Permissions, PermissionAdmin)
}

// UserInput carries the fields of a user created directly by an administrator.
type UserInput struct {
	Name             string
	Permissions      []Permission
	PhoneNumber      string
	Email            string
	InvitationStatus InvitationStatus
	Password         string
}

// UserPatch lists profile fields to merge. Nil fields are left unchanged.
type UserPatch struct {
	Name             *string
	PhoneNumber      *string
	Email            *string
	InvitationStatus *InvitationStatus
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User User
	// MustSetPassword is true when the temporary password was used.
	MustSetPassword bool
}

// InvitationResult describes the outcome of an invitation send.
type InvitationResult struct {
	User      User
	Delivered bool
	// Detail carries the provider error when delivery failed.
	Detail string
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneEvent(e Event) Event {
	e.EndDate = cloneTime(e.EndDate)
	return e
}

func cloneMaintenanceTask(t MaintenanceTask) MaintenanceTask {
	t.DueDate = cloneTime(t.DueDate)
	return t
}

func cloneCleaningTask(t CleaningTask) CleaningTask {
	t.LastCleaned = cloneTime(t.LastCleaned)
	return t
}

func cloneUser(u User) User {
	u.Permissions = slices.Clone(u.Permissions)
	u.InvitationSentAt = cloneTime(u.InvitationSentAt)
	u.LastLogin = cloneTime(u.LastLogin)
	u.PasswordSetAt = cloneTime(u.PasswordSetAt)
	return u
}
