package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/campshare/internal/application"
)

var (
	eventCounter       uint64
	maintenanceCounter uint64
	cleaningCounter    uint64
	userCounter        uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Day returns midnight UTC of the given calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ----------------------------- Event fixtures -----------------------------

type EventOption func(*application.EventInput)

// NewEventInput returns a single-day camp event on the reference day.
func NewEventInput(opts ...EventOption) application.EventInput {
	idx := atomic.AddUint64(&eventCounter, 1)
	input := application.EventInput{
		Title:     fmt.Sprintf("Event %03d", idx),
		Date:      Day(2024, time.January, 2),
		StartTime: "09:00",
		EndTime:   "17:00",
		CreatedBy: "admin-user-id",
		Category:  application.CategoryCamp,
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

func WithEventTitle(title string) EventOption {
	return func(in *application.EventInput) {
		in.Title = title
	}
}

func WithEventDate(date time.Time) EventOption {
	return func(in *application.EventInput) {
		in.Date = date
	}
}

// WithEventSpan makes the event cover every day from start to end inclusive.
func WithEventSpan(start, end time.Time) EventOption {
	return func(in *application.EventInput) {
		in.Date = start
		in.EndDate = &end
	}
}

func WithEventCategory(category application.EventCategory) EventOption {
	return func(in *application.EventInput) {
		in.Category = category
	}
}

func WithEventCreator(userID string) EventOption {
	return func(in *application.EventInput) {
		in.CreatedBy = userID
	}
}

// -------------------------- Maintenance fixtures --------------------------

type MaintenanceOption func(*application.MaintenanceTaskInput)

// NewMaintenanceInput returns a pending medium priority task.
func NewMaintenanceInput(opts ...MaintenanceOption) application.MaintenanceTaskInput {
	idx := atomic.AddUint64(&maintenanceCounter, 1)
	input := application.MaintenanceTaskInput{
		Title:    fmt.Sprintf("Repair %03d", idx),
		Priority: application.PriorityMedium,
		Status:   application.TaskPending,
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

func WithPriority(priority application.Priority) MaintenanceOption {
	return func(in *application.MaintenanceTaskInput) {
		in.Priority = priority
	}
}

func WithTaskStatus(status application.TaskStatus) MaintenanceOption {
	return func(in *application.MaintenanceTaskInput) {
		in.Status = status
	}
}

func WithTaskAssignee(userID string) MaintenanceOption {
	return func(in *application.MaintenanceTaskInput) {
		in.AssignedTo = userID
	}
}

func WithDueDate(due time.Time) MaintenanceOption {
	return func(in *application.MaintenanceTaskInput) {
		in.DueDate = &due
	}
}

// ---------------------------- Cleaning fixtures ----------------------------

type CleaningOption func(*application.CleaningTaskInput)

// NewCleaningInput returns an unclean, unassigned area.
func NewCleaningInput(opts ...CleaningOption) application.CleaningTaskInput {
	idx := atomic.AddUint64(&cleaningCounter, 1)
	input := application.CleaningTaskInput{
		Area:   fmt.Sprintf("Cabin %03d", idx),
		Status: application.StatusUnclean,
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

func WithArea(area string) CleaningOption {
	return func(in *application.CleaningTaskInput) {
		in.Area = area
	}
}

func WithCleanStatus(status application.CleanStatus) CleaningOption {
	return func(in *application.CleaningTaskInput) {
		in.Status = status
	}
}

func WithCleaningAssignee(userID string) CleaningOption {
	return func(in *application.CleaningTaskInput) {
		in.AssignedTo = userID
	}
}

// ------------------------------ User fixtures ------------------------------

type UserOption func(*application.UserInput)

// NewUserInput returns a read-only staff member with a unique ten digit phone number.
func NewUserInput(opts ...UserOption) application.UserInput {
	idx := atomic.AddUint64(&userCounter, 1)
	input := application.UserInput{
		Name:        fmt.Sprintf("Staff %03d", idx),
		PhoneNumber: fmt.Sprintf("555%07d", idx),
		Permissions: []application.Permission{application.PermissionReadOnly},
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

func WithUserName(name string) UserOption {
	return func(in *application.UserInput) {
		in.Name = name
	}
}

func WithPhoneNumber(phone string) UserOption {
	return func(in *application.UserInput) {
		in.PhoneNumber = phone
	}
}

func WithPermissions(perms ...application.Permission) UserOption {
	return func(in *application.UserInput) {
		in.Permissions = perms
	}
}

func WithPassword(password string) UserOption {
	return func(in *application.UserInput) {
		in.Password = password
		in.InvitationStatus = application.InvitationAccepted
	}
}
