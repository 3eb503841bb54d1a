package application

import (
	"sort"
	"time"
)

// EventsOn returns events that fall on day. Multi-day events match every day of their span.
func (c *Container) EventsOn(day time.Time) []Event {
	return c.EventsBetween(day, day)
}

// EventsBetween returns events overlapping the inclusive day range [from, to], ordered by start date.
func (c *Container) EventsBetween(from, to time.Time) []Event {
	first := startOfDay(from)
	last := startOfDay(to.In(from.Location()))

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, 0)
	for _, event := range c.events {
		start := startOfDay(event.Date.In(from.Location()))
		end := start
		if event.EndDate != nil {
			end = startOfDay(event.EndDate.In(from.Location()))
		}
		if start.After(last) || end.Before(first) {
			continue
		}
		out = append(out, cloneEvent(event))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

var (
	priorityRank = map[Priority]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}
	statusRank   = map[TaskStatus]int{TaskPending: 0, TaskInProgress: 1, TaskCompleted: 2}
)

// FilterMaintenanceTasks returns tasks with the given status, or all tasks when status is empty,
// ordered by priority (high first) and then status (pending first).
func (c *Container) FilterMaintenanceTasks(status TaskStatus) []MaintenanceTask {
	c.mu.Lock()
	out := make([]MaintenanceTask, 0, len(c.maintenance))
	for _, task := range c.maintenance {
		if status == "" || task.Status == status {
			out = append(out, cloneMaintenanceTask(task))
		}
	}
	c.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if d := priorityRank[out[i].Priority] - priorityRank[out[j].Priority]; d != 0 {
			return d < 0
		}
		return statusRank[out[i].Status] < statusRank[out[j].Status]
	})
	return out
}

// FilterCleaningTasks returns tasks with the given status, or all tasks when status is empty.
func (c *Container) FilterCleaningTasks(status CleanStatus) []CleaningTask {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CleaningTask, 0, len(c.cleaning))
	for _, task := range c.cleaning {
		if status == "" || task.Status == status {
			out = append(out, cloneCleaningTask(task))
		}
	}
	return out
}

// PendingUsers returns users whose invitation is pending or sent.
func (c *Container) PendingUsers() []User {
	return c.usersWhere(func(u User) bool {
		return u.InvitationStatus == InvitationPending || u.InvitationStatus == InvitationSent
	})
}

// ActiveUsers returns users who accepted their invitation or were never invited.
func (c *Container) ActiveUsers() []User {
	return c.usersWhere(func(u User) bool {
		return u.InvitationStatus == InvitationAccepted || u.InvitationStatus == ""
	})
}

// UserName resolves a user id to a display name. Dangling references resolve to "Unknown".
func (c *Container) UserName(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := indexByID(c.users, id, func(u User) string { return u.ID }); idx >= 0 {
		return c.users[idx].Name
	}
	return unknownUserName
}

// User returns the user with the given id.
func (c *Container) User(id string) (User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.users, id, func(u User) string { return u.ID })
	if idx < 0 {
		return User{}, ErrNotFound
	}
	return cloneUser(c.users[idx]), nil
}

func (c *Container) usersWhere(keep func(User) bool) []User {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]User, 0)
	for _, u := range c.users {
		if keep(u) {
			out = append(out, cloneUser(u))
		}
	}
	return out
}
