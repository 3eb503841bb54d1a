package application

import (
	"context"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func eventTitles(events []Event) []string {
	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	return titles
}

func TestContainer_EventsOn(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)

	end := day(2024, 7, 5)
	mustAddEvent(t, h, EventInput{Title: "Summer camp", Date: day(2024, 7, 1).Add(9 * time.Hour), EndDate: &end, Category: CategoryCamp})
	mustAddEvent(t, h, EventInput{Title: "Dentist", Date: day(2024, 7, 3).Add(14 * time.Hour), Category: CategoryAppointment})
	mustAddEvent(t, h, EventInput{Title: "Day off", Date: day(2024, 7, 8), Category: CategoryDayOff})

	tests := []struct {
		day  time.Time
		want []string
	}{
		{day: day(2024, 6, 30), want: []string{}},
		{day: day(2024, 7, 1), want: []string{"Summer camp"}},
		{day: day(2024, 7, 3).Add(20 * time.Hour), want: []string{"Summer camp", "Dentist"}},
		{day: day(2024, 7, 5), want: []string{"Summer camp"}},
		{day: day(2024, 7, 6), want: []string{}},
		{day: day(2024, 7, 8), want: []string{"Day off"}},
	}

	for _, tc := range tests {
		got := eventTitles(h.container.EventsOn(tc.day))
		if len(got) != len(tc.want) {
			t.Fatalf("EventsOn(%s) = %v, want %v", tc.day.Format(time.DateOnly), got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("EventsOn(%s) = %v, want %v", tc.day.Format(time.DateOnly), got, tc.want)
			}
		}
	}

	month := eventTitles(h.container.EventsBetween(day(2024, 7, 1), day(2024, 7, 31)))
	if len(month) != 3 || month[0] != "Summer camp" || month[2] != "Day off" {
		t.Fatalf("unexpected month view %v", month)
	}
}

func mustAddEvent(t *testing.T, h harness, input EventInput) Event {
	t.Helper()
	event, err := h.container.AddEvent(context.Background(), input)
	if err != nil {
		t.Fatalf("AddEvent returned error: %v", err)
	}
	return event
}

func TestContainer_FilterMaintenanceTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, nil)

	inputs := []MaintenanceTaskInput{
		{Title: "low-pending", Priority: PriorityLow, Status: TaskPending},
		{Title: "high-completed", Priority: PriorityHigh, Status: TaskCompleted},
		{Title: "medium-progress", Priority: PriorityMedium, Status: TaskInProgress},
		{Title: "high-pending", Priority: PriorityHigh, Status: TaskPending},
		{Title: "high-pending-2", Priority: PriorityHigh, Status: TaskPending},
	}
	for _, in := range inputs {
		if _, err := h.container.AddMaintenanceTask(ctx, in); err != nil {
			t.Fatalf("AddMaintenanceTask returned error: %v", err)
		}
	}

	var got []string
	for _, task := range h.container.FilterMaintenanceTasks("") {
		got = append(got, task.Title)
	}
	want := []string{"high-pending", "high-pending-2", "high-completed", "medium-progress", "low-pending"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", got, want)
		}
	}

	pending := h.container.FilterMaintenanceTasks(TaskPending)
	if len(pending) != 3 || pending[2].Title != "low-pending" {
		t.Fatalf("unexpected pending filter %#v", pending)
	}
}

func TestContainer_FilterCleaningTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, nil)
	for _, in := range []CleaningTaskInput{
		{Area: "Kitchen", Status: StatusUnclean},
		{Area: "Lodge", Status: StatusClean},
		{Area: "Cabins", Status: StatusUnclean},
	} {
		if _, err := h.container.AddCleaningTask(ctx, in); err != nil {
			t.Fatalf("AddCleaningTask returned error: %v", err)
		}
	}

	unclean := h.container.FilterCleaningTasks(StatusUnclean)
	if len(unclean) != 2 || unclean[0].Area != "Kitchen" || unclean[1].Area != "Cabins" {
		t.Fatalf("unexpected unclean filter %#v", unclean)
	}
	if all := h.container.FilterCleaningTasks(""); len(all) != 3 {
		t.Fatalf("expected all tasks without filter, got %d", len(all))
	}
}

func TestContainer_UserQueries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, nil)

	if _, err := h.container.AddUser(ctx, UserInput{Name: "Walk-in volunteer"}); err != nil {
		t.Fatalf("AddUser returned error: %v", err)
	}
	if _, err := h.container.InviteUserBySMS(ctx, "555-000-1111", "Counselor", nil); err != nil {
		t.Fatalf("InviteUserBySMS returned error: %v", err)
	}

	pending := h.container.PendingUsers()
	if len(pending) != 2 {
		t.Fatalf("expected pending and sent users, got %#v", pending)
	}
	active := h.container.ActiveUsers()
	if len(active) != 2 || active[0].ID != "admin-user-id" {
		t.Fatalf("expected accepted seed users to be active, got %#v", active)
	}

	if name := h.container.UserName("admin-user-id"); name != "Admin User" {
		t.Fatalf("unexpected name %q", name)
	}
	if _, err := h.container.User("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUser_HasPermission(t *testing.T) {
	t.Parallel()

	admin := User{Permissions: []Permission{PermissionAdmin}}
	cleaner := User{Permissions: []Permission{PermissionCleaning, PermissionReadOnly}}

	for _, p := range []Permission{PermissionCalendar, PermissionMaintenance, PermissionCleaning} {
		if !admin.HasPermission(p) {
			t.Fatalf("expected admin to hold %s", p)
		}
	}
	if !cleaner.HasPermission(PermissionCleaning) || cleaner.HasPermission(PermissionCalendar) {
		t.Fatalf("unexpected permissions for cleaner")
	}
}
