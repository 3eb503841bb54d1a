package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/campshare/internal/persistence"
)

// AddEvent stores a new event with a generated id.
func (c *Container) AddEvent(ctx context.Context, input EventInput) (event Event, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	logger := c.loggerWith(ctx, "AddEvent", "created_by", input.CreatedBy)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "add event failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event added", "event_id", event.ID)
	}()

	event = Event{
		Title:       input.Title,
		Date:        input.Date,
		EndDate:     cloneTime(input.EndDate),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
		Category:    input.Category,
		Color:       input.Color,
	}
	if err = validateEvent(event); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	event.ID = c.idGenerator()
	c.events = append(c.events, cloneEvent(event))
	err = c.persistLocked(ctx, persistence.BucketEvents, c.events)
	return
}

// UpdateEvent replaces the event with the same id. Unknown ids are ignored.
func (c *Container) UpdateEvent(ctx context.Context, event Event) (err error) {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	logger := c.loggerWith(ctx, "UpdateEvent", "event_id", event.ID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "update event failed", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if err = validateEvent(event); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.events, event.ID, func(e Event) string { return e.ID })
	if idx < 0 {
		logger.DebugContext(ctx, "event not found, nothing to update")
		return nil
	}
	c.events[idx] = cloneEvent(event)
	return c.persistLocked(ctx, persistence.BucketEvents, c.events)
}

// DeleteEvent removes the event with the given id. Unknown ids are ignored.
func (c *Container) DeleteEvent(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.events, id, func(e Event) string { return e.ID })
	if idx < 0 {
		return nil
	}
	c.events = append(c.events[:idx:idx], c.events[idx+1:]...)
	if err := c.persistLocked(ctx, persistence.BucketEvents, c.events); err != nil {
		return err
	}
	c.loggerWith(ctx, "DeleteEvent", "event_id", id).InfoContext(ctx, "event deleted")
	return nil
}

func validateEvent(event Event) error {
	vErr := &ValidationError{}
	vErr.merge(eventSpanErrors(event))
	if !event.Category.Valid() {
		vErr.add("category", "unknown category")
	}
	return vErr.errOrNil()
}

func eventSpanErrors(event Event) *ValidationError {
	vErr := &ValidationError{}
	if event.Date.IsZero() {
		vErr.add("date", "start date is required")
	}
	if event.EndDate != nil && startOfDay(*event.EndDate).Before(startOfDay(event.Date)) {
		vErr.add("endDate", "end date must not be before the start date")
	}
	return vErr
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
