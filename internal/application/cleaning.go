package application

import (
	"context"
	"fmt"

	"github.com/example/campshare/internal/persistence"
)

// AddCleaningTask stores a new cleaning area with a generated id.
func (c *Container) AddCleaningTask(ctx context.Context, input CleaningTaskInput) (task CleaningTask, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	task = CleaningTask{
		Area:        input.Area,
		Description: input.Description,
		Status:      input.Status,
		AssignedTo:  input.AssignedTo,
		LastCleaned: cloneTime(input.LastCleaned),
	}
	if err = validateCleaningStatus(task.Status); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	task.ID = c.idGenerator()
	c.cleaning = append(c.cleaning, cloneCleaningTask(task))
	err = c.persistLocked(ctx, persistence.BucketCleaning, c.cleaning)
	return
}

// UpdateCleaningTask replaces the task with the same id. Unknown ids are ignored.
func (c *Container) UpdateCleaningTask(ctx context.Context, task CleaningTask) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}
	if err := validateCleaningStatus(task.Status); err != nil {
		return err
	}

	return c.mutateCleaningTask(ctx, task.ID, func(existing *CleaningTask) {
		*existing = cloneCleaningTask(task)
	})
}

// DeleteCleaningTask removes the task with the given id. Unknown ids are ignored.
func (c *Container) DeleteCleaningTask(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.cleaning, id, func(t CleaningTask) string { return t.ID })
	if idx < 0 {
		return nil
	}
	c.cleaning = append(c.cleaning[:idx:idx], c.cleaning[idx+1:]...)
	return c.persistLocked(ctx, persistence.BucketCleaning, c.cleaning)
}

// ToggleCleanStatus flips clean and unclean. LastCleaned is stamped only when the task becomes clean.
func (c *Container) ToggleCleanStatus(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	return c.mutateCleaningTask(ctx, id, func(task *CleaningTask) {
		if task.Status == StatusClean {
			task.Status = StatusUnclean
			return
		}
		task.Status = StatusClean
		task.LastCleaned = c.timestamp()
	})
}

// AssignCleaningTask sets the assignee of a cleaning task. The user id is not checked.
func (c *Container) AssignCleaningTask(ctx context.Context, id, userID string) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	return c.mutateCleaningTask(ctx, id, func(task *CleaningTask) {
		task.AssignedTo = userID
	})
}

func (c *Container) mutateCleaningTask(ctx context.Context, id string, mutate func(*CleaningTask)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.cleaning, id, func(t CleaningTask) string { return t.ID })
	if idx < 0 {
		return nil
	}
	mutate(&c.cleaning[idx])
	return c.persistLocked(ctx, persistence.BucketCleaning, c.cleaning)
}

func validateCleaningStatus(status CleanStatus) error {
	if status == StatusClean || status == StatusUnclean {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("status", "status must be clean or unclean")
	return vErr
}
