package application

import (
	"context"
	"fmt"

	"github.com/example/campshare/internal/persistence"
)

// AddMaintenanceTask stores a new task with a generated id and creation time.
func (c *Container) AddMaintenanceTask(ctx context.Context, input MaintenanceTaskInput) (task MaintenanceTask, err error) {
	if c == nil {
		err = fmt.Errorf("Container is nil")
		return
	}

	logger := c.loggerWith(ctx, "AddMaintenanceTask", "priority", input.Priority)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "add maintenance task failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "maintenance task added", "task_id", task.ID)
	}()

	task = MaintenanceTask{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		AssignedTo:  input.AssignedTo,
		DueDate:     cloneTime(input.DueDate),
	}
	if err = validateMaintenanceTask(task); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	task.ID = c.idGenerator()
	task.CreatedAt = c.now()
	c.maintenance = append(c.maintenance, cloneMaintenanceTask(task))
	err = c.persistLocked(ctx, persistence.BucketMaintenance, c.maintenance)
	return
}

// UpdateMaintenanceTask replaces the task with the same id, keeping its original CreatedAt.
// Unknown ids are ignored.
func (c *Container) UpdateMaintenanceTask(ctx context.Context, task MaintenanceTask) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}
	if err := validateMaintenanceTask(task); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.maintenance, task.ID, func(t MaintenanceTask) string { return t.ID })
	if idx < 0 {
		return nil
	}
	task.CreatedAt = c.maintenance[idx].CreatedAt
	c.maintenance[idx] = cloneMaintenanceTask(task)
	return c.persistLocked(ctx, persistence.BucketMaintenance, c.maintenance)
}

// DeleteMaintenanceTask removes the task with the given id. Unknown ids are ignored.
func (c *Container) DeleteMaintenanceTask(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("Container is nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexByID(c.maintenance, id, func(t MaintenanceTask) string { return t.ID })
	if idx < 0 {
		return nil
	}
	c.maintenance = append(c.maintenance[:idx:idx], c.maintenance[idx+1:]...)
	return c.persistLocked(ctx, persistence.BucketMaintenance, c.maintenance)
}

func validateMaintenanceTask(task MaintenanceTask) error {
	vErr := &ValidationError{}
	switch task.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		vErr.add("priority", "priority must be low, medium or high")
	}
	switch task.Status {
	case TaskPending, TaskInProgress, TaskCompleted:
	default:
		vErr.add("status", "status must be pending, in-progress or completed")
	}
	return vErr.errOrNil()
}
