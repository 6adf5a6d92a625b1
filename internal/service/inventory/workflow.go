package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
)

// Tasks returns every workflow task, oldest first.
func (s *Service) Tasks(ctx context.Context) ([]models.WorkflowTask, error) {
	var out []models.WorkflowTask

	if err := s.tasks.DB(ctx).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// VehicleTasks returns the workflow tasks of one vehicle.
func (s *Service) VehicleTasks(ctx context.Context, vehicleID string) ([]models.WorkflowTask, error) {
	if _, err := s.Load(ctx, vehicleID); err != nil {
		return nil, err
	}

	var out []models.WorkflowTask

	err := s.tasks.DB(ctx).Where("vehicle_id = ?", vehicleID).Order("created_at, id").Find(&out).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Task returns one workflow task.
func (s *Service) Task(ctx context.Context, id string) (*models.WorkflowTask, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if t == nil {
		return nil, service.NotFoundf("Workflow task with id '%s' not found", id)
	}

	return t, nil
}

// CreateTask starts a workflow of in.Type on a vehicle in state created.
// A reconditioning task puts the vehicle into reconditioning.
func (s *Service) CreateTask(ctx context.Context, in *TaskInput) (models.WorkflowTask, error) {
	if err := service.Validate(in); err != nil {
		return models.WorkflowTask{}, err
	}

	now := s.now().UTC()
	task := models.WorkflowTask{
		VehicleID:  in.VehicleID,
		Type:       in.Type,
		State:      models.WorkflowCreated,
		AssignedTo: in.AssignedTo,
		Notes:      in.Notes,
		History: []models.WorkflowHistoryEntry{{
			To: models.WorkflowCreated, Actor: service.Actor(ctx, ""), Notes: in.Notes, At: now,
		}},
	}

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		vehicles := s.vehicles.WithTx(tx)

		v, err := vehicles.GetByID(ctx, in.VehicleID)
		if err != nil {
			return err
		}

		if v == nil {
			return service.NotFoundf("Vehicle with id '%s' not found", in.VehicleID)
		}

		if _, err := s.tasks.WithTx(tx).Add(ctx, &task); err != nil {
			return err
		}

		if in.Type == models.WorkflowTypeReconditioning && v.Status != models.VehicleStatusRecon {
			v.Status = models.VehicleStatusRecon
			if _, err := vehicles.Update(ctx, v); err != nil {
				return err
			}
		}

		return nil
	})

	return task, err
}

// Transition moves a task to target. Allowed moves are
// created -> assigned -> approved|rejected -> completed. Every move is
// appended to the task history, and completing a reconditioning task puts
// the vehicle back in stock within the same transaction.
func (s *Service) Transition(ctx context.Context, id string, in *TransitionInput) (models.WorkflowTask, error) {
	if err := service.Validate(in); err != nil {
		return models.WorkflowTask{}, err
	}

	var out models.WorkflowTask

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if task == nil {
			return service.NotFoundf("Workflow task with id '%s' not found", id)
		}

		if !task.State.CanTransition(in.State) {
			return service.Conflictf("Workflow task cannot move from '%s' to '%s'", task.State, in.State)
		}

		task.History = append(task.History, models.WorkflowHistoryEntry{
			From:  task.State,
			To:    in.State,
			Actor: service.Actor(ctx, ""),
			Notes: in.Notes,
			At:    s.now().UTC(),
		})
		task.State = in.State

		if in.AssignedTo != "" {
			task.AssignedTo = in.AssignedTo
		}

		if _, err := tasks.Update(ctx, task); err != nil {
			return err
		}

		if task.State == models.WorkflowCompleted && task.Type == models.WorkflowTypeReconditioning {
			if err := s.setVehicleStatus(ctx, tx, task.VehicleID, models.VehicleStatusInStock); err != nil {
				return err
			}
		}

		out = *task

		return nil
	})

	return out, err
}

// DeleteTask removes a workflow task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}

	if !deleted {
		return service.NotFoundf("Workflow task with id '%s' not found", id)
	}

	return nil
}

func (s *Service) setVehicleStatus(ctx context.Context, tx *gorm.DB, vehicleID, status string) error {
	vehicles := s.vehicles.WithTx(tx)

	v, err := vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}

	if v == nil {
		return service.NotFoundf("Vehicle with id '%s' not found", vehicleID)
	}

	v.Status = status
	_, err = vehicles.Update(ctx, v)

	return err
}
