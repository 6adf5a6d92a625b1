package models

import (
	"time"

	"gorm.io/datatypes"
)

// WorkflowState is the state of an inventory workflow task.
type WorkflowState string

// Workflow states, a task moves created -> assigned -> approved|rejected -> completed.
const (
	WorkflowCreated   WorkflowState = "created"
	WorkflowAssigned  WorkflowState = "assigned"
	WorkflowApproved  WorkflowState = "approved"
	WorkflowRejected  WorkflowState = "rejected"
	WorkflowCompleted WorkflowState = "completed"
)

// Workflow task types.
const (
	WorkflowTypeReconditioning = "Reconditioning"
	WorkflowTypeAcquisition    = "Acquisition"
	WorkflowTypeTransfer       = "Transfer"
)

var workflowTransitions = map[WorkflowState][]WorkflowState{ //nolint:gochecknoglobals
	WorkflowCreated:  {WorkflowAssigned},
	WorkflowAssigned: {WorkflowApproved, WorkflowRejected},
	WorkflowApproved: {WorkflowCompleted},
	WorkflowRejected: {WorkflowCompleted},
}

// Valid reports whether s is a known state.
func (s WorkflowState) Valid() bool {
	switch s {
	case WorkflowCreated, WorkflowAssigned, WorkflowApproved, WorkflowRejected, WorkflowCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a task in state s may move to target.
func (s WorkflowState) CanTransition(target WorkflowState) bool {
	for _, next := range workflowTransitions[s] {
		if next == target {
			return true
		}
	}

	return false
}

// WorkflowHistoryEntry records one state change.
type WorkflowHistoryEntry struct {
	From  WorkflowState `json:"from"`
	To    WorkflowState `json:"to"`
	Actor string        `json:"actor,omitempty"`
	Notes string        `json:"notes,omitempty"`
	At    time.Time     `json:"at"`
}

// WorkflowTask is an inventory workflow (reconditioning, acquisition, ...) of one vehicle.
type WorkflowTask struct {
	Base
	VehicleID  string                                     `gorm:"size:36;not null;index" json:"vehicleId"`
	Type       string                                     `gorm:"size:50;not null" json:"type"`
	State      WorkflowState                              `gorm:"size:20;not null;index" json:"state"`
	AssignedTo string                                     `gorm:"size:100" json:"assignedTo,omitempty"`
	Notes      string                                     `gorm:"size:2000" json:"notes,omitempty"`
	History    datatypes.JSONSlice[WorkflowHistoryEntry] `json:"history"`
}
