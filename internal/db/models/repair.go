package models

import "time"

// Repair order status values.
const (
	RepairOrderOpen       = "Open"
	RepairOrderInProgress = "InProgress"
	RepairOrderCompleted  = "Completed"
	RepairOrderClosed     = "Closed"
)

// Service job status values.
const (
	ServiceJobPending    = "Pending"
	ServiceJobInProgress = "InProgress"
	ServiceJobDone       = "Done"
)

// RepairOrder is a service department work order. Deleting it deletes its jobs.
type RepairOrder struct {
	Base
	Number      string       `gorm:"size:20;not null;uniqueIndex" json:"number"`
	CustomerID  string       `gorm:"size:36;not null;index" json:"customerId"`
	VehicleID   string       `gorm:"size:36;index" json:"vehicleId,omitempty"`
	VIN         string       `gorm:"column:vin;size:17" json:"vin,omitempty"`
	Status      string       `gorm:"size:20;not null;index" json:"status"`
	Description string       `gorm:"size:2000" json:"description"`
	Mileage     int          `json:"mileage"`
	PromisedAt  *time.Time   `json:"promisedAt,omitempty"`
	Jobs        []ServiceJob `gorm:"constraint:OnDelete:CASCADE" json:"jobs,omitempty"`
}

// Total sums the cost of all jobs.
func (r RepairOrder) Total() float64 {
	var total float64
	for _, j := range r.Jobs {
		total += j.Total()
	}

	return total
}

// ServiceJob is one line of work of a repair order.
type ServiceJob struct {
	Base
	RepairOrderID string  `gorm:"size:36;not null;index" json:"repairOrderId"`
	Description   string  `gorm:"size:500;not null" json:"description"`
	LaborHours    float64 `json:"laborHours"`
	LaborRate     float64 `json:"laborRate"`
	PartsCost     float64 `json:"partsCost"`
	TechnicianID  string  `gorm:"size:100" json:"technicianId,omitempty"`
	Status        string  `gorm:"size:20;not null" json:"status"`
}

// Total is labor plus parts.
func (j ServiceJob) Total() float64 {
	return j.LaborHours*j.LaborRate + j.PartsCost
}
