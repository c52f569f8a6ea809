package models

import "fmt"

// Center is a vaccination site with a bounded number of slots per day.
//
// Invariants:
//   - ID is non-blank and unique within the registry
//   - DailyCapacity is positive
type Center struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	DailyCapacity int    `json:"daily_capacity"`
}

// NewCenter validates the ID and capacity and returns the center.
func NewCenter(id, name, location string, capacity int) (*Center, error) {
	if err := ValidateCenterID(id); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateName(location); err != nil {
		return nil, err
	}
	if err := ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	return &Center{ID: id, Name: name, Location: location, DailyCapacity: capacity}, nil
}

func (c Center) String() string {
	return fmt.Sprintf("%s - %s (%s), Capacity: %d", c.ID, c.Name, c.Location, c.DailyCapacity)
}

// CenterDoses is one row of the doses-per-center report. CenterName is
// empty for appointments that reference a center the registry does not know.
type CenterDoses struct {
	CenterID   string `json:"center_id"`
	CenterName string `json:"center_name,omitempty"`
	Doses      int    `json:"doses"`
}
