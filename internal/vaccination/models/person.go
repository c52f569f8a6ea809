package models

import "fmt"

// Person holds the display fields shared by citizens and staff.
type Person struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Phone string `json:"phone"`
}

func (p Person) String() string {
	return fmt.Sprintf("%s (%d), Phone: %s", p.Name, p.Age, p.Phone)
}

// Citizen is a registered vaccine recipient keyed by national ID.
//
// Invariants:
//   - ID is exactly 12 digits and unique within the registry
//   - Age is at least MinimumAge
//   - Phone is exactly 10 digits
//   - Dose flags only move from false to true
type Citizen struct {
	Person
	ID             string `json:"id"`
	Dose1Completed bool   `json:"dose1_completed"`
	Dose2Completed bool   `json:"dose2_completed"`
}

// NewCitizen validates age, phone and ID in that order (first failure wins)
// and returns a citizen with both dose flags false.
func NewCitizen(name string, age int, phone, id string) (*Citizen, error) {
	if err := ValidateAge(age); err != nil {
		return nil, err
	}
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Citizen{
		Person: Person{Name: name, Age: age, Phone: phone},
		ID:     id,
	}, nil
}

// DoseCompleted reports the completion flag for kind.
func (c *Citizen) DoseCompleted(kind DoseKind) bool {
	if kind == DoseSecond {
		return c.Dose2Completed
	}
	return c.Dose1Completed
}

// MarkDose sets the completion flag for kind and reports whether it changed.
// Marking an already-completed dose is a no-op.
func (c *Citizen) MarkDose(kind DoseKind) bool {
	if c.DoseCompleted(kind) {
		return false
	}
	if kind == DoseSecond {
		c.Dose2Completed = true
	} else {
		c.Dose1Completed = true
	}
	return true
}

func (c Citizen) String() string {
	return fmt.Sprintf("Citizen: %s, ID: %s, Dose1: %s, Dose2: %s",
		c.Person.String(), c.ID, yesNo(c.Dose1Completed), yesNo(c.Dose2Completed))
}

// Staff is a center employee. It is only ever displayed; no registry
// operation accepts it in place of a Citizen.
type Staff struct {
	Person
	StaffID string `json:"staff_id"`
	Role    string `json:"role"`
}

func (s Staff) String() string {
	return fmt.Sprintf("Staff: %s, ID: %s, Role: %s", s.Person.String(), s.StaffID, s.Role)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
