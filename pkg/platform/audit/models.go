package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryRegistry covers changes to registry records: citizens,
	// centers, appointments and dose completion.
	CategoryRegistry EventCategory = "registry"

	// CategoryOperations covers routine events useful for operational
	// visibility, such as capacity changes and reminder delivery.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// Subject is the primary record the action touched (citizen ID, center ID
	// or appointment ID).
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	// Attributes carries action-specific fields such as center_id or dose.
	Attributes map[string]string `json:"attributes,omitempty"`
}

type AuditEvent string

const (
	EventCitizenRegistered     AuditEvent = "citizen_registered"
	EventCenterAdded           AuditEvent = "center_added"
	EventCenterCapacityUpdated AuditEvent = "center_capacity_updated"
	EventAppointmentBooked     AuditEvent = "appointment_booked"
	EventDoseCompleted         AuditEvent = "dose_completed"
	EventReminderSent          AuditEvent = "reminder_sent"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCitizenRegistered: CategoryRegistry,
	EventCenterAdded:       CategoryRegistry,
	EventAppointmentBooked: CategoryRegistry,
	EventDoseCompleted:     CategoryRegistry,

	EventCenterCapacityUpdated: CategoryOperations,
	EventReminderSent:          CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

func (e AuditEvent) String() string { return string(e) }
