package domain

import "time"

// Credential-flow actions recorded in the audit trail.
const (
	ActionRegister            = "register"
	ActionConfirmRegistration = "confirm_registration"
	ActionLogin               = "login"
	ActionConfirmLogin        = "confirm_login"
)

// Event outcomes. Codes and passwords never appear in an event.
const (
	OutcomeCodeIssued    = "code_issued"
	OutcomeConfirmed     = "confirmed"
	OutcomeRejected      = "rejected"
	OutcomeDeliveryError = "delivery_error"
	OutcomeError         = "error"
)

// Event is one audit record for a credential operation.
type Event struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}
