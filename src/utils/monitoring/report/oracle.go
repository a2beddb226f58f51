package report

import (
	"go.uber.org/atomic"
)

type OracleErrors struct {
	ResolveTimeout     atomic.Uint64 `json:"resolve_timeout"`
	EvaluatorError     atomic.Uint64 `json:"evaluator"`
	PersistenceError   atomic.Uint64 `json:"persistence"`
	AutoConfirmError   atomic.Uint64 `json:"auto_confirm"`
	ConfidenceTooLow   atomic.Uint64 `json:"confidence_too_low"`
	UnknownDeliverable atomic.Uint64 `json:"unknown_deliverable"`
}

type OracleState struct {
	VerificationsRun      atomic.Uint64 `json:"verifications_run"`
	VerificationsPassed   atomic.Uint64 `json:"verifications_passed"`
	VerificationsFailed   atomic.Uint64 `json:"verifications_failed"`
	PartiesAutoConfirmed  atomic.Uint64 `json:"parties_auto_confirmed"`
	ManualPathDeliverable atomic.Uint64 `json:"manual_path_deliverables"`
}

type OracleReport struct {
	State  OracleState  `json:"state"`
	Errors OracleErrors `json:"errors"`
}
