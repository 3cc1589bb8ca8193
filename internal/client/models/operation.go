package models

// OperationKind names the mutation an Operation journals.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// OperationState is the lifecycle of a journaled mutation:
// pending -> confirmed | failed.
type OperationState string

const (
	OperationPending   OperationState = "pending"
	OperationConfirmed OperationState = "confirmed"
	OperationFailed    OperationState = "failed"
)

// Operation is one submitted mutation and its outcome.
type Operation struct {
	ID       string
	Kind     OperationKind
	RecordID int64
	State    OperationState
	Error    string
	// CreatedAt and UpdatedAt are unix milliseconds.
	CreatedAt int64
	UpdatedAt int64
}

// Done reports whether the operation left the pending state.
func (o Operation) Done() bool {
	return o.State == OperationConfirmed || o.State == OperationFailed
}
