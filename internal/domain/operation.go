package domain

import (
	"fmt"
	"time"
)

// OperationKind names a ledger operation.
type OperationKind string

const (
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
	OperationTransfer OperationKind = "transfer"
)

// Stage is the progress of a single ledger operation.
type Stage string

const (
	StageInitiated    Stage = "INITIATED"
	StageValidated    Stage = "VALIDATED"
	StageAuthorized   Stage = "AUTHORIZED"
	StageFundsChecked Stage = "FUNDS_CHECKED"
	StageCommitted    Stage = "COMMITTED"
	StageNotified     Stage = "NOTIFIED"
)

// Deposits carry no PIN and no funds check, so they skip two stages.
var stageTransitions = map[OperationKind]map[Stage]Stage{
	OperationDeposit: {
		StageInitiated: StageValidated,
		StageValidated: StageCommitted,
		StageCommitted: StageNotified,
	},
	OperationWithdraw: {
		StageInitiated:    StageValidated,
		StageValidated:    StageAuthorized,
		StageAuthorized:   StageFundsChecked,
		StageFundsChecked: StageCommitted,
		StageCommitted:    StageNotified,
	},
	OperationTransfer: {
		StageInitiated:    StageValidated,
		StageValidated:    StageAuthorized,
		StageAuthorized:   StageFundsChecked,
		StageFundsChecked: StageCommitted,
		StageCommitted:    StageNotified,
	},
}

// Operation tracks one deposit, withdrawal or transfer through its stages.
// Any failure before StageCommitted leaves no persisted effect.
type Operation struct {
	StartedAt time.Time
	Kind      OperationKind
	Stage     Stage
}

// NewOperation starts an operation at StageInitiated.
func NewOperation(kind OperationKind, now time.Time) *Operation {
	return &Operation{Kind: kind, Stage: StageInitiated, StartedAt: now}
}

// Advance moves the operation to next, rejecting out-of-order stages.
func (o *Operation) Advance(next Stage) error {
	if stageTransitions[o.Kind][o.Stage] != next {
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidStageProgress, o.Kind, o.Stage, next)
	}

	o.Stage = next

	return nil
}
