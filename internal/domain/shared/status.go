package shared

import "strings"

// TransactionStatus is the approval state reported by the upstream ledger.
// It is used for filtering only and never affects balance arithmetic.
type TransactionStatus string

const (
	TransactionStatusPendingApproval TransactionStatus = "pending_approval"
	TransactionStatusApproved        TransactionStatus = "approved"
	TransactionStatusRejected        TransactionStatus = "rejected"
	TransactionStatusCompleted       TransactionStatus = "completed"
	TransactionStatusCancelled       TransactionStatus = "cancelled"
)

// NormalizeStatus lower-cases and trims an upstream status value
func NormalizeStatus(s string) TransactionStatus {
	return TransactionStatus(strings.ToLower(strings.TrimSpace(s)))
}

// FailureReason defines why a ledger event could not be synchronized
type FailureReason string

const (
	FailureReasonInvalidRecord  FailureReason = "INVALID_RECORD"
	FailureReasonWalletNotFound FailureReason = "WALLET_NOT_FOUND"
	FailureReasonUndecodable    FailureReason = "UNDECODABLE_EVENT"
	FailureReasonUnknownError   FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
