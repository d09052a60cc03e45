package lifecycle

import (
	"errors"
	"fmt"

	"atrips/src/types"
)

// Event is something that happens to a transaction.
type Event string

const (
	EventChooseManual Event = "choose_manual"
	EventWalletPaid   Event = "wallet_paid"
	EventSubmitProof  Event = "submit_proof"
	EventVerifyAccept Event = "verify_accept"
	EventVerifyReject Event = "verify_reject"
	EventMarkPaid     Event = "mark_paid"
	EventGatewayDeny  Event = "gateway_deny"
	EventRefund       Event = "refund"
	EventExpire       Event = "expire"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type transitionKey struct {
	from  types.TransactionStatus
	event Event
}

var transitions = map[transitionKey]types.TransactionStatus{
	{types.TRANSACTION_PENDING, EventChooseManual}:              types.TRANSACTION_WAITING_PROOF,
	{types.TRANSACTION_PENDING, EventWalletPaid}:                types.TRANSACTION_CONFIRMED,
	{types.TRANSACTION_PENDING, EventMarkPaid}:                  types.TRANSACTION_CONFIRMED,
	{types.TRANSACTION_PENDING, EventGatewayDeny}:               types.TRANSACTION_FAILED,
	{types.TRANSACTION_PENDING, EventExpire}:                    types.TRANSACTION_EXPIRED,
	{types.TRANSACTION_WAITING_PROOF, EventSubmitProof}:         types.TRANSACTION_VERIFICATION_PENDING,
	{types.TRANSACTION_WAITING_PROOF, EventExpire}:              types.TRANSACTION_EXPIRED,
	{types.TRANSACTION_VERIFICATION_PENDING, EventVerifyAccept}: types.TRANSACTION_CONFIRMED,
	{types.TRANSACTION_VERIFICATION_PENDING, EventVerifyReject}: types.TRANSACTION_CANCELLED,
	{types.TRANSACTION_CONFIRMED, EventRefund}:                  types.TRANSACTION_REFUNDED,
}

// Transition is the pure state machine of a transaction: given a current
// status and an event it returns the next status, or ErrInvalidTransition.
// Invalid transitions are workflow errors and must not be retried.
func Transition(from types.TransactionStatus, event Event) (types.TransactionStatus, error) {
	next, ok := transitions[transitionKey{from, event}]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
	}
	return next, nil
}
