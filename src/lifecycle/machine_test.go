package lifecycle

import (
	"testing"

	"atrips/src/types"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from  types.TransactionStatus
		event Event
		want  types.TransactionStatus
	}{
		{types.TRANSACTION_PENDING, EventChooseManual, types.TRANSACTION_WAITING_PROOF},
		{types.TRANSACTION_PENDING, EventWalletPaid, types.TRANSACTION_CONFIRMED},
		{types.TRANSACTION_PENDING, EventMarkPaid, types.TRANSACTION_CONFIRMED},
		{types.TRANSACTION_PENDING, EventGatewayDeny, types.TRANSACTION_FAILED},
		{types.TRANSACTION_PENDING, EventExpire, types.TRANSACTION_EXPIRED},
		{types.TRANSACTION_WAITING_PROOF, EventSubmitProof, types.TRANSACTION_VERIFICATION_PENDING},
		{types.TRANSACTION_WAITING_PROOF, EventExpire, types.TRANSACTION_EXPIRED},
		{types.TRANSACTION_VERIFICATION_PENDING, EventVerifyAccept, types.TRANSACTION_CONFIRMED},
		{types.TRANSACTION_VERIFICATION_PENDING, EventVerifyReject, types.TRANSACTION_CANCELLED},
		{types.TRANSACTION_CONFIRMED, EventRefund, types.TRANSACTION_REFUNDED},
	}
	for _, c := range cases {
		got, err := Transition(c.from, c.event)
		assert.NoErrorf(t, err, "%s on %s", c.event, c.from)
		assert.Equalf(t, c.want, got, "%s on %s", c.event, c.from)
	}
}

func TestTransitionRejectsInvalidMoves(t *testing.T) {
	cases := []struct {
		from  types.TransactionStatus
		event Event
	}{
		// Refunds only apply to confirmed transactions, and never twice.
		{types.TRANSACTION_REFUNDED, EventRefund},
		{types.TRANSACTION_PENDING, EventRefund},
		{types.TRANSACTION_CANCELLED, EventRefund},
		// A proof can only follow the manual transfer choice.
		{types.TRANSACTION_PENDING, EventSubmitProof},
		{types.TRANSACTION_CONFIRMED, EventSubmitProof},
		// Terminal states accept nothing.
		{types.TRANSACTION_EXPIRED, EventWalletPaid},
		{types.TRANSACTION_FAILED, EventMarkPaid},
		{types.TRANSACTION_CONFIRMED, EventWalletPaid},
		// Verification decisions need a submitted proof first.
		{types.TRANSACTION_WAITING_PROOF, EventVerifyAccept},
	}
	for _, c := range cases {
		got, err := Transition(c.from, c.event)
		assert.ErrorIsf(t, err, ErrInvalidTransition, "%s on %s", c.event, c.from)
		assert.Equalf(t, c.from, got, "status must not move on %s from %s", c.event, c.from)
	}
}
