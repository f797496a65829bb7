package seaport

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrMissingCriteriaResolver       = errors.New("missing criteria resolver")
	ErrInsufficientBalanceOrApproval = errors.New("insufficient balance or approval")
)

// CriteriaCountError reports a mismatch between criteria items on one side of
// an order and the criteria supplied for them
type CriteriaCountError struct {
	Side      Side
	Items     int
	Resolvers int
}

func (e *CriteriaCountError) Error() string {
	return fmt.Sprintf(
		"missing criteria resolver: %d %s criteria items but %d criteria supplied",
		e.Items, e.Side, e.Resolvers,
	)
}

func (e *CriteriaCountError) Unwrap() error { return ErrMissingCriteriaResolver }

type Party string

const (
	PartyOfferer   Party = "offerer"
	PartyFulfiller Party = "fulfiller"
)

type ShortfallKind string

const (
	ShortfallBalance  ShortfallKind = "balance"
	ShortfallApproval ShortfallKind = "approval"
)

// Shortfall names one asset a party lacks the balance or approval for
type Shortfall struct {
	Party      Party
	Kind       ShortfallKind
	ItemType   ItemType
	Token      common.Address
	Identifier *big.Int
	Operator   common.Address
	Required   *big.Int
	Available  *big.Int
}

// Amount is how much is missing
func (s Shortfall) Amount() *big.Int {
	return new(big.Int).Sub(s.Required, s.Available)
}

func (s Shortfall) String() string {
	return fmt.Sprintf(
		"%s %s of token %s id %s: required %s, available %s (short %s)",
		s.Party, s.Kind, s.Token.Hex(), s.Identifier, s.Required, s.Available, s.Amount(),
	)
}

type InsufficientError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientError) Error() string {
	if len(e.Shortfalls) == 0 {
		return ErrInsufficientBalanceOrApproval.Error()
	}
	msg := fmt.Sprintf("insufficient %s", e.Shortfalls[0])
	if len(e.Shortfalls) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(e.Shortfalls)-1)
	}
	return msg
}

func (e *InsufficientError) Unwrap() error { return ErrInsufficientBalanceOrApproval }
