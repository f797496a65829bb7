package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/banky/go-nft-fill/constants"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrNotConfirmed is returned when no receipt shows up within the
	// confirmation budget
	ErrNotConfirmed = errors.New("transaction not confirmed")

	// ErrOnChainRevert is returned when the receipt reports a failed execution
	ErrOnChainRevert = errors.New("transaction reverted")
)

type NotConfirmedError struct {
	Hash     common.Hash
	Attempts int
	// Err is the last error returned by the receipt lookup, if any
	Err error
}

func (e *NotConfirmedError) Error() string {
	msg := fmt.Sprintf("transaction %s not confirmed after %d attempts", e.Hash.Hex(), e.Attempts)
	if e.Err != nil && !errors.Is(e.Err, ethereum.NotFound) {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *NotConfirmedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotConfirmed}
	}
	return []error{ErrNotConfirmed, e.Err}
}

type RevertError struct {
	Hash common.Hash
	// Reason is the decoded revert reason, empty when it could not be
	// recovered
	Reason  string
	Receipt *types.Receipt
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("transaction %s reverted", e.Hash.Hex())
	}
	return fmt.Sprintf("transaction %s reverted: %s", e.Hash.Hex(), e.Reason)
}

func (e *RevertError) Unwrap() error { return ErrOnChainRevert }

// Transaction is a sent transaction
type Transaction struct {
	Hash     common.Hash
	From     common.Address
	To       common.Address
	Data     []byte
	Value    *big.Int
	backend  Backend
	attempts int
	interval time.Duration
}

type TransactionOption func(*Transaction)

// WithConfirmationAttempts sets how many times the receipt is polled
func WithConfirmationAttempts(attempts int) TransactionOption {
	return func(t *Transaction) {
		if attempts > 0 {
			t.attempts = attempts
		}
	}
}

// WithConfirmationInterval sets the pause between receipt polls
func WithConfirmationInterval(interval time.Duration) TransactionOption {
	return func(t *Transaction) {
		t.interval = interval
	}
}

func NewTransaction(
	backend Backend,
	hash common.Hash,
	from common.Address,
	to common.Address,
	data []byte,
	value *big.Int,
	opts ...TransactionOption,
) *Transaction {
	tx := &Transaction{
		Hash:     hash,
		From:     from,
		To:       to,
		Data:     data,
		Value:    value,
		backend:  backend,
		attempts: constants.DEFAULT_CONFIRMATION_ATTEMPTS,
		interval: constants.DEFAULT_CONFIRMATION_INTERVAL,
	}
	for _, opt := range opts {
		opt(tx)
	}
	return tx
}

// Wait polls for the receipt within the confirmation budget. A missing
// receipt fails with NotConfirmedError, a failed execution with RevertError.
func (t *Transaction) Wait(ctx context.Context) (*types.Receipt, error) {
	var lastErr error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		receipt, err := t.backend.TransactionReceipt(ctx, t.Hash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, &RevertError{
					Hash:    t.Hash,
					Reason:  t.revertReason(ctx, receipt),
					Receipt: receipt,
				}
			}
			return receipt, nil
		}
		lastErr = err
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt == t.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.interval):
		}
	}

	return nil, &NotConfirmedError{Hash: t.Hash, Attempts: t.attempts, Err: lastErr}
}

// revertReason replays the call at the receipt block and decodes the
// revert data
func (t *Transaction) revertReason(ctx context.Context, receipt *types.Receipt) string {
	to := t.To
	_, err := t.backend.CallContract(ctx, ethereum.CallMsg{
		From:  t.From,
		To:    &to,
		Data:  t.Data,
		Value: t.Value,
		Gas:   receipt.GasUsed,
	}, receipt.BlockNumber)
	if err == nil {
		return ""
	}
	return RevertReason(err)
}

// RevertReason extracts the Error(string) reason from a call error. The raw
// error message is returned when the revert data cannot be decoded.
func RevertReason(err error) string {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(hexData); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return reason
				}
			}
		}
	}
	return err.Error()
}
