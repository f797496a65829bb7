package fill

import (
	"context"
	"fmt"
	"math/big"

	"github.com/banky/go-nft-fill/chain"
	"github.com/banky/go-nft-fill/order"
	"github.com/banky/go-nft-fill/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

type ActionState string

const (
	NeedsApproval      ActionState = "NEEDS_APPROVAL"
	AwaitingApprovalTx ActionState = "AWAITING_APPROVAL_TX"
	ReadyToSend        ActionState = "READY_TO_SEND"
	Submitted          ActionState = "SUBMITTED"
)

type Stage string

const (
	StageApprove Stage = "approve"
	StageSendTx  Stage = "send-tx"
)

// maxApprovalRounds bounds how often approvals are recomputed, an opensea
// sale registers its proxy in one round and approves it in the next
const maxApprovalRounds = 3

// Action is a fill in progress. Approve runs the approval stage, which is
// skipped when nothing needs approving, and Send submits the fill. An Action
// is not safe for concurrent use.
type Action struct {
	id      uuid.UUID
	filler  *Filler
	fc      *fillContext
	handler handler
	state   ActionState

	approvals   []Approval
	approvalTxs []common.Hash
	// pending approval transactions not yet confirmed
	pending []common.Hash
	fillTx  mo.Option[common.Hash]

	logger *zap.Logger
}

func (f *Filler) newAction(ctx context.Context, req order.FillRequest) (*Action, error) {
	fc, h, err := f.prepare(ctx, req, false)
	if err != nil {
		return nil, err
	}

	a := &Action{
		id:      uuid.New(),
		filler:  f,
		fc:      fc,
		handler: h,
	}
	a.logger = f.logger.With(
		zap.String("action", a.id.String()),
		zap.String("protocol", string(req.Order.Protocol)),
	)
	if err := a.refreshApprovals(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Action) ID() uuid.UUID { return a.id }

func (a *Action) State() ActionState { return a.state }

// Approvals returns the approvals still missing
func (a *Action) Approvals() []Approval {
	return append([]Approval{}, a.approvals...)
}

// Stages lists the stages left to run
func (a *Action) Stages() []Stage {
	switch a.state {
	case NeedsApproval, AwaitingApprovalTx:
		return []Stage{StageApprove, StageSendTx}
	case ReadyToSend:
		return []Stage{StageSendTx}
	default:
		return nil
	}
}

func (a *Action) refreshApprovals(ctx context.Context) error {
	approvals, err := a.handler.approvals(ctx, a.filler, a.fc)
	if err != nil {
		return err
	}
	a.approvals = dedupeApprovals(approvals)
	if len(a.approvals) == 0 {
		a.state = ReadyToSend
	} else {
		a.state = NeedsApproval
	}
	return nil
}

func (a *Action) transactionOptions() []chain.TransactionOption {
	cfg := a.filler.config
	return []chain.TransactionOption{
		chain.WithConfirmationAttempts(cfg.ConfirmationAttempts),
		chain.WithConfirmationInterval(cfg.ConfirmationInterval),
	}
}

func (a *Action) wait(ctx context.Context, hash common.Hash, call FunctionCall, value *big.Int) error {
	tx := chain.NewTransaction(a.filler.backend, hash, a.fc.taker, call.Contract, call.Data, value, a.transactionOptions()...)
	if _, err := tx.Wait(ctx); err != nil {
		a.logger.With(zap.String("tx", hash.Hex()), zap.Error(err)).Error("Approval not confirmed")
		return err
	}
	return nil
}

// Approve sends every missing approval and waits for it to confirm. It
// returns the confirmed approval transactions, none when nothing was
// missing.
func (a *Action) Approve(ctx context.Context) ([]common.Hash, error) {
	if a.state == Submitted {
		return nil, fmt.Errorf("%w: %s after the fill was submitted", ErrStageOrder, StageApprove)
	}

	var confirmed []common.Hash
	for len(a.pending) > 0 {
		hash := a.pending[0]
		if err := a.wait(ctx, hash, FunctionCall{}, nil); err != nil {
			return confirmed, err
		}
		a.pending = a.pending[1:]
		confirmed = append(confirmed, hash)
	}
	if a.state == AwaitingApprovalTx {
		if err := a.refreshApprovals(ctx); err != nil {
			return confirmed, err
		}
	}

	for round := 0; a.state == NeedsApproval; round++ {
		if round == maxApprovalRounds {
			return confirmed, fmt.Errorf("approvals still missing after %d rounds: %s", round, a.approvals[0])
		}

		for _, approval := range a.approvals {
			call, err := approval.call(a.fc.request.Infinite)
			if err != nil {
				return confirmed, err
			}
			hash, err := a.filler.wallet.SendTransaction(ctx, call, SendOptions{Value: new(big.Int)})
			if err != nil {
				return confirmed, fmt.Errorf("failed to send approval: %w", err)
			}
			a.logger.With(zap.String("tx", hash.Hex()), zap.Stringer("approval", approval)).Info("Approval sent")

			a.state = AwaitingApprovalTx
			a.approvalTxs = append(a.approvalTxs, hash)
			a.pending = append(a.pending, hash)
			if err := a.wait(ctx, hash, call, new(big.Int)); err != nil {
				return confirmed, err
			}
			a.pending = a.pending[:len(a.pending)-1]
			confirmed = append(confirmed, hash)
		}

		if err := a.refreshApprovals(ctx); err != nil {
			return confirmed, err
		}
	}
	return confirmed, nil
}

// Send encodes the fill against the current chain state and submits it
func (a *Action) Send(ctx context.Context) (*chain.Transaction, error) {
	if a.state != ReadyToSend {
		return nil, fmt.Errorf("%w: %s while %s", ErrStageOrder, StageSendTx, a.state)
	}

	prepared, err := a.filler.transactionData(ctx, a.fc, a.handler)
	if err != nil {
		return nil, err
	}
	hash, err := a.filler.wallet.SendTransaction(ctx, prepared.call(), SendOptions{Value: prepared.Value})
	if err != nil {
		return nil, fmt.Errorf("failed to send fill: %w", err)
	}
	a.state = Submitted
	a.fillTx = mo.Some(hash)
	a.logger.With(zap.String("tx", hash.Hex()), zap.String("method", prepared.Method)).Info("Fill sent")

	return chain.NewTransaction(
		a.filler.backend, hash, prepared.From, prepared.Contract, prepared.Data, prepared.Value,
		a.transactionOptions()...,
	), nil
}

// Run approves and sends
func (a *Action) Run(ctx context.Context) (*chain.Transaction, error) {
	if _, err := a.Approve(ctx); err != nil {
		return nil, err
	}
	return a.Send(ctx)
}

/*//////////////////////////////////////////////////////////////
                           CHECKPOINTS
//////////////////////////////////////////////////////////////*/

type checkpoint struct {
	ID          string          `msgpack:"id"`
	State       ActionState     `msgpack:"state"`
	Protocol    order.Protocol  `msgpack:"protocol"`
	OrderHash   types.OrderHash `msgpack:"orderHash"`
	Taker       common.Address  `msgpack:"taker"`
	ApprovalTxs []common.Hash   `msgpack:"approvalTxs"`
	Pending     []common.Hash   `msgpack:"pending"`
	FillTx      *common.Hash    `msgpack:"fillTx"`
}

// Checkpoint serializes the progress of the action. The order itself is not
// part of it, Resume takes the request again.
func (a *Action) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		ID:          a.id.String(),
		State:       a.state,
		Protocol:    a.fc.order().Protocol,
		OrderHash:   a.fc.order().Hash,
		Taker:       a.fc.taker,
		ApprovalTxs: a.approvalTxs,
		Pending:     a.pending,
	}
	if hash, ok := a.fillTx.Get(); ok {
		cp.FillTx = &hash
	}
	raw, err := msgpack.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return raw, nil
}

// Resume rebuilds an action from a checkpoint of a fill of req
func (f *Filler) Resume(ctx context.Context, raw []byte, req order.FillRequest) (*Action, error) {
	var cp checkpoint
	if err := msgpack.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	id, err := uuid.Parse(cp.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid checkpoint id: %w", err)
	}
	if cp.Protocol != req.Order.Protocol || cp.OrderHash != req.Order.Hash {
		return nil, fmt.Errorf("checkpoint of %s order %s does not match the request", cp.Protocol, cp.OrderHash)
	}

	fc, h, err := f.prepare(ctx, req, false)
	if err != nil {
		return nil, err
	}
	if fc.taker != cp.Taker {
		return nil, fmt.Errorf("checkpoint was taken by %s, sender is %s", cp.Taker.Hex(), fc.taker.Hex())
	}

	a := &Action{
		id:          id,
		filler:      f,
		fc:          fc,
		handler:     h,
		state:       cp.State,
		approvalTxs: cp.ApprovalTxs,
		pending:     cp.Pending,
	}
	a.logger = f.logger.With(
		zap.String("action", id.String()),
		zap.String("protocol", string(req.Order.Protocol)),
	)
	if cp.FillTx != nil {
		a.fillTx = mo.Some(*cp.FillTx)
	}

	switch cp.State {
	case Submitted, AwaitingApprovalTx:
	case NeedsApproval, ReadyToSend:
		if err := a.refreshApprovals(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown checkpoint state %q", cp.State)
	}
	return a, nil
}

// FillTx returns the submitted fill transaction
func (a *Action) FillTx() mo.Option[common.Hash] { return a.fillTx }
