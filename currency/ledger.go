// Package currency models the external Currency subsystem the pallet
// reserves deposits against. It stands in for the host ledger's
// reserve/unreserve/repatriate_reserved primitives (spec.md §1, §4.1):
// the pallet never mutates a balance directly, it only ever asks this
// collaborator to reserve, unreserve, or move already-reserved funds.
package currency

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"nhbchain/storage"
)

// ErrInsufficientFunds is returned by Reserve when the account's free
// balance cannot cover the requested amount.
var ErrInsufficientFunds = errors.New("currency: insufficient free balance")

// AccountId addresses a balance holder. It mirrors native/nft.AccountId's
// underlying representation; the two are distinct named types because
// Currency is an external collaborator the pallet depends on, not the other
// way around (spec.md §1 lists Currency as an out-of-scope collaborator).
type AccountId [20]byte

type balance struct {
	Free     *big.Int
	Reserved *big.Int
}

func zeroBalance() *balance {
	return &balance{Free: big.NewInt(0), Reserved: big.NewInt(0)}
}

// Ledger is a minimal reserve/unreserve/repatriate ledger over free and
// reserved balances, keyed by account. Status quo policy (spec.md §4.1):
// unreserve saturates rather than erroring, reserve fails closed.
type Ledger struct {
	store  storage.OrderedStore
	prefix []byte
}

// NewLedger constructs a Ledger over the supplied store. prefix namespaces
// the ledger's keys so it can share a backing store with other state.
func NewLedger(store storage.OrderedStore, prefix string) *Ledger {
	return &Ledger{store: store, prefix: []byte(prefix)}
}

func (l *Ledger) key(acc AccountId) []byte {
	out := make([]byte, 0, len(l.prefix)+20)
	out = append(out, l.prefix...)
	out = append(out, acc[:]...)
	return out
}

func (l *Ledger) load(acc AccountId) (*balance, error) {
	raw, ok, err := l.store.Get(l.key(acc))
	if err != nil {
		return nil, err
	}
	if !ok {
		return zeroBalance(), nil
	}
	return decodeBalance(raw)
}

func (l *Ledger) save(acc AccountId, b *balance) error {
	raw, err := encodeBalance(b)
	if err != nil {
		return err
	}
	return l.store.Set(l.key(acc), raw)
}

// Credit tops up an account's free balance. It exists so tests and genesis
// setup can fund accounts; it is not part of the spec's Currency contract.
func (l *Ledger) Credit(acc AccountId, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("currency: credit amount must be non-negative")
	}
	b, err := l.load(acc)
	if err != nil {
		return err
	}
	b.Free = new(big.Int).Add(b.Free, amount)
	return l.save(acc, b)
}

// FreeBalance reports the account's unreserved balance.
func (l *Ledger) FreeBalance(acc AccountId) (*big.Int, error) {
	b, err := l.load(acc)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(b.Free), nil
}

// ReservedBalance reports the account's reserved balance.
func (l *Ledger) ReservedBalance(acc AccountId) (*big.Int, error) {
	b, err := l.load(acc)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(b.Reserved), nil
}

// Reserve moves amount from the account's free balance into its reserved
// balance. It fails closed: insufficient free balance leaves the ledger
// unchanged.
func (l *Ledger) Reserve(acc AccountId, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("currency: reserve amount must be non-negative")
	}
	b, err := l.load(acc)
	if err != nil {
		return err
	}
	if b.Free.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	b.Free = new(big.Int).Sub(b.Free, amount)
	b.Reserved = new(big.Int).Add(b.Reserved, amount)
	return l.save(acc, b)
}

// Unreserve moves amount from the account's reserved balance back to free.
// It is infallible and saturates at the reserved balance, matching the
// external Currency subsystem's documented policy (spec.md §4.1).
func (l *Ledger) Unreserve(acc AccountId, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	b, err := l.load(acc)
	if err != nil {
		return err
	}
	moved := amount
	if b.Reserved.Cmp(moved) < 0 {
		moved = b.Reserved
	}
	b.Reserved = new(big.Int).Sub(b.Reserved, moved)
	b.Free = new(big.Int).Add(b.Free, moved)
	return l.save(acc, b)
}

// RepatriateReserved moves amount from from's reserved balance directly into
// to's reserved balance, keeping it reserved throughout (spec.md §4.1,
// scenario 6). It fails if from does not hold enough reserved balance.
func (l *Ledger) RepatriateReserved(from, to AccountId, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("currency: repatriate amount must be non-negative")
	}
	fromBal, err := l.load(from)
	if err != nil {
		return err
	}
	if fromBal.Reserved.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	toBal, err := l.load(to)
	if err != nil {
		return err
	}
	fromBal.Reserved = new(big.Int).Sub(fromBal.Reserved, amount)
	toBal.Reserved = new(big.Int).Add(toBal.Reserved, amount)
	if err := l.save(from, fromBal); err != nil {
		return err
	}
	return l.save(to, toBal)
}

// storedBalance is the RLP wire shape for a balance record, following the
// teacher's storedXxx convention (core/state/manager.go's storedCreatorContent,
// core/state/refund_ledger.go's storedRefundRecord) of RLP-encoding a plain
// struct of *big.Int fields rather than hand-rolling a byte layout.
type storedBalance struct {
	Free     *big.Int
	Reserved *big.Int
}

func encodeBalance(b *balance) ([]byte, error) {
	return rlp.EncodeToBytes(&storedBalance{Free: b.Free, Reserved: b.Reserved})
}

func decodeBalance(raw []byte) (*balance, error) {
	var stored storedBalance
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, fmt.Errorf("currency: corrupt balance record: %w", err)
	}
	if stored.Free == nil {
		stored.Free = big.NewInt(0)
	}
	if stored.Reserved == nil {
		stored.Reserved = big.NewInt(0)
	}
	return &balance{Free: stored.Free, Reserved: stored.Reserved}, nil
}
