// Package nft implements the asset-class / asset-instance pallet described
// by spec.md: class and instance bookkeeping, deposit accounting, the
// authorization lattice, and the twenty operations of the Operation Engine.
package nft

import "math/big"

// ClassId is a caller-chosen identifier for an asset class.
type ClassId uint64

// InstanceId is a caller-chosen identifier unique within a class.
type InstanceId uint64

// AccountId addresses a signer or beneficiary. It is a fixed-width value so
// it stays cheaply copyable and totally ordered, as spec.md §3 requires.
type AccountId [20]byte

// ClassDetails is the per-class record described in spec.md §3.
type ClassDetails struct {
	Owner, Issuer, Admin, Freezer AccountId
	// TotalDeposit is the sum of everything currently reserved against
	// Owner on behalf of this class (invariant I1).
	TotalDeposit *big.Int
	// FreeHolding, when true, makes instance mints deposit-free.
	FreeHolding bool
	// Instances is the live instance count (invariant I2).
	Instances uint32
	// FreeHolds counts instances minted while FreeHolding was true. Burn
	// does not decrement it, so burned free-held instances stay counted.
	FreeHolds uint32
	IsFrozen  bool
}

// Clone returns a deep copy safe for the caller to mutate.
func (c *ClassDetails) Clone() *ClassDetails {
	if c == nil {
		return nil
	}
	clone := *c
	if c.TotalDeposit != nil {
		clone.TotalDeposit = new(big.Int).Set(c.TotalDeposit)
	} else {
		clone.TotalDeposit = big.NewInt(0)
	}
	return &clone
}

// InstanceDetails is the per-instance record described in spec.md §3.
type InstanceDetails struct {
	Owner AccountId
	// Approved is the single transfer-delegate, or nil if none is set.
	Approved *AccountId
	IsFrozen bool
	// Deposit is 0 iff the instance was minted under free holding, else the
	// InstanceDeposit constant recorded at mint time.
	Deposit *big.Int
}

// Clone returns a deep copy safe for the caller to mutate.
func (d *InstanceDetails) Clone() *InstanceDetails {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Deposit != nil {
		clone.Deposit = new(big.Int).Set(d.Deposit)
	} else {
		clone.Deposit = big.NewInt(0)
	}
	if d.Approved != nil {
		approved := *d.Approved
		clone.Approved = &approved
	}
	return &clone
}

// Metadata is the shared shape of ClassMetadataOf and InstanceMetadataOf
// entries (spec.md §3): both are a name, free-form information, a frozen
// flag, and the deposit reserved to cover their storage.
type Metadata struct {
	Name        []byte
	Information []byte
	IsFrozen    bool
	Deposit     *big.Int
}

// Clone returns a deep copy safe for the caller to mutate.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	clone := *m
	clone.Name = append([]byte(nil), m.Name...)
	clone.Information = append([]byte(nil), m.Information...)
	if m.Deposit != nil {
		clone.Deposit = new(big.Int).Set(m.Deposit)
	} else {
		clone.Deposit = big.NewInt(0)
	}
	return &clone
}

// MetadataDeposit computes MetadataDepositBase + MetadataDepositPerByte *
// (len(name)+len(info)), the formula spec.md §4.4's set_metadata uses.
func MetadataDeposit(base, perByte *big.Int, name, info []byte) *big.Int {
	byteLen := big.NewInt(int64(len(name) + len(info)))
	variable := new(big.Int).Mul(perByte, byteLen)
	return new(big.Int).Add(base, variable)
}
