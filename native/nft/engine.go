package nft

import (
	"math/big"

	"nhbchain/core/events"
	"nhbchain/currency"
)

// engineState is the Storage Model surface the Engine depends on (spec.md
// §4.2). It is satisfied by *state.Manager; the Engine is defined against
// the interface, not the concrete type, following native/creator's
// dependency-inversion pattern (the engine package must not import state,
// since state imports native/nft for its value types).
type engineState interface {
	ClassGet(id ClassId) (*ClassDetails, bool, error)
	ClassContains(id ClassId) (bool, error)
	ClassPut(id ClassId, c *ClassDetails) error
	ClassDelete(id ClassId) error

	AssetGet(class ClassId, inst InstanceId) (*InstanceDetails, bool, error)
	AssetContains(class ClassId, inst InstanceId) (bool, error)
	AssetPut(class ClassId, inst InstanceId, a *InstanceDetails) error
	AssetDelete(class ClassId, inst InstanceId) error
	AssetDrainByClass(class ClassId) ([]DrainedInstance, error)

	AccountIndexPut(owner AccountId, class ClassId, inst InstanceId) error
	AccountIndexDelete(owner AccountId, class ClassId, inst InstanceId) error

	ClassMetadataGet(class ClassId) (*Metadata, bool, error)
	ClassMetadataPut(class ClassId, md *Metadata) error
	ClassMetadataDelete(class ClassId) error

	InstanceMetadataGet(class ClassId, inst InstanceId) (*Metadata, bool, error)
	InstanceMetadataPut(class ClassId, inst InstanceId, md *Metadata) error
	InstanceMetadataDelete(class ClassId, inst InstanceId) error
}

// DrainedInstance is one entry yielded (and removed) by AssetDrainByClass
// (spec.md §4.2 drain_prefix). It lives in this package, not state, because
// state already imports native/nft for its value types — defining it here
// lets state.Manager's AssetDrainByClass satisfy engineState directly.
type DrainedInstance struct {
	Instance InstanceId
	Details  *InstanceDetails
}

// Params holds the configuration constants spec.md §6 Upstream lists.
type Params struct {
	ClassDeposit           *big.Int
	InstanceDeposit        *big.Int
	MetadataDepositBase    *big.Int
	MetadataDepositPerByte *big.Int
	StringLimit            uint32
}

// Engine is the Operation Engine (spec.md §4.4): the twenty entry points,
// each performing check -> read -> validate -> reserve -> write -> emit
// against a Storage Model and a Deposit Ledger supplied at construction,
// following native/creator/engine.go's shape (state + emitter + params).
type Engine struct {
	state   engineState
	ledger  *currency.Ledger
	emitter events.Emitter
	params  Params
}

// NewEngine constructs an Engine over the given collaborators.
func NewEngine(state engineState, ledger *currency.Ledger, emitter events.Emitter, params Params) *Engine {
	return &Engine{state: state, ledger: ledger, emitter: emitter, params: params}
}

func (e *Engine) emit(evt interface{ EventType() string }) {
	if e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func toCurrencyAccount(a AccountId) currency.AccountId { return currency.AccountId(a) }

// Create handles create(class, admin) (spec.md §4.4).
func (e *Engine) Create(origin Origin, class ClassId, admin AccountId) error {
	signer, err := requireSigned(origin)
	if err != nil {
		return err
	}
	exists, err := e.state.ClassContains(class)
	if err != nil {
		return err
	}
	if exists {
		return ErrInUse
	}
	if err := e.ledger.Reserve(toCurrencyAccount(signer), e.params.ClassDeposit); err != nil {
		return err
	}
	details := &ClassDetails{
		Owner: signer, Issuer: admin, Admin: admin, Freezer: admin,
		TotalDeposit: new(big.Int).Set(e.params.ClassDeposit),
	}
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	e.emit(WrapEvent(CreatedEvent(class, signer, admin)))
	return nil
}

// ForceCreate handles force_create(class, owner, free_holding).
func (e *Engine) ForceCreate(origin Origin, class ClassId, owner AccountId, freeHolding bool) error {
	if err := requireForce(origin); err != nil {
		return err
	}
	exists, err := e.state.ClassContains(class)
	if err != nil {
		return err
	}
	if exists {
		return ErrInUse
	}
	details := &ClassDetails{
		Owner: owner, Issuer: owner, Admin: owner, Freezer: owner,
		TotalDeposit: big.NewInt(0), FreeHolding: freeHolding,
	}
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	e.emit(WrapEvent(ForceCreatedEvent(class, owner)))
	return nil
}

// Destroy handles destroy(class, witness) (spec.md §4.4).
func (e *Engine) Destroy(origin Origin, class ClassId, witnessInstances, witnessFreeHolds uint32) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, _, err := forceOrRole(origin, details, RoleOwner); err != nil {
		return err
	}
	if details.Instances != witnessInstances || details.FreeHolds != witnessFreeHolds {
		return ErrBadWitness
	}
	drained, err := e.state.AssetDrainByClass(class)
	if err != nil {
		return err
	}
	for _, d := range drained {
		if err := e.state.AccountIndexDelete(d.Details.Owner, class, d.Instance); err != nil {
			return err
		}
		if err := e.state.InstanceMetadataDelete(class, d.Instance); err != nil {
			return err
		}
	}
	if err := e.state.ClassMetadataDelete(class); err != nil {
		return err
	}
	if err := e.ledger.Unreserve(toCurrencyAccount(details.Owner), details.TotalDeposit); err != nil {
		return err
	}
	if err := e.state.ClassDelete(class); err != nil {
		return err
	}
	e.emit(WrapEvent(DestroyedEvent(class)))
	return nil
}

// Mint handles mint(class, instance, beneficiary) (spec.md §4.4).
func (e *Engine) Mint(origin Origin, class ClassId, instance InstanceId, beneficiary AccountId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, err := requireRole(origin, details, RoleIssuer); err != nil {
		return err
	}
	exists, err := e.state.AssetContains(class, instance)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}
	if details.Instances == ^uint32(0) {
		return ErrOverflow
	}
	deposit := big.NewInt(0)
	if details.FreeHolding {
		details.FreeHolds++
	} else {
		deposit = new(big.Int).Set(e.params.InstanceDeposit)
		if err := e.ledger.Reserve(toCurrencyAccount(details.Owner), deposit); err != nil {
			return err
		}
		details.TotalDeposit = new(big.Int).Add(details.TotalDeposit, deposit)
	}
	details.Instances++
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	asset := &InstanceDetails{Owner: beneficiary, Deposit: deposit}
	if err := e.state.AssetPut(class, instance, asset); err != nil {
		return err
	}
	if err := e.state.AccountIndexPut(beneficiary, class, instance); err != nil {
		return err
	}
	e.emit(WrapEvent(IssuedEvent(class, instance, beneficiary)))
	return nil
}

// Burn handles burn(class, instance, check_owner?) (spec.md §4.4).
func (e *Engine) Burn(origin Origin, class ClassId, instance InstanceId, checkOwner *AccountId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	asset, ok, err := e.state.AssetGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, _, err := forceOrInstanceOwnerOrAdmin(origin, details, asset); err != nil {
		return err
	}
	if checkOwner != nil && asset.Owner != *checkOwner {
		return ErrWrongOwner
	}
	if asset.Deposit.Sign() > 0 {
		if err := e.ledger.Unreserve(toCurrencyAccount(details.Owner), asset.Deposit); err != nil {
			return err
		}
		details.TotalDeposit = saturatingSub(details.TotalDeposit, asset.Deposit)
	}
	if meta, ok, err := e.state.InstanceMetadataGet(class, instance); err != nil {
		return err
	} else if ok {
		if meta.Deposit.Sign() > 0 {
			if err := e.ledger.Unreserve(toCurrencyAccount(details.Owner), meta.Deposit); err != nil {
				return err
			}
			details.TotalDeposit = saturatingSub(details.TotalDeposit, meta.Deposit)
		}
		if err := e.state.InstanceMetadataDelete(class, instance); err != nil {
			return err
		}
	}
	if details.Instances > 0 {
		details.Instances--
	}
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	if err := e.state.AssetDelete(class, instance); err != nil {
		return err
	}
	if err := e.state.AccountIndexDelete(asset.Owner, class, instance); err != nil {
		return err
	}
	e.emit(WrapEvent(BurnedEvent(class, instance, asset.Owner)))
	return nil
}

// forceOrInstanceOwnerOrAdmin implements burn's authorization: signed admin
// or signed instance owner (spec.md §4.3).
func forceOrInstanceOwnerOrAdmin(o Origin, class *ClassDetails, instance *InstanceDetails) (signer AccountId, privileged bool, err error) {
	signer, err = requireSigned(o)
	if err != nil {
		return AccountId{}, false, err
	}
	if signer == roleHolder(class, RoleAdmin) || signer == instance.Owner {
		return signer, false, nil
	}
	return AccountId{}, false, ErrNoPermission
}

func saturatingSub(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Sub(a, b)
}

// Transfer handles transfer(class, instance, dest) (spec.md §4.4).
func (e *Engine) Transfer(origin Origin, class ClassId, instance InstanceId, dest AccountId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	asset, ok, err := e.state.AssetGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if details.IsFrozen || asset.IsFrozen {
		return ErrFrozen
	}
	signer, err := requireSigned(origin)
	if err != nil {
		return err
	}
	consumeDelegate := false
	switch {
	case signer == roleHolder(details, RoleAdmin):
	case signer == asset.Owner:
	case asset.Approved != nil && signer == *asset.Approved:
		consumeDelegate = true
	default:
		return ErrNoPermission
	}
	oldOwner := asset.Owner
	asset.Owner = dest
	if consumeDelegate {
		asset.Approved = nil
	}
	if err := e.state.AssetPut(class, instance, asset); err != nil {
		return err
	}
	if err := e.state.AccountIndexDelete(oldOwner, class, instance); err != nil {
		return err
	}
	if err := e.state.AccountIndexPut(dest, class, instance); err != nil {
		return err
	}
	e.emit(WrapEvent(TransferredEvent(class, instance, signer, dest)))
	return nil
}

// Freeze handles freeze(class, instance): signed freezer (spec.md §4.4).
func (e *Engine) Freeze(origin Origin, class ClassId, instance InstanceId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, err := requireRole(origin, details, RoleFreezer); err != nil {
		return err
	}
	asset, ok, err := e.state.AssetGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	asset.IsFrozen = true
	if err := e.state.AssetPut(class, instance, asset); err != nil {
		return err
	}
	e.emit(WrapEvent(FrozenEvent(class, instance)))
	return nil
}

// Thaw handles thaw(class, instance): signed admin, asymmetric with Freeze
// per spec.md §9, and emits Thawed rather than repeating Frozen (the
// documented source quirk this implementation corrects, per the spec's
// explicit allowance in §9).
func (e *Engine) Thaw(origin Origin, class ClassId, instance InstanceId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, err := requireRole(origin, details, RoleAdmin); err != nil {
		return err
	}
	asset, ok, err := e.state.AssetGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	asset.IsFrozen = false
	if err := e.state.AssetPut(class, instance, asset); err != nil {
		return err
	}
	e.emit(WrapEvent(ThawedEvent(class, instance)))
	return nil
}

// FreezeClass handles freeze_class(class): signed freezer.
func (e *Engine) FreezeClass(origin Origin, class ClassId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, err := requireRole(origin, details, RoleFreezer); err != nil {
		return err
	}
	details.IsFrozen = true
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	e.emit(WrapEvent(ClassFrozenEvent(class)))
	return nil
}

// ThawClass handles thaw_class(class): signed admin.
func (e *Engine) ThawClass(origin Origin, class ClassId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, err := requireRole(origin, details, RoleAdmin); err != nil {
		return err
	}
	details.IsFrozen = false
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	e.emit(WrapEvent(ClassThawedEvent(class)))
	return nil
}

// TransferOwnership handles transfer_ownership(class, new_owner).
func (e *Engine) TransferOwnership(origin Origin, class ClassId, newOwner AccountId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	signer, err := requireRole(origin, details, RoleOwner)
	if err != nil {
		return err
	}
	if newOwner == signer {
		return nil
	}
	if err := e.ledger.RepatriateReserved(toCurrencyAccount(signer), toCurrencyAccount(newOwner), details.TotalDeposit); err != nil {
		return err
	}
	details.Owner = newOwner
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	e.emit(WrapEvent(OwnerChangedEvent(class, newOwner)))
	return nil
}

// SetTeam handles set_team(class, issuer, admin, freezer): signed owner.
func (e *Engine) SetTeam(origin Origin, class ClassId, issuer, admin, freezer AccountId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, err := requireRole(origin, details, RoleOwner); err != nil {
		return err
	}
	details.Issuer, details.Admin, details.Freezer = issuer, admin, freezer
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	e.emit(WrapEvent(TeamChangedEvent(class, issuer, admin, freezer)))
	return nil
}

// ApproveTransfer handles approve_transfer(class, instance, delegate).
func (e *Engine) ApproveTransfer(origin Origin, class ClassId, instance InstanceId, delegate AccountId) error {
	asset, ok, err := e.state.AssetGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	signer, err := requireInstanceOwner(origin, asset)
	if err != nil {
		return err
	}
	asset.Approved = &delegate
	if err := e.state.AssetPut(class, instance, asset); err != nil {
		return err
	}
	e.emit(WrapEvent(ApprovedTransferEvent(class, instance, signer, delegate)))
	return nil
}

// CancelApproval handles cancel_approval(class, instance, expected_delegate?).
func (e *Engine) CancelApproval(origin Origin, class ClassId, instance InstanceId, expectedDelegate *AccountId) error {
	asset, ok, err := e.state.AssetGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	signer, err := requireInstanceOwner(origin, asset)
	if err != nil {
		return err
	}
	if asset.Approved == nil {
		return ErrNoDelegate
	}
	if expectedDelegate != nil && *asset.Approved != *expectedDelegate {
		return ErrWrongDelegate
	}
	asset.Approved = nil
	if err := e.state.AssetPut(class, instance, asset); err != nil {
		return err
	}
	e.emit(WrapEvent(ApprovalCancelledEvent(class, instance, signer)))
	return nil
}

// ForceCancelApproval handles force_cancel_approval: force or signed admin.
func (e *Engine) ForceCancelApproval(origin Origin, class ClassId, instance InstanceId, expectedDelegate *AccountId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, _, err := forceOrRole(origin, details, RoleAdmin); err != nil {
		return err
	}
	asset, ok, err := e.state.AssetGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if asset.Approved == nil {
		return ErrNoDelegate
	}
	if expectedDelegate != nil && *asset.Approved != *expectedDelegate {
		return ErrWrongDelegate
	}
	asset.Approved = nil
	if err := e.state.AssetPut(class, instance, asset); err != nil {
		return err
	}
	e.emit(WrapEvent(ApprovalCancelledEvent(class, instance, asset.Owner)))
	return nil
}

// ForceAssetStatus handles force_asset_status(...): force only, overwrites
// seven fields, never touches deposits (spec.md §4.4).
func (e *Engine) ForceAssetStatus(origin Origin, class ClassId, owner, issuer, admin, freezer AccountId, freeHolding, isFrozen bool) error {
	if err := requireForce(origin); err != nil {
		return err
	}
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	details.Owner, details.Issuer, details.Admin, details.Freezer = owner, issuer, admin, freezer
	details.FreeHolding, details.IsFrozen = freeHolding, isFrozen
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	e.emit(WrapEvent(AssetStatusChangedEvent(class)))
	return nil
}

// SetMetadata handles set_metadata(class, instance, name, info, is_frozen).
func (e *Engine) SetMetadata(origin Origin, class ClassId, instance InstanceId, name, info []byte, isFrozen bool) error {
	if uint32(len(name)) > e.params.StringLimit || uint32(len(info)) > e.params.StringLimit {
		return ErrBadMetadata
	}
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if _, ok, err := e.state.AssetGet(class, instance); err != nil {
		return err
	} else if !ok {
		return ErrUnknown
	}
	signer, privileged, err := forceOrRole(origin, details, RoleOwner)
	if err != nil {
		return err
	}
	existing, hadExisting, err := e.state.InstanceMetadataGet(class, instance)
	if err != nil {
		return err
	}
	oldDeposit := big.NewInt(0)
	if hadExisting {
		if !privileged && existing.IsFrozen {
			return ErrFrozen
		}
		oldDeposit = existing.Deposit
	}
	newDeposit := MetadataDeposit(e.params.MetadataDepositBase, e.params.MetadataDepositPerByte, name, info)
	if privileged {
		newDeposit = oldDeposit
	} else {
		if err := adjustDeposit(e.ledger, signer, oldDeposit, newDeposit); err != nil {
			return err
		}
	}
	details.TotalDeposit = new(big.Int).Add(saturatingSub(details.TotalDeposit, oldDeposit), newDeposit)
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	md := &Metadata{Name: name, Information: info, IsFrozen: isFrozen, Deposit: newDeposit}
	if err := e.state.InstanceMetadataPut(class, instance, md); err != nil {
		return err
	}
	e.emit(WrapEvent(MetadataSetEvent(class, instance)))
	return nil
}

// adjustDeposit reserves or unreserves the differential between oldDeposit
// and newDeposit from signer, per spec.md §4.4's set_metadata contract.
func adjustDeposit(ledger *currency.Ledger, signer AccountId, oldDeposit, newDeposit *big.Int) error {
	diff := new(big.Int).Sub(newDeposit, oldDeposit)
	switch diff.Sign() {
	case 1:
		return ledger.Reserve(toCurrencyAccount(signer), diff)
	case -1:
		return ledger.Unreserve(toCurrencyAccount(signer), new(big.Int).Neg(diff))
	default:
		return nil
	}
}

// ClearMetadata handles clear_metadata(class, instance).
func (e *Engine) ClearMetadata(origin Origin, class ClassId, instance InstanceId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	_, privileged, err := forceOrRole(origin, details, RoleOwner)
	if err != nil {
		return err
	}
	existing, ok, err := e.state.InstanceMetadataGet(class, instance)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if !privileged && existing.IsFrozen {
		return ErrFrozen
	}
	if existing.Deposit.Sign() > 0 {
		if err := e.ledger.Unreserve(toCurrencyAccount(details.Owner), existing.Deposit); err != nil {
			return err
		}
		details.TotalDeposit = saturatingSub(details.TotalDeposit, existing.Deposit)
		if err := e.state.ClassPut(class, details); err != nil {
			return err
		}
	}
	if err := e.state.InstanceMetadataDelete(class, instance); err != nil {
		return err
	}
	e.emit(WrapEvent(MetadataClearedEvent(class, instance)))
	return nil
}

// SetClassMetadata handles set_class_metadata(class, name, info, is_frozen),
// analogous to SetMetadata but over ClassMetadataOf (spec.md §4.4).
func (e *Engine) SetClassMetadata(origin Origin, class ClassId, name, info []byte, isFrozen bool) error {
	if uint32(len(name)) > e.params.StringLimit || uint32(len(info)) > e.params.StringLimit {
		return ErrBadMetadata
	}
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	signer, privileged, err := forceOrRole(origin, details, RoleOwner)
	if err != nil {
		return err
	}
	existing, hadExisting, err := e.state.ClassMetadataGet(class)
	if err != nil {
		return err
	}
	oldDeposit := big.NewInt(0)
	if hadExisting {
		if !privileged && existing.IsFrozen {
			return ErrFrozen
		}
		oldDeposit = existing.Deposit
	}
	newDeposit := MetadataDeposit(e.params.MetadataDepositBase, e.params.MetadataDepositPerByte, name, info)
	if privileged {
		newDeposit = oldDeposit
	} else {
		if err := adjustDeposit(e.ledger, signer, oldDeposit, newDeposit); err != nil {
			return err
		}
	}
	details.TotalDeposit = new(big.Int).Add(saturatingSub(details.TotalDeposit, oldDeposit), newDeposit)
	if err := e.state.ClassPut(class, details); err != nil {
		return err
	}
	md := &Metadata{Name: name, Information: info, IsFrozen: isFrozen, Deposit: newDeposit}
	if err := e.state.ClassMetadataPut(class, md); err != nil {
		return err
	}
	e.emit(WrapEvent(ClassMetadataSetEvent(class)))
	return nil
}

// ClearClassMetadata handles clear_class_metadata(class).
func (e *Engine) ClearClassMetadata(origin Origin, class ClassId) error {
	details, ok, err := e.state.ClassGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	_, privileged, err := forceOrRole(origin, details, RoleOwner)
	if err != nil {
		return err
	}
	existing, ok, err := e.state.ClassMetadataGet(class)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknown
	}
	if !privileged && existing.IsFrozen {
		return ErrFrozen
	}
	if existing.Deposit.Sign() > 0 {
		if err := e.ledger.Unreserve(toCurrencyAccount(details.Owner), existing.Deposit); err != nil {
			return err
		}
		details.TotalDeposit = saturatingSub(details.TotalDeposit, existing.Deposit)
		if err := e.state.ClassPut(class, details); err != nil {
			return err
		}
	}
	if err := e.state.ClassMetadataDelete(class); err != nil {
		return err
	}
	e.emit(WrapEvent(ClassMetadataClearedEvent(class)))
	return nil
}
