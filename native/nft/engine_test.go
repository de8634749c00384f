package nft_test

import (
	"math/big"
	"testing"

	"nhbchain/core/events"
	"nhbchain/currency"
	"nhbchain/native/nft"
	"nhbchain/state"
	"nhbchain/storage"
)

// recordingEmitter captures every emitted event's type in order, so tests
// can assert on the exact sequence scenario 1 (spec.md §8) specifies.
type recordingEmitter struct {
	types []string
}

func (r *recordingEmitter) Emit(evt events.Event) {
	r.types = append(r.types, evt.EventType())
}

func acc(b byte) nft.AccountId {
	var a nft.AccountId
	a[len(a)-1] = b
	return a
}

func curAcc(a nft.AccountId) currency.AccountId { return currency.AccountId(a) }

func newHarness(t *testing.T) (*nft.Engine, *state.Manager, *currency.Ledger, *recordingEmitter) {
	t.Helper()
	store := storage.NewMemStore()
	manager := state.NewManager(store, "nft")
	ledger := currency.NewLedger(store, "currency/")
	emitter := &recordingEmitter{}
	params := nft.Params{
		ClassDeposit:           big.NewInt(10),
		InstanceDeposit:        big.NewInt(1),
		MetadataDepositBase:    big.NewInt(5),
		MetadataDepositPerByte: big.NewInt(1),
		StringLimit:            256,
	}
	engine := nft.NewEngine(manager, ledger, emitter, params)
	return engine, manager, ledger, emitter
}

// Scenario 1 (spec.md §8): public create + mint + burn.
func TestScenarioCreateMintBurn(t *testing.T) {
	engine, _, ledger, emitter := newHarness(t)
	alice, bob, carol := acc(1), acc(2), acc(3)
	if err := ledger.Credit(curAcc(alice), big.NewInt(100)); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	if err := engine.Create(nft.SignedOrigin(alice), 7, bob); err != nil {
		t.Fatalf("Create: %v", err)
	}
	reserved, _ := ledger.ReservedBalance(curAcc(alice))
	if reserved.Int64() != 10 {
		t.Fatalf("after create, alice reserved = %v, want 10", reserved)
	}

	if err := engine.Mint(nft.SignedOrigin(bob), 7, 42, carol); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	reserved, _ = ledger.ReservedBalance(curAcc(alice))
	if reserved.Int64() != 11 {
		t.Fatalf("after mint, alice reserved = %v, want 11", reserved)
	}

	if err := engine.Burn(nft.SignedOrigin(bob), 7, 42, nil); err != nil {
		t.Fatalf("Burn: %v", err)
	}
	reserved, _ = ledger.ReservedBalance(curAcc(alice))
	if reserved.Int64() != 10 {
		t.Fatalf("after burn, alice reserved = %v, want 10", reserved)
	}

	wantEvents := []string{nft.EventTypeCreated, nft.EventTypeIssued, nft.EventTypeBurned}
	if len(emitter.types) != len(wantEvents) {
		t.Fatalf("events = %v, want %v", emitter.types, wantEvents)
	}
	for i := range wantEvents {
		if emitter.types[i] != wantEvents[i] {
			t.Fatalf("events = %v, want %v", emitter.types, wantEvents)
		}
	}
}

// Scenario 2 (spec.md §8): force_create with free_holding never reserves.
func TestScenarioForceCreateFreeHolding(t *testing.T) {
	engine, manager, ledger, _ := newHarness(t)
	alice, bob := acc(1), acc(2)

	if err := engine.ForceCreate(nft.ForceOrigin(), 1, alice, true); err != nil {
		t.Fatalf("ForceCreate: %v", err)
	}
	reserved, _ := ledger.ReservedBalance(curAcc(alice))
	if reserved.Sign() != 0 {
		t.Fatalf("force_create must not reserve, got reserved=%v", reserved)
	}

	if err := engine.Mint(nft.SignedOrigin(alice), 1, 1, bob); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	class, _, err := manager.ClassGet(1)
	if err != nil {
		t.Fatalf("ClassGet: %v", err)
	}
	if class.Instances != 1 || class.FreeHolds != 1 {
		t.Fatalf("class counters = %+v, want instances=1 free_holds=1", class)
	}
	if class.TotalDeposit.Sign() != 0 {
		t.Fatalf("free-held mint must not change total_deposit, got %v", class.TotalDeposit)
	}
}

// Scenario 3 (spec.md §8): delegated transfer consumes the approval.
func TestScenarioDelegatedTransferConsumesApproval(t *testing.T) {
	engine, _, ledger, _ := newHarness(t)
	alice, bob, carol, dave, eve := acc(1), acc(2), acc(3), acc(4), acc(5)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))

	if err := engine.Create(nft.SignedOrigin(alice), 7, bob); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := engine.Mint(nft.SignedOrigin(bob), 7, 42, carol); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := engine.ApproveTransfer(nft.SignedOrigin(carol), 7, 42, dave); err != nil {
		t.Fatalf("ApproveTransfer: %v", err)
	}
	if err := engine.Transfer(nft.SignedOrigin(dave), 7, 42, eve); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if err := engine.Transfer(nft.SignedOrigin(dave), 7, 42, eve); err != nft.ErrNoPermission {
		t.Fatalf("expected second delegate transfer to fail with ErrNoPermission, got %v", err)
	}
}

// Scenario 4 (spec.md §8): destroy with a wrong witness changes nothing.
func TestScenarioDestroyWrongWitness(t *testing.T) {
	engine, manager, ledger, _ := newHarness(t)
	alice, bob := acc(1), acc(2)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))

	if err := engine.Create(nft.SignedOrigin(alice), 7, bob); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := engine.Mint(nft.SignedOrigin(bob), 7, 1, bob); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := engine.Mint(nft.SignedOrigin(bob), 7, 2, bob); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := engine.Mint(nft.SignedOrigin(bob), 7, 3, bob); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	// Three deposit-backed mints leave the stored counters at instances=3,
	// free_holds=0; the witness below is off by one in free_holds.
	if err := engine.Destroy(nft.SignedOrigin(alice), 7, 3, 1); err != nft.ErrBadWitness {
		t.Fatalf("expected ErrBadWitness, got %v", err)
	}
	class, ok, err := manager.ClassGet(7)
	if err != nil || !ok {
		t.Fatalf("class should still exist: ok=%v err=%v", ok, err)
	}
	if class.Instances != 3 {
		t.Fatalf("expected instances untouched at 3, got %d", class.Instances)
	}
	for _, inst := range []nft.InstanceId{1, 2, 3} {
		if exists, _ := manager.AssetContains(7, inst); !exists {
			t.Fatalf("instance %d should still exist after failed destroy", inst)
		}
	}
}

// Scenario 5 (spec.md §8): metadata deposit differential.
func TestScenarioMetadataDepositDifferential(t *testing.T) {
	engine, _, ledger, _ := newHarness(t)
	alice, bob := acc(1), acc(2)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))

	if err := engine.Create(nft.SignedOrigin(alice), 7, bob); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := engine.Mint(nft.SignedOrigin(bob), 7, 1, bob); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if err := engine.SetMetadata(nft.SignedOrigin(alice), 7, 1, []byte("ab"), []byte("x"), false); err != nil {
		t.Fatalf("SetMetadata #1: %v", err)
	}
	reserved, _ := ledger.ReservedBalance(curAcc(alice))
	// ClassDeposit(10) + InstanceDeposit(1) + metadata(5+3=8) = 19.
	if reserved.Int64() != 19 {
		t.Fatalf("after first set_metadata, alice reserved = %v, want 19", reserved)
	}

	if err := engine.SetMetadata(nft.SignedOrigin(alice), 7, 1, []byte("abcd"), []byte("x"), false); err != nil {
		t.Fatalf("SetMetadata #2: %v", err)
	}
	reserved, _ = ledger.ReservedBalance(curAcc(alice))
	// metadata deposit rises to 5+5=10, reserving 2 more: 19+2=21.
	if reserved.Int64() != 21 {
		t.Fatalf("after second set_metadata, alice reserved = %v, want 21", reserved)
	}

	if err := engine.ClearMetadata(nft.SignedOrigin(alice), 7, 1); err != nil {
		t.Fatalf("ClearMetadata: %v", err)
	}
	reserved, _ = ledger.ReservedBalance(curAcc(alice))
	// Back down to ClassDeposit(10) + InstanceDeposit(1) = 11.
	if reserved.Int64() != 11 {
		t.Fatalf("after clear_metadata, alice reserved = %v, want 11", reserved)
	}
}

// Scenario 6 (spec.md §8): transfer_ownership moves the whole reserve.
func TestScenarioTransferOwnershipMovesReserve(t *testing.T) {
	engine, manager, ledger, _ := newHarness(t)
	alice, bob, dave := acc(1), acc(2), acc(4)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))

	if err := engine.Create(nft.SignedOrigin(alice), 7, bob); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := engine.TransferOwnership(nft.SignedOrigin(alice), 7, dave); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	aliceReserved, _ := ledger.ReservedBalance(curAcc(alice))
	daveReserved, _ := ledger.ReservedBalance(curAcc(dave))
	if aliceReserved.Sign() != 0 || daveReserved.Int64() != 10 {
		t.Fatalf("alice reserved=%v dave reserved=%v, want 0/10", aliceReserved, daveReserved)
	}
	class, _, err := manager.ClassGet(7)
	if err != nil {
		t.Fatalf("ClassGet: %v", err)
	}
	if class.Owner != dave {
		t.Fatalf("expected owner=dave, got %v", class.Owner)
	}
}

// Boundary: mint at instances = u32::MAX overflows (spec.md §8).
func TestMintAtMaxInstancesOverflows(t *testing.T) {
	engine, manager, ledger, _ := newHarness(t)
	alice, bob := acc(1), acc(2)
	_ = ledger.Credit(curAcc(alice), big.NewInt(1000))

	if err := engine.ForceCreate(nft.ForceOrigin(), 1, alice, false); err != nil {
		t.Fatalf("ForceCreate: %v", err)
	}
	if err := manager.ClassTryMutate(1, func(c *nft.ClassDetails) error {
		c.Instances = ^uint32(0)
		return nil
	}); err != nil {
		t.Fatalf("ClassTryMutate: %v", err)
	}
	if err := engine.Mint(nft.SignedOrigin(alice), 1, 1, bob); err != nft.ErrOverflow {
		t.Fatalf("expected ErrOverflow at max instances, got %v", err)
	}
}

// Boundary: metadata of exactly StringLimit succeeds; +1 fails BadMetadata.
func TestMetadataStringLimitBoundary(t *testing.T) {
	store := storage.NewMemStore()
	manager := state.NewManager(store, "nft")
	ledger := currency.NewLedger(store, "currency/")
	params := nft.Params{
		ClassDeposit: big.NewInt(10), InstanceDeposit: big.NewInt(1),
		MetadataDepositBase: big.NewInt(0), MetadataDepositPerByte: big.NewInt(0),
		StringLimit: 4,
	}
	engine := nft.NewEngine(manager, ledger, &recordingEmitter{}, params)
	alice, bob := acc(1), acc(2)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))
	_ = engine.Create(nft.SignedOrigin(alice), 7, bob)
	_ = engine.Mint(nft.SignedOrigin(bob), 7, 1, bob)

	if err := engine.SetMetadata(nft.SignedOrigin(alice), 7, 1, []byte("abcd"), nil, false); err != nil {
		t.Fatalf("expected exactly-StringLimit metadata to succeed, got %v", err)
	}
	if err := engine.SetMetadata(nft.SignedOrigin(alice), 7, 1, []byte("abcde"), nil, false); err != nft.ErrBadMetadata {
		t.Fatalf("expected StringLimit+1 to fail BadMetadata, got %v", err)
	}
}

// Round-trip law: approve then cancel with the expected delegate leaves
// state identical to before the pair (spec.md §8).
func TestRoundTripApproveThenCancel(t *testing.T) {
	engine, manager, ledger, _ := newHarness(t)
	alice, bob, carol, dave := acc(1), acc(2), acc(3), acc(4)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))
	_ = engine.Create(nft.SignedOrigin(alice), 7, bob)
	_ = engine.Mint(nft.SignedOrigin(bob), 7, 1, carol)

	if err := engine.ApproveTransfer(nft.SignedOrigin(carol), 7, 1, dave); err != nil {
		t.Fatalf("ApproveTransfer: %v", err)
	}
	if err := engine.CancelApproval(nft.SignedOrigin(carol), 7, 1, &dave); err != nil {
		t.Fatalf("CancelApproval: %v", err)
	}
	asset, _, err := manager.AssetGet(7, 1)
	if err != nil {
		t.Fatalf("AssetGet: %v", err)
	}
	if asset.Approved != nil {
		t.Fatalf("expected no approval after approve+cancel round trip, got %v", asset.Approved)
	}
}

// Authorization: thaw is asymmetric with freeze and corrects the source
// quirk by emitting a distinct Thawed event (spec.md §4.4, §9).
func TestFreezeThawAsymmetricAuthorizationAndEvents(t *testing.T) {
	engine, _, ledger, emitter := newHarness(t)
	alice, issuerAdminFreezer, carol := acc(1), acc(2), acc(3)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))
	_ = engine.Create(nft.SignedOrigin(alice), 7, issuerAdminFreezer)
	_ = engine.Mint(nft.SignedOrigin(issuerAdminFreezer), 7, 1, carol)

	if err := engine.Freeze(nft.SignedOrigin(issuerAdminFreezer), 7, 1); err != nil {
		t.Fatalf("Freeze by freezer: %v", err)
	}
	if err := engine.Thaw(nft.SignedOrigin(issuerAdminFreezer), 7, 1); err != nil {
		t.Fatalf("Thaw by admin: %v", err)
	}

	foundFrozen, foundThawed := false, false
	for _, et := range emitter.types {
		if et == nft.EventTypeFrozen {
			foundFrozen = true
		}
		if et == nft.EventTypeThawed {
			foundThawed = true
		}
	}
	if !foundFrozen || !foundThawed {
		t.Fatalf("expected distinct Frozen and Thawed events, got %v", emitter.types)
	}
}

func TestDestroyUnreservesAndRemovesEverything(t *testing.T) {
	engine, manager, ledger, _ := newHarness(t)
	alice, bob := acc(1), acc(2)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))
	_ = engine.Create(nft.SignedOrigin(alice), 7, bob)
	_ = engine.Mint(nft.SignedOrigin(bob), 7, 1, bob)
	_ = engine.Mint(nft.SignedOrigin(bob), 7, 2, bob)

	if err := engine.Destroy(nft.SignedOrigin(alice), 7, 2, 0); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, ok, _ := manager.ClassGet(7); ok {
		t.Fatalf("expected class removed after destroy")
	}
	for _, inst := range []nft.InstanceId{1, 2} {
		if ok, _ := manager.AssetContains(7, inst); ok {
			t.Fatalf("expected instance %d removed after destroy", inst)
		}
		if has, _ := manager.AccountIndexHas(bob, 7, inst); has {
			t.Fatalf("expected reverse index for instance %d removed after destroy", inst)
		}
	}
	reserved, _ := ledger.ReservedBalance(curAcc(alice))
	if reserved.Sign() != 0 {
		t.Fatalf("expected all deposits unreserved after destroy, got %v", reserved)
	}
}

func TestCreateFailsInUseOnDuplicateClass(t *testing.T) {
	engine, _, ledger, _ := newHarness(t)
	alice, bob := acc(1), acc(2)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))
	if err := engine.Create(nft.SignedOrigin(alice), 7, bob); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := engine.Create(nft.SignedOrigin(alice), 7, bob); err != nft.ErrInUse {
		t.Fatalf("expected ErrInUse on duplicate create, got %v", err)
	}
}

func TestTransferFailsWhenFrozen(t *testing.T) {
	engine, _, ledger, _ := newHarness(t)
	alice, bob, carol := acc(1), acc(2), acc(3)
	_ = ledger.Credit(curAcc(alice), big.NewInt(100))
	_ = engine.Create(nft.SignedOrigin(alice), 7, bob)
	_ = engine.Mint(nft.SignedOrigin(bob), 7, 1, bob)
	if err := engine.Freeze(nft.SignedOrigin(bob), 7, 1); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if err := engine.Transfer(nft.SignedOrigin(bob), 7, 1, carol); err != nft.ErrFrozen {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
}
