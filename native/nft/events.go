package nft

import (
	"encoding/hex"
	"strconv"

	"nhbchain/core/events"
	"nhbchain/core/types"
)

// Event type strings for every event spec.md §6 Downstream names.
const (
	EventTypeCreated             = "nft.created"
	EventTypeForceCreated        = "nft.force_created"
	EventTypeDestroyed           = "nft.destroyed"
	EventTypeIssued              = "nft.issued"
	EventTypeTransferred         = "nft.transferred"
	EventTypeBurned              = "nft.burned"
	EventTypeFrozen              = "nft.frozen"
	EventTypeThawed              = "nft.thawed"
	EventTypeClassFrozen         = "nft.class_frozen"
	EventTypeClassThawed         = "nft.class_thawed"
	EventTypeOwnerChanged        = "nft.owner_changed"
	EventTypeTeamChanged         = "nft.team_changed"
	EventTypeApprovedTransfer    = "nft.approved_transfer"
	EventTypeApprovalCancelled   = "nft.approval_cancelled"
	EventTypeAssetStatusChanged  = "nft.asset_status_changed"
	EventTypeClassMetadataSet    = "nft.class_metadata_set"
	EventTypeClassMetadataCleared = "nft.class_metadata_cleared"
	EventTypeMetadataSet         = "nft.metadata_set"
	EventTypeMetadataCleared     = "nft.metadata_cleared"
)

// eventEnvelope adapts the concrete *types.Event payload into the
// events.Event interface, mirroring native/creator's WrapEvent/eventEnvelope
// pair: core/events.Emitter only knows how to Emit the interface, while the
// pallet constructs the concrete attribute-map shape.
type eventEnvelope struct{ evt *types.Event }

func (e eventEnvelope) EventType() string { return e.evt.Type }

// WrapEvent converts a raw *types.Event payload into an emitter-friendly
// events.Event.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

func hexAcc(a AccountId) string { return hex.EncodeToString(a[:]) }

func fmtU64(v uint64) string { return strconv.FormatUint(v, 10) }

func newEvent(eventType string, attrs map[string]string) *types.Event {
	return &types.Event{Type: eventType, Attributes: attrs}
}

func CreatedEvent(class ClassId, owner, admin AccountId) *types.Event {
	return newEvent(EventTypeCreated, map[string]string{
		"class": fmtU64(uint64(class)), "owner": hexAcc(owner), "admin": hexAcc(admin),
	})
}

func ForceCreatedEvent(class ClassId, owner AccountId) *types.Event {
	return newEvent(EventTypeForceCreated, map[string]string{
		"class": fmtU64(uint64(class)), "owner": hexAcc(owner),
	})
}

func DestroyedEvent(class ClassId) *types.Event {
	return newEvent(EventTypeDestroyed, map[string]string{"class": fmtU64(uint64(class))})
}

func IssuedEvent(class ClassId, instance InstanceId, beneficiary AccountId) *types.Event {
	return newEvent(EventTypeIssued, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)), "owner": hexAcc(beneficiary),
	})
}

func TransferredEvent(class ClassId, instance InstanceId, from, to AccountId) *types.Event {
	return newEvent(EventTypeTransferred, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)),
		"from": hexAcc(from), "to": hexAcc(to),
	})
}

func BurnedEvent(class ClassId, instance InstanceId, owner AccountId) *types.Event {
	return newEvent(EventTypeBurned, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)), "owner": hexAcc(owner),
	})
}

func FrozenEvent(class ClassId, instance InstanceId) *types.Event {
	return newEvent(EventTypeFrozen, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)),
	})
}

func ThawedEvent(class ClassId, instance InstanceId) *types.Event {
	return newEvent(EventTypeThawed, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)),
	})
}

func ClassFrozenEvent(class ClassId) *types.Event {
	return newEvent(EventTypeClassFrozen, map[string]string{"class": fmtU64(uint64(class))})
}

func ClassThawedEvent(class ClassId) *types.Event {
	return newEvent(EventTypeClassThawed, map[string]string{"class": fmtU64(uint64(class))})
}

func OwnerChangedEvent(class ClassId, newOwner AccountId) *types.Event {
	return newEvent(EventTypeOwnerChanged, map[string]string{
		"class": fmtU64(uint64(class)), "newOwner": hexAcc(newOwner),
	})
}

func TeamChangedEvent(class ClassId, issuer, admin, freezer AccountId) *types.Event {
	return newEvent(EventTypeTeamChanged, map[string]string{
		"class": fmtU64(uint64(class)), "issuer": hexAcc(issuer), "admin": hexAcc(admin), "freezer": hexAcc(freezer),
	})
}

func ApprovedTransferEvent(class ClassId, instance InstanceId, owner, delegate AccountId) *types.Event {
	return newEvent(EventTypeApprovedTransfer, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)),
		"owner": hexAcc(owner), "delegate": hexAcc(delegate),
	})
}

func ApprovalCancelledEvent(class ClassId, instance InstanceId, owner AccountId) *types.Event {
	return newEvent(EventTypeApprovalCancelled, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)), "owner": hexAcc(owner),
	})
}

func AssetStatusChangedEvent(class ClassId) *types.Event {
	return newEvent(EventTypeAssetStatusChanged, map[string]string{"class": fmtU64(uint64(class))})
}

func ClassMetadataSetEvent(class ClassId) *types.Event {
	return newEvent(EventTypeClassMetadataSet, map[string]string{"class": fmtU64(uint64(class))})
}

func ClassMetadataClearedEvent(class ClassId) *types.Event {
	return newEvent(EventTypeClassMetadataCleared, map[string]string{"class": fmtU64(uint64(class))})
}

func MetadataSetEvent(class ClassId, instance InstanceId) *types.Event {
	return newEvent(EventTypeMetadataSet, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)),
	})
}

func MetadataClearedEvent(class ClassId, instance InstanceId) *types.Event {
	return newEvent(EventTypeMetadataCleared, map[string]string{
		"class": fmtU64(uint64(class)), "instance": fmtU64(uint64(instance)),
	})
}
