// Package state implements the Storage Model (spec.md §4.2): the five keyed
// maps — Class, Asset, Account, ClassMetadataOf, InstanceMetadataOf — plus
// their primitive operations (get/insert/remove/contains/try_mutate) and the
// prefix-drain used by destroy.
//
// The shape follows the teacher's core/state/manager.go: a Manager wrapping
// a single backing store, RLP-encoding values, one typed accessor per
// keyspace. The backing store is storage.OrderedStore instead of the
// teacher's Merkle trie (see DESIGN.md) so AssetDrainByClass can do a real
// ordered scan instead of needing a secondary index rebuilt by hand.
package state

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"nhbchain/native/nft"
	"nhbchain/storage"
)

// Manager is the pallet's Storage Model, parameterised by an instance tag so
// that multiple independent copies of the pallet can coexist in one host
// keyspace (spec.md §6, §9 "global mutable state").
type Manager struct {
	store      storage.OrderedStore
	instanceTag []byte
}

// NewManager constructs a Manager over store, namespaced under tag.
func NewManager(store storage.OrderedStore, tag string) *Manager {
	return &Manager{store: store, instanceTag: []byte(tag)}
}

func (m *Manager) classKey(id nft.ClassId) []byte {
	return join(m.instanceTag, "class/", encodeUint64(uint64(id)))
}

// assetPrefix is, by construction, a byte-for-byte prefix of every key
// assetKey produces for the same class: callers must not change one without
// the other, since AssetDrainByClass relies on that relationship.
func (m *Manager) assetPrefix(class nft.ClassId) []byte {
	return join(m.instanceTag, "asset/", encodeUint64(uint64(class)), "/")
}

func (m *Manager) assetKey(class nft.ClassId, inst nft.InstanceId) []byte {
	return append(m.assetPrefix(class), encodeUint64(uint64(inst))...)
}

func (m *Manager) accountKey(owner nft.AccountId, class nft.ClassId, inst nft.InstanceId) []byte {
	return join(m.instanceTag, "account/", owner[:], "/", encodeUint64(uint64(class)), "/", encodeUint64(uint64(inst)))
}

func (m *Manager) classMetaKey(class nft.ClassId) []byte {
	return join(m.instanceTag, "classmeta/", encodeUint64(uint64(class)))
}

func (m *Manager) instanceMetaKey(class nft.ClassId, inst nft.InstanceId) []byte {
	return join(m.instanceTag, "instmeta/", encodeUint64(uint64(class)), "/", encodeUint64(uint64(inst)))
}

// join concatenates its arguments, each either a []byte or a string, into a
// single key. It exists so key-building call sites stay readable.
func join(parts ...interface{}) []byte {
	out := make([]byte, 0, 32)
	for _, p := range parts {
		switch v := p.(type) {
		case []byte:
			out = append(out, v...)
		case string:
			out = append(out, v...)
		default:
			panic(fmt.Sprintf("state: unsupported key part type %T", p))
		}
	}
	return out
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// --- Class keyspace ---

type storedClass struct {
	Owner, Issuer, Admin, Freezer nft.AccountId
	TotalDeposit                  *big.Int
	FreeHolding                   bool
	Instances                     uint32
	FreeHolds                     uint32
	IsFrozen                      bool
}

func toStoredClass(c *nft.ClassDetails) *storedClass {
	return &storedClass{
		Owner: c.Owner, Issuer: c.Issuer, Admin: c.Admin, Freezer: c.Freezer,
		TotalDeposit: c.TotalDeposit, FreeHolding: c.FreeHolding,
		Instances: c.Instances, FreeHolds: c.FreeHolds, IsFrozen: c.IsFrozen,
	}
}

func fromStoredClass(s *storedClass) *nft.ClassDetails {
	deposit := s.TotalDeposit
	if deposit == nil {
		deposit = big.NewInt(0)
	}
	return &nft.ClassDetails{
		Owner: s.Owner, Issuer: s.Issuer, Admin: s.Admin, Freezer: s.Freezer,
		TotalDeposit: deposit, FreeHolding: s.FreeHolding,
		Instances: s.Instances, FreeHolds: s.FreeHolds, IsFrozen: s.IsFrozen,
	}
}

// ClassGet returns the class details stored under id, if any.
func (m *Manager) ClassGet(id nft.ClassId) (*nft.ClassDetails, bool, error) {
	raw, ok, err := m.store.Get(m.classKey(id))
	if err != nil || !ok {
		return nil, ok, err
	}
	var stored storedClass
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, err
	}
	return fromStoredClass(&stored), true, nil
}

// ClassContains reports whether a class exists without decoding it.
func (m *Manager) ClassContains(id nft.ClassId) (bool, error) {
	return m.store.Has(m.classKey(id))
}

// ClassPut inserts or overwrites the class details for id.
func (m *Manager) ClassPut(id nft.ClassId, c *nft.ClassDetails) error {
	encoded, err := rlp.EncodeToBytes(toStoredClass(c))
	if err != nil {
		return err
	}
	return m.store.Set(m.classKey(id), encoded)
}

// ClassDelete removes the class entry for id.
func (m *Manager) ClassDelete(id nft.ClassId) error {
	return m.store.Delete(m.classKey(id))
}

// ClassTryMutate reads the class, applies fn, and writes the result back.
// If fn returns an error the store is left untouched (spec.md §4.2
// try_mutate semantics).
func (m *Manager) ClassTryMutate(id nft.ClassId, fn func(*nft.ClassDetails) error) error {
	class, ok, err := m.ClassGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("state: class %d not found", id)
	}
	if err := fn(class); err != nil {
		return err
	}
	return m.ClassPut(id, class)
}

// --- Asset keyspace ---

type storedAsset struct {
	Owner       nft.AccountId
	HasApproved bool
	Approved    nft.AccountId
	IsFrozen    bool
	Deposit     *big.Int
}

func toStoredAsset(a *nft.InstanceDetails) *storedAsset {
	s := &storedAsset{Owner: a.Owner, IsFrozen: a.IsFrozen, Deposit: a.Deposit}
	if a.Approved != nil {
		s.HasApproved = true
		s.Approved = *a.Approved
	}
	return s
}

func fromStoredAsset(s *storedAsset) *nft.InstanceDetails {
	deposit := s.Deposit
	if deposit == nil {
		deposit = big.NewInt(0)
	}
	out := &nft.InstanceDetails{Owner: s.Owner, IsFrozen: s.IsFrozen, Deposit: deposit}
	if s.HasApproved {
		approved := s.Approved
		out.Approved = &approved
	}
	return out
}

// AssetGet returns the instance details for (class, inst), if any.
func (m *Manager) AssetGet(class nft.ClassId, inst nft.InstanceId) (*nft.InstanceDetails, bool, error) {
	raw, ok, err := m.store.Get(m.assetKey(class, inst))
	if err != nil || !ok {
		return nil, ok, err
	}
	var stored storedAsset
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, err
	}
	return fromStoredAsset(&stored), true, nil
}

// AssetContains reports whether an instance exists.
func (m *Manager) AssetContains(class nft.ClassId, inst nft.InstanceId) (bool, error) {
	return m.store.Has(m.assetKey(class, inst))
}

// AssetPut inserts or overwrites the instance details for (class, inst).
func (m *Manager) AssetPut(class nft.ClassId, inst nft.InstanceId, a *nft.InstanceDetails) error {
	encoded, err := rlp.EncodeToBytes(toStoredAsset(a))
	if err != nil {
		return err
	}
	return m.store.Set(m.assetKey(class, inst), encoded)
}

// AssetDelete removes the instance entry for (class, inst).
func (m *Manager) AssetDelete(class nft.ClassId, inst nft.InstanceId) error {
	return m.store.Delete(m.assetKey(class, inst))
}

// AssetTryMutate reads the instance, applies fn, and writes the result back.
func (m *Manager) AssetTryMutate(class nft.ClassId, inst nft.InstanceId, fn func(*nft.InstanceDetails) error) error {
	asset, ok, err := m.AssetGet(class, inst)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("state: asset (%d,%d) not found", class, inst)
	}
	if err := fn(asset); err != nil {
		return err
	}
	return m.AssetPut(class, inst, asset)
}

// AssetDrainByClass yields every (instance, details) stored for class, in
// ascending instance order, removing each one from the Asset keyspace as it
// is produced (spec.md §4.2 drain_prefix). Used by destroy. The return type
// is native/nft's own DrainedInstance (not a local alias) so Manager
// satisfies the engine's storage interface without a second, structurally
// identical but distinct named type.
func (m *Manager) AssetDrainByClass(class nft.ClassId) ([]nft.DrainedInstance, error) {
	prefix := m.assetPrefix(class)
	var drained []nft.DrainedInstance
	var keys [][]byte
	err := m.store.Iterate(prefix, func(key, value []byte) error {
		var stored storedAsset
		if err := rlp.DecodeBytes(value, &stored); err != nil {
			return err
		}
		instID, err := instanceIDFromKey(key)
		if err != nil {
			return err
		}
		drained = append(drained, nft.DrainedInstance{Instance: instID, Details: fromStoredAsset(&stored)})
		keys = append(keys, append([]byte(nil), key...))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(drained, func(i, j int) bool { return drained[i].Instance < drained[j].Instance })
	for _, k := range keys {
		if err := m.store.Delete(k); err != nil {
			return nil, err
		}
	}
	return drained, nil
}

func instanceIDFromKey(key []byte) (nft.InstanceId, error) {
	if len(key) < 8 {
		return 0, fmt.Errorf("state: malformed asset key")
	}
	tail := key[len(key)-8:]
	var v uint64
	for _, b := range tail {
		v = (v << 8) | uint64(b)
	}
	return nft.InstanceId(v), nil
}

// --- Account reverse-index keyspace ---

// AccountIndexPut records that owner holds (class, inst).
func (m *Manager) AccountIndexPut(owner nft.AccountId, class nft.ClassId, inst nft.InstanceId) error {
	return m.store.Set(m.accountKey(owner, class, inst), []byte{1})
}

// AccountIndexDelete removes the reverse-index entry for (owner, class, inst).
func (m *Manager) AccountIndexDelete(owner nft.AccountId, class nft.ClassId, inst nft.InstanceId) error {
	return m.store.Delete(m.accountKey(owner, class, inst))
}

// AccountIndexHas reports whether the reverse-index entry exists.
func (m *Manager) AccountIndexHas(owner nft.AccountId, class nft.ClassId, inst nft.InstanceId) (bool, error) {
	return m.store.Has(m.accountKey(owner, class, inst))
}

// --- ClassMetadataOf / InstanceMetadataOf keyspaces ---

type storedMetadata struct {
	Name        []byte
	Information []byte
	IsFrozen    bool
	Deposit     *big.Int
}

func toStoredMetadata(md *nft.Metadata) *storedMetadata {
	return &storedMetadata{Name: md.Name, Information: md.Information, IsFrozen: md.IsFrozen, Deposit: md.Deposit}
}

func fromStoredMetadata(s *storedMetadata) *nft.Metadata {
	deposit := s.Deposit
	if deposit == nil {
		deposit = big.NewInt(0)
	}
	return &nft.Metadata{Name: s.Name, Information: s.Information, IsFrozen: s.IsFrozen, Deposit: deposit}
}

// ClassMetadataGet returns the class-level metadata for class, if any.
func (m *Manager) ClassMetadataGet(class nft.ClassId) (*nft.Metadata, bool, error) {
	raw, ok, err := m.store.Get(m.classMetaKey(class))
	if err != nil || !ok {
		return nil, ok, err
	}
	var stored storedMetadata
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, err
	}
	return fromStoredMetadata(&stored), true, nil
}

// ClassMetadataPut inserts or overwrites class-level metadata.
func (m *Manager) ClassMetadataPut(class nft.ClassId, md *nft.Metadata) error {
	encoded, err := rlp.EncodeToBytes(toStoredMetadata(md))
	if err != nil {
		return err
	}
	return m.store.Set(m.classMetaKey(class), encoded)
}

// ClassMetadataDelete removes class-level metadata.
func (m *Manager) ClassMetadataDelete(class nft.ClassId) error {
	return m.store.Delete(m.classMetaKey(class))
}

// InstanceMetadataGet returns the instance-level metadata for (class, inst).
func (m *Manager) InstanceMetadataGet(class nft.ClassId, inst nft.InstanceId) (*nft.Metadata, bool, error) {
	raw, ok, err := m.store.Get(m.instanceMetaKey(class, inst))
	if err != nil || !ok {
		return nil, ok, err
	}
	var stored storedMetadata
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false, err
	}
	return fromStoredMetadata(&stored), true, nil
}

// InstanceMetadataPut inserts or overwrites instance-level metadata.
func (m *Manager) InstanceMetadataPut(class nft.ClassId, inst nft.InstanceId, md *nft.Metadata) error {
	encoded, err := rlp.EncodeToBytes(toStoredMetadata(md))
	if err != nil {
		return err
	}
	return m.store.Set(m.instanceMetaKey(class, inst), encoded)
}

// InstanceMetadataDelete removes instance-level metadata.
func (m *Manager) InstanceMetadataDelete(class nft.ClassId, inst nft.InstanceId) error {
	return m.store.Delete(m.instanceMetaKey(class, inst))
}
