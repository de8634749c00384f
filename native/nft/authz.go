package nft

// Role names the four per-class privileged positions (spec.md §4.3).
type Role int

const (
	RoleOwner Role = iota
	RoleIssuer
	RoleAdmin
	RoleFreezer
)

// Origin is the resolved caller, as the Host's origin resolver would hand it
// to the pallet (spec.md §6 Upstream): either the privileged Force origin,
// or a Signed account. Constructing both Force and a Signer is a caller
// error and always resolves as Force.
type Origin struct {
	Force  bool
	Signer AccountId
}

// ForceOrigin constructs the privileged origin.
func ForceOrigin() Origin { return Origin{Force: true} }

// SignedOrigin constructs a signed origin for the given account.
func SignedOrigin(acc AccountId) Origin { return Origin{Signer: acc} }

// requireSigned resolves origin to a signing account, rejecting Force.
func requireSigned(o Origin) (AccountId, error) {
	if o.Force {
		return AccountId{}, ErrNoPermission
	}
	return o.Signer, nil
}

// requireForce resolves origin as the privileged Force origin only.
func requireForce(o Origin) error {
	if !o.Force {
		return ErrNoPermission
	}
	return nil
}

// roleHolder returns the account holding role on class.
func roleHolder(class *ClassDetails, role Role) AccountId {
	switch role {
	case RoleOwner:
		return class.Owner
	case RoleIssuer:
		return class.Issuer
	case RoleAdmin:
		return class.Admin
	case RoleFreezer:
		return class.Freezer
	default:
		return AccountId{}
	}
}

// requireRole resolves origin as a signed account matching the given role
// on class (signed_is(role, class), spec.md §4.3 table).
func requireRole(o Origin, class *ClassDetails, role Role) (AccountId, error) {
	signer, err := requireSigned(o)
	if err != nil {
		return AccountId{}, err
	}
	if signer != roleHolder(class, role) {
		return AccountId{}, ErrNoPermission
	}
	return signer, nil
}

// requireAnyRole resolves origin as a signed account matching any of the
// given roles on class.
func requireAnyRole(o Origin, class *ClassDetails, roles ...Role) (AccountId, error) {
	signer, err := requireSigned(o)
	if err != nil {
		return AccountId{}, err
	}
	for _, role := range roles {
		if signer == roleHolder(class, role) {
			return signer, nil
		}
	}
	return AccountId{}, ErrNoPermission
}

// forceOrRole accepts the Force origin, or falls through to requireRole.
// This is force_or(signed_is(role, class)).
func forceOrRole(o Origin, class *ClassDetails, role Role) (signer AccountId, privileged bool, err error) {
	if o.Force {
		return AccountId{}, true, nil
	}
	signer, err = requireRole(o, class, role)
	return signer, false, err
}

// forceOrInstanceOwner accepts Force, or requires the signer to equal the
// instance owner (signed_is_instance_owner).
func forceOrInstanceOwner(o Origin, instance *InstanceDetails) (signer AccountId, privileged bool, err error) {
	if o.Force {
		return AccountId{}, true, nil
	}
	signer, err = requireSigned(o)
	if err != nil {
		return AccountId{}, false, err
	}
	if signer != instance.Owner {
		return AccountId{}, false, ErrNoPermission
	}
	return signer, false, nil
}

// requireInstanceOwner requires a signed account matching the instance
// owner (signed_is_instance_owner, no force bypass).
func requireInstanceOwner(o Origin, instance *InstanceDetails) (AccountId, error) {
	signer, err := requireSigned(o)
	if err != nil {
		return AccountId{}, err
	}
	if signer != instance.Owner {
		return AccountId{}, ErrNoPermission
	}
	return signer, nil
}

// requireDelegate requires a signed account matching the instance's
// approved delegate (signed_is_delegate).
func requireDelegate(o Origin, instance *InstanceDetails) (AccountId, error) {
	signer, err := requireSigned(o)
	if err != nil {
		return AccountId{}, err
	}
	if instance.Approved == nil || signer != *instance.Approved {
		return AccountId{}, ErrNoPermission
	}
	return signer, nil
}
