package auth

import (
	"sort"

	"github.com/spec-kit/offer-service/internal/domain"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

// Action names an operation subject to authorization.
type Action string

const (
	ActionReadOwnProfile        Action = "read_own_profile"
	ActionUpdateOwnProfile      Action = "update_own_profile"
	ActionReadOwnOffer          Action = "read_own_offer"
	ActionTransitionOfferStatus Action = "transition_offer_status"
	ActionDeclineOwnOffer       Action = "decline_own_offer"
	ActionReadAnyOffer          Action = "read_any_offer"
	ActionCreateOffer           Action = "create_offer"
	ActionReadAnyUser           Action = "read_any_user"
	ActionChangeUserRole        Action = "change_user_role"
	ActionManageLeads           Action = "manage_leads"
)

// Reason explains a denial. It is for logs and tests; callers must not echo it to clients.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbiddenRole   Reason = "forbidden_role"
	ReasonNotOwner        Reason = "not_owner"
	ReasonRoleUnavailable Reason = "role_unavailable"
)

type scope int

const (
	// scopeOwn: admins always, others only on resources they own.
	scopeOwn scope = iota
	// scopeOwnerOnly: the owner only, whatever the role.
	scopeOwnerOnly
	// scopeAdmin: admins only.
	scopeAdmin
)

var policy = map[Action]scope{
	ActionReadOwnProfile:        scopeOwn,
	ActionUpdateOwnProfile:      scopeOwn,
	ActionReadOwnOffer:          scopeOwn,
	ActionTransitionOfferStatus: scopeOwn,
	ActionDeclineOwnOffer:       scopeOwnerOnly,
	ActionReadAnyOffer:          scopeAdmin,
	ActionCreateOffer:           scopeAdmin,
	ActionReadAnyUser:           scopeAdmin,
	ActionChangeUserRole:        scopeAdmin,
	ActionManageLeads:           scopeAdmin,
}

// Actions lists every action known to the policy, sorted.
func Actions() []Action {
	out := make([]Action, 0, len(policy))
	for a := range policy {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resource carries the attributes of the target that the policy inspects.
// A zero Resource (unknown owner) is never owned by anyone.
type Resource struct {
	OwnerID string
}

// OwnedBy builds a Resource owned by userID.
func OwnedBy(userID string) Resource {
	return Resource{OwnerID: userID}
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Reason: r} }

// Err converts a denial into the transport-facing error. Not-owner and wrong-role
// denials both become the same Forbidden error.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonUnauthenticated:
		return apperrors.NewUnauthenticated("authentication required")
	case d.Reason == ReasonRoleUnavailable:
		return apperrors.NewDependencyUnavailable("role lookup", nil)
	default:
		return apperrors.NewForbidden()
	}
}

// Evaluate decides whether p may perform action on res. It has no side effects.
func Evaluate(p *Principal, action Action, res Resource) Decision {
	if p == nil || p.ID == "" {
		return deny(ReasonUnauthenticated)
	}
	if p.RoleErr != nil {
		return deny(ReasonRoleUnavailable)
	}
	sc, known := policy[action]
	if !known {
		return deny(ReasonForbiddenRole)
	}
	owns := res.OwnerID != "" && res.OwnerID == p.ID

	switch sc {
	case scopeOwnerOnly:
		if owns {
			return allow()
		}
		return deny(ReasonNotOwner)
	case scopeOwn:
		if p.IsAdmin() || owns {
			return allow()
		}
		return deny(ReasonNotOwner)
	default:
		if p.IsAdmin() {
			return allow()
		}
		return deny(ReasonForbiddenRole)
	}
}

// Authorize is Evaluate followed by Decision.Err.
func Authorize(p *Principal, action Action, res Resource) error {
	return Evaluate(p, action, res).Err()
}

// IsAdmin reports whether the principal holds a successfully resolved admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.RoleErr == nil && p.Role == domain.RoleAdmin
}
