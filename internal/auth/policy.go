// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package auth

import (
	"github.com/oklog/ulid/v2"
)

// Action identifies what a caller is attempting to do to a resource.
type Action string

// Actions checked by Authorize.
const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Caller identifies the authenticated player making a request.
type Caller struct {
	ID      ulid.ULID
	IsAdmin bool
}

// Decision is the outcome of an authorization check.
type Decision int

// Authorization outcomes.
const (
	Deny Decision = iota
	Allow
)

// Authorize decides whether the caller may perform action on a resource
// owned by ownerID. Admins may do anything. Non-admins may read freely
// and mutate only resources they own; a zero ownerID marks a resource
// with no owner, which only admins may mutate.
func Authorize(caller Caller, ownerID ulid.ULID, action Action) Decision {
	if caller.IsAdmin {
		return Allow
	}

	switch action {
	case ActionRead:
		return Allow
	case ActionCreate, ActionUpdate, ActionDelete:
		var zero ulid.ULID
		if ownerID != zero && caller.ID == ownerID {
			return Allow
		}
		return Deny
	default:
		return Deny
	}
}
