package session

import (
	"errors"

	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/protocol"
	"magictrail.dev/internal/sim/rhythm"
	"magictrail.dev/internal/sim/trail"
)

var (
	errUnknownIntent = errors.New("unknown intent")
	errBadVersion    = errors.New("bad protocol_version")
	errNoStore       = errors.New("saving is not configured")
	errStorage       = errors.New("save storage failed")
)

var codeTable = []struct {
	err  error
	code string
}{
	{errBadVersion, protocol.ErrProtoVersion},
	{errUnknownIntent, protocol.ErrProtoBadRequest},
	{errNoStore, protocol.ErrStorage},
	{errStorage, protocol.ErrStorage},

	{trail.ErrUnaffordable, protocol.ErrNoResource},
	{trail.ErrOutOfFood, protocol.ErrNoResource},

	{trail.ErrWrongMode, protocol.ErrWrongMode},
	{trail.ErrNoActiveEvent, protocol.ErrWrongMode},
	{trail.ErrRiverAhead, protocol.ErrWrongMode},
	{rhythm.ErrNotActive, protocol.ErrWrongMode},

	{trail.ErrUnknownItem, protocol.ErrNotFound},
	{trail.ErrUnknownOption, protocol.ErrNotFound},
	{trail.ErrUnknownChallenge, protocol.ErrNotFound},
	{trail.ErrNoLandmarkEvent, protocol.ErrNotFound},
	{savestore.ErrNotFound, protocol.ErrNotFound},

	{trail.ErrDuplicateTraveler, protocol.ErrConflict},
	{trail.ErrAlreadyCrossed, protocol.ErrConflict},

	{trail.ErrBadChoice, protocol.ErrBadRequest},
	{trail.ErrBadQuantity, protocol.ErrBadRequest},
	{trail.ErrUnknownPace, protocol.ErrBadRequest},
	{trail.ErrUnknownRations, protocol.ErrBadRequest},
	{trail.ErrNobodyHurt, protocol.ErrBadRequest},
	{trail.ErrBadSnapshot, protocol.ErrBadRequest},
	{savestore.ErrEmptyName, protocol.ErrBadRequest},
}

func codeFor(err error) string {
	for _, c := range codeTable {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return protocol.ErrInternal
}
