package trail

import "errors"

var (
	ErrUnaffordable      = errors.New("not enough resources")
	ErrNoActiveEvent     = errors.New("no active event")
	ErrBadChoice         = errors.New("invalid choice")
	ErrWrongMode         = errors.New("operation not allowed in current mode")
	ErrUnknownItem       = errors.New("unknown shop item")
	ErrUnknownPace       = errors.New("unknown pace")
	ErrUnknownRations    = errors.New("unknown ration level")
	ErrUnknownOption     = errors.New("unknown river option")
	ErrUnknownChallenge  = errors.New("unknown challenge")
	ErrNoLandmarkEvent   = errors.New("no landmark event available")
	ErrRiverAhead        = errors.New("river must be crossed first")
	ErrAlreadyCrossed    = errors.New("river already crossed")
	ErrNobodyHurt        = errors.New("nobody needs first aid")
	ErrDuplicateTraveler = errors.New("traveler already in party")
	ErrBadQuantity       = errors.New("quantity must be positive")
	ErrBadSnapshot       = errors.New("invalid snapshot")
	ErrOutOfFood         = errors.New("out of food")
)
