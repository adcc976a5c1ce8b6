package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Intent layer.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrNoResource = "E_NO_RESOURCE"
	ErrWrongMode  = "E_WRONG_MODE"
	ErrNotFound   = "E_NOT_FOUND"
	ErrConflict   = "E_CONFLICT"

	// Save slots.
	ErrStorage = "E_STORAGE"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrProtoVersion:    {},
	ErrBadRequest:      {},
	ErrNoResource:      {},
	ErrWrongMode:       {},
	ErrNotFound:        {},
	ErrConflict:        {},
	ErrStorage:         {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
