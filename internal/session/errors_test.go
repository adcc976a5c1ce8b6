package session

import (
	"errors"
	"fmt"
	"testing"

	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/protocol"
	"magictrail.dev/internal/sim/trail"
)

func TestCodeTableUsesKnownCodes(t *testing.T) {
	for _, c := range codeTable {
		if !protocol.IsKnownCode(c.code) {
			t.Fatalf("%v maps to unknown code %q", c.err, c.code)
		}
	}
}

func TestCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: 50 gold_coins", trail.ErrUnaffordable), protocol.ErrNoResource},
		{fmt.Errorf("%w: shop", trail.ErrWrongMode), protocol.ErrWrongMode},
		{savestore.ErrNotFound, protocol.ErrNotFound},
		{storageErr(errors.New("disk full")), protocol.ErrStorage},
		{storageErr(savestore.ErrNotFound), protocol.ErrNotFound},
		{errors.New("boom"), protocol.ErrInternal},
	}
	for _, tc := range cases {
		if got := codeFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected %s, got %s", tc.err, tc.want, got)
		}
	}
}
