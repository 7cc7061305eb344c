package storage

import (
	"errors"
	"fmt"
	"path"

	"github.com/ruteri/shamir-reconstruct/interfaces"
)

// ErrContentMismatch is returned when a backend returns bytes that do not
// hash to the requested content identifier.
var ErrContentMismatch = errors.New("content does not match its identifier")

// objectKey is the backend-independent name of an archived object:
// "<prefix>/<content type>/<hex id>".
func objectKey(prefix string, id interfaces.ContentID, contentType interfaces.ContentType) string {
	return path.Join(prefix, contentType.String(), id.String())
}

func verifyContent(id interfaces.ContentID, data []byte) error {
	if actual := interfaces.ComputeID(data); !actual.Equal(id) {
		return fmt.Errorf("%w: expected %s, got %s", ErrContentMismatch, id.Short(), actual.Short())
	}
	return nil
}
