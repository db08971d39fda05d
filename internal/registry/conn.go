package registry

import nanoid "github.com/matoous/go-nanoid/v2"

// ConnID is the opaque token naming one live transport session. The
// transport layer owns the session; the registries only ever hold the
// token, so fake connections in tests are just strings.
type ConnID string

// None is the zero ConnID, used where an exclusion parameter is optional.
const None ConnID = ""

// NewConnID mints a fresh connection token.
func NewConnID() (ConnID, error) {
	id, err := nanoid.New(12)
	return ConnID(id), err
}
