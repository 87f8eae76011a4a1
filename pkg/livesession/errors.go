package livesession

import "errors"

// ErrPermissionDenied indicates the user refused microphone or screen
// capture access. The session aborts cleanly before any network session is
// opened and returns to the idle state.
var ErrPermissionDenied = errors.New("livesession: permission denied")

// ErrSourceEnded indicates a capture source stopped delivering data, e.g.
// the user ended screen sharing. Consumers stop without surfacing it.
var ErrSourceEnded = errors.New("livesession: source ended")

// errBadChunk indicates a received audio chunk could not be decoded. The
// chunk is dropped and the session continues.
var errBadChunk = errors.New("livesession: bad audio chunk")
