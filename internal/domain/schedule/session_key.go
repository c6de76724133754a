package schedule

import (
	"fmt"

	"github.com/google/uuid"
)

// sessionNamespace is the fixed UUID namespace session keys are derived
// under. Never change it: existing session_key values depend on it.
var sessionNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// SessionKey derives the deterministic identity of a physical session
// from (doctor, date, start_time). Uniqueness on the result is what
// enforces at-most-one materialization per session.
func SessionKey(doctorID uint, date, startTime string) string {
	name := fmt.Sprintf("session|%d|%s|%s", doctorID, date, startTime)
	return uuid.NewSHA1(sessionNamespace, []byte(name)).String()
}
