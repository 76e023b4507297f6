package kvstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Top-level prefixes. Each one is a collection scanned with GetByPrefix.
const (
	PrefixUser       = "user:"
	PrefixUserEmail  = "useremail:"
	PrefixCredential = "credential:"
	PrefixEvent      = "event:"
	PrefixAudit      = "audit:"
)

func UserKey(id string) string       { return PrefixUser + id }
func CredentialKey(id string) string { return PrefixCredential + id }
func EventKey(id string) string      { return PrefixEvent + id }

// UserEmailKey indexes a user id by normalised email.
func UserEmailKey(email string) string {
	return PrefixUserEmail + strings.ToLower(strings.TrimSpace(email))
}

// Indexed describes a record stored under a primary key plus a by-user and a
// by-event composite key. All three keys carry the same value.
type Indexed struct {
	Kind    string
	ID      string
	UserID  string
	EventID string
}

func (i Indexed) Primary() string { return PrimaryPrefix(i.Kind) + i.ID }
func (i Indexed) ByUser() string  { return ByUserPrefix(i.Kind, i.UserID) + i.ID }
func (i Indexed) ByEvent() string { return ByEventPrefix(i.Kind, i.EventID) + i.ID }

func (i Indexed) Keys() []string {
	return []string{i.Primary(), i.ByUser(), i.ByEvent()}
}

// Values maps every key of i to v, ready for SetMany.
func (i Indexed) Values(v any) map[string]any {
	out := make(map[string]any, 3)
	for _, k := range i.Keys() {
		out[k] = v
	}
	return out
}

func PrimaryPrefix(kind string) string { return kind + ":id:" }

func ByUserPrefix(kind, userID string) string {
	return kind + ":user:" + userID + ":"
}

func ByEventPrefix(kind, eventID string) string {
	return kind + ":event:" + eventID + ":"
}

// AuditKey orders audit entries chronologically under the audit prefix.
func AuditKey(at time.Time, id string) string {
	return fmt.Sprintf("%s%020d:%s", PrefixAudit, at.UnixNano(), id)
}

// NewID returns "<tag>_<unix millis>_<8 hex chars>".
func NewID(tag string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", tag, time.Now().UnixMilli(), suffix)
}
