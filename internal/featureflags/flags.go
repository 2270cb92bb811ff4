package featureflags

import (
	"os"
	"strings"
)

// AuditLog turns on audit lines for registrations, logins, record writes and uploads
const AuditLog = "audit_log"

// Enabled reports whether FLAG_<NAME> is set to 1, true, yes or on (case-insensitive).
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
