// Package featureflags evaluates the FEATURE_FLAGS config string into
// per-user feature decisions.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// rolloutSalt namespaces the percentage-rollout hash so DevConnect buckets
// never line up with another service hashing the same flag names.
const rolloutSalt = "devconnect"

// Manager holds flags parsed from a comma-separated key=value list, e.g.
// "trending_feed=on,email_digest=off,new_composer=25%".
type Manager struct {
	flags map[string]string
}

// NewManager parses the config string. Malformed pairs are skipped rather
// than rejected, so one typo cannot take every flag down.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = canon(name)
		value = canon(value)
		if name == "" || value == "" {
			continue
		}
		flags[name] = value
	}

	return &Manager{flags: flags}
}

// Enabled evaluates one flag for one user. Values are on/true/1,
// off/false/0, or N% for a deterministic per-user rollout. Unknown flags and
// unknown values are off.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[canon(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	// Anonymous requests never land in a partial rollout.
	if userID == 0 {
		return false
	}
	return bucketFor(name, userID) < pct
}

// Raw returns a copy of the configured flag values.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot evaluates every flag for one user, for the admin panel.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucketFor assigns a user a stable bucket in [0,100) per flag, so a 25%
// rollout keeps the same quarter of users as it ramps.
func bucketFor(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s/%s/%d", rolloutSalt, canon(name), userID)
	return int(h.Sum32() % 100)
}
