package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/spcassist/session"
)

// slotKey is the session storage slot the per-session cache lives under.
const slotKey = "spcassist.response_cache"

// ForSession returns the cache bound to sess, creating it on first use.
//
// Acquisition is idempotent: repeated calls for the same session return the
// same underlying store (the ttl argument only applies on first creation)
// rather than resetting it. The cache registers an OnEnd callback so it is
// fully cleared when the owning session ends — a resource-cleanup
// guarantee, not a convenience. Isolation across sessions is structural:
// each session owns a distinct store, so identical keys in two sessions can
// never observe each other's values.
func ForSession(sess *session.Session, ttl time.Duration, logger *zap.Logger) *Cache {
	if existing, ok := sess.Value(slotKey); ok {
		if c, ok := existing.(*Cache); ok {
			return c
		}
	}

	c := New(ttl, logger)
	sess.SetValue(slotKey, c)
	sess.OnEnd(func() {
		removed := c.Clear()
		c.logger.Debug("session cache cleared on session end",
			zap.String("session_id", sess.ID()),
			zap.Int("removed", removed),
		)
	})
	return c
}
