// Package notifications sends optional push notifications about export
// outcomes through ntfy. Without a configured topic every call is a no-op.
package notifications
