// Package notify delivers ledger events (registrations, payment decisions,
// password resets) to operators. Delivery is best effort: a failed
// notification is logged and never fails the operation that emitted it.
package notify
