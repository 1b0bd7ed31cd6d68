package common

// Notification types stored in the notifications table. The set is enforced
// by a CHECK constraint, keep the two in sync.
const (
	NotificationBlockCreated = "block_created"
	NotificationBlockDeleted = "block_deleted"
	NotificationWarningCall  = "warning_call"
	NotificationSystem       = "system"
)

// Owner types a user can declare for their vehicle.
const (
	OwnerTypeOwner  = "owner"
	OwnerTypeRenter = "renter"
)
