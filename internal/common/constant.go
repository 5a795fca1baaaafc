package common

// Storage keys used by the portal in the local key/value store.
const (
	// DocumentKey holds the whole JSON document.
	DocumentKey = "ipt_demo_v1"

	// SessionKey holds the signed snapshot of the logged-in account.
	SessionKey = "currentUser"

	// PendingVerificationKey holds the email awaiting (simulated) verification.
	PendingVerificationKey = "unverifiedEmail"
)

// DateLayout is the calendar-day format used for request dates and hire dates.
const DateLayout = "2006-01-02"
