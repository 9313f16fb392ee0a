package enums

// CheckoutState tracks a single session's progress through checkout.
type CheckoutState string

const (
	CheckoutStateIdle      CheckoutState = "idle"
	CheckoutStateComposing CheckoutState = "composing"
	CheckoutStateHandedOff CheckoutState = "handed_off"
)

func (s CheckoutState) String() string {
	return string(s)
}

// HandoffStatus says how far the messaging hand-off is known to have gone.
type HandoffStatus string

const (
	// HandoffAttempted means the link was produced and the open was requested,
	// with no acknowledgement that the app actually opened.
	HandoffAttempted HandoffStatus = "attempted"
	// HandoffConfirmed means the launcher received an acknowledgement.
	HandoffConfirmed HandoffStatus = "confirmed"
)

func (s HandoffStatus) String() string {
	return string(s)
}
