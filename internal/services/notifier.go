package services

// Notifier dispatches account-lifecycle notifications. Implementations are
// fire-and-forget: a failed dispatch must never fail the request that
// triggered it, so services only log Notifier errors.
type Notifier interface {
	NotifyWelcome(email, name string) error
	NotifyCancellation(email, name string) error
}

// Normalizer transcodes uploaded avatar bytes into the stored representation
// (a fixed-size PNG). A failure means the upload was not a usable image.
type Normalizer interface {
	Normalize(data []byte) ([]byte, error)
}
