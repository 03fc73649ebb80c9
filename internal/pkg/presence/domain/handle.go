package domain

// Handle is a non-owning reference to one live transport session.
// The transport layer owns the underlying connection; the registry only keeps
// the association from an identity to its current handle.
type Handle interface {
	// SessionID uniquely identifies the transport session behind this handle.
	SessionID() string

	// Send enqueues payload for delivery without blocking. Implementations
	// return an error when the session is closed or its buffer is exhausted.
	Send(payload []byte) error
}
