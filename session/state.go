package session

//go:generate go tool stringer -type=State -trimprefix=State

// State is the attachment state of a [Session].
type State int

const (
	StateIdle State = iota
	StateAttached
	StateDumping
)
