package state

// Rehydrate replays validated persisted state for one storage key.
type Rehydrate struct {
	Key     string
	Payload any
}

func (Rehydrate) Type() string { return "persist/REHYDRATE" }
