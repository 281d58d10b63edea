package room

// Stage is the position of a room in its game cycle.
type Stage int8

const (
	// Lobby is the initial stage. Users join, leave and toggle readiness.
	Lobby Stage = iota

	// Countdown starts once every member is ready. A race text has been drawn
	// and clients are preloading it.
	Countdown

	// Racing accepts progress updates until everybody is done or the race timer elapses.
	Racing

	// Finished is held only while the standings are taken; the room then returns to Lobby.
	Finished
)

func (s Stage) String() string {
	switch s {
	case Lobby:
		return "Lobby"
	case Countdown:
		return "Countdown"
	case Racing:
		return "Racing"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}
