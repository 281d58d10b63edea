package room

import (
	"errors"
)

// MaxProgress is the progress of a user who typed the whole text.
const MaxProgress = 100

var (
	ErrUserNotInRoom   = errors.New("user not in room")
	ErrNotInLobby      = errors.New("room is not in lobby")
	ErrNotAllReady     = errors.New("not all users are ready")
	ErrNotCountingDown = errors.New("room is not counting down")
	ErrNotRacing       = errors.New("room is not racing")
)

// SetReady changes the readiness of a member while the room is in the lobby.
// It reports whether every member is ready afterwards.
func (r *Room) SetReady(username string, ready bool) (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.stage != Lobby {
		return false, ErrNotInLobby
	}
	u := r.findLocked(username)
	if u == nil {
		return false, ErrUserNotInRoom
	}
	u.Ready = ready
	return r.allReadyLocked(), nil
}

// AllReady reports whether the room has members and all of them are ready.
func (r *Room) AllReady() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.allReadyLocked()
}

func (r *Room) allReadyLocked() bool {
	if len(r.users) == 0 {
		return false
	}
	for _, u := range r.users {
		if !u.Ready {
			return false
		}
	}
	return true
}

// StartCountdown moves an all-ready lobby to Countdown with the given race text
// and returns the new round number.
func (r *Room) StartCountdown(textID int) (int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.stage != Lobby {
		return 0, ErrNotInLobby
	}
	if !r.allReadyLocked() {
		return 0, ErrNotAllReady
	}
	r.stage = Countdown
	r.textID = textID
	r.round++
	return r.round, nil
}

// StartRace moves a counting down room to Racing and zeroes every member's progress.
func (r *Room) StartRace() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.stage != Countdown {
		return ErrNotCountingDown
	}
	r.stage = Racing
	r.gameInProgress = true
	for _, u := range r.users {
		p := 0
		u.Progress = &p
	}
	return nil
}

// UpdateProgress records a member's progress clamped to [0, MaxProgress].
// It reports whether every member has completed the text.
func (r *Room) UpdateProgress(username string, progress int) (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.stage != Racing {
		return false, ErrNotRacing
	}
	u := r.findLocked(username)
	if u == nil {
		return false, ErrUserNotInRoom
	}
	progress = max(0, min(progress, MaxProgress))
	u.Progress = &progress
	return r.allCompletedLocked(), nil
}

// AllCompleted reports whether the room is racing and every member reached MaxProgress.
func (r *Room) AllCompleted() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.allCompletedLocked()
}

func (r *Room) allCompletedLocked() bool {
	if r.stage != Racing || len(r.users) == 0 {
		return false
	}
	for _, u := range r.users {
		if u.Progress == nil || *u.Progress != MaxProgress {
			return false
		}
	}
	return true
}

// Finish ends the race exactly once. It returns the standings taken before the
// reset and puts the room back into the lobby with every member not ready and
// at zero progress.
func (r *Room) Finish(order StandingsOrder) (Snapshot, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.stage != Racing {
		return Snapshot{}, ErrNotRacing
	}
	r.stage = Finished
	standings := r.snapshotLocked()
	order.Sort(standings.Users)

	r.gameInProgress = false
	for _, u := range r.users {
		p := 0
		u.Ready = false
		u.Progress = &p
	}
	r.stage = Lobby
	return standings, nil
}
