package domain

// RoomSession is the locally remembered room membership. It outlives a
// restart of the client within the same terminal session.
type RoomSession struct {
	RoomID   string
	Identity Identity
	Stale    bool
}
