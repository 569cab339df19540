package common

import "fmt"

// PlayerState is the playback state of a video player. The values match the embed API's numeric codes.
type PlayerState int

const (
	PlayerStateUnstarted PlayerState = -1
	PlayerStateEnded     PlayerState = 0
	PlayerStatePlaying   PlayerState = 1
	PlayerStatePaused    PlayerState = 2
	PlayerStateBuffering PlayerState = 3
	PlayerStateCued      PlayerState = 5
)

var playerStateNames = map[PlayerState]string{
	PlayerStateUnstarted: "unstarted",
	PlayerStateEnded:     "ended",
	PlayerStatePlaying:   "playing",
	PlayerStatePaused:    "paused",
	PlayerStateBuffering: "buffering",
	PlayerStateCued:      "cued",
}

func (s PlayerState) String() string {
	if name, ok := playerStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}
