package interaction

import (
	"log"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/Carmen-Shannon/oxy-theater/engine/raycast"
)

// PlaybackToggle is a Handler that plays the context's player unless it is already playing,
// in which case it pauses it. It does nothing before a player has been attached.
func PlaybackToggle(ctx *Context, _ raycast.Intersection) {
	if ctx == nil {
		return
	}
	p := ctx.Player()
	if p == nil {
		return
	}

	var err error
	if p.PlayerState() != common.PlayerStatePlaying {
		err = p.PlayVideo()
	} else {
		err = p.PauseVideo()
	}
	if err != nil {
		log.Printf("[Interaction] playback toggle: %v", err)
	}
}
