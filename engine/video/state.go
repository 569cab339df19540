package video

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-theater/common"
)

// State is the playback state reported by a Player.
type State = common.PlayerState

const (
	StateUnstarted = common.PlayerStateUnstarted
	StateEnded     = common.PlayerStateEnded
	StatePlaying   = common.PlayerStatePlaying
	StatePaused    = common.PlayerStatePaused
	StateBuffering = common.PlayerStateBuffering
	StateCued      = common.PlayerStateCued
)

// ErrInvalidQuality is returned when parsing an unknown quality hint.
var ErrInvalidQuality = errors.New("invalid quality")

// Quality is a suggested playback resolution.
type Quality string

const (
	QualitySmall   Quality = "small"
	QualityMedium  Quality = "medium"
	QualityLarge   Quality = "large"
	QualityHD720   Quality = "hd720"
	QualityHD1080  Quality = "hd1080"
	QualityHighdef Quality = "highdef"
)

// QualityDefault is used when no quality hint is given.
const QualityDefault = QualityHighdef

var qualityHeights = map[Quality]int{
	QualitySmall:   240,
	QualityMedium:  360,
	QualityLarge:   480,
	QualityHD720:   720,
	QualityHD1080:  1080,
	QualityHighdef: 2160,
}

// Height returns the frame height the hint caps decoding at, or 0 for an unknown hint.
//
// Returns:
//   - int: the maximum frame height in pixels
func (q Quality) Height() int {
	return qualityHeights[q]
}

// ParseQuality resolves a quality hint by name, case-insensitive. An empty name yields QualityDefault.
//
// Parameters:
//   - name: the quality name
//
// Returns:
//   - Quality: the parsed quality
//   - error: ErrInvalidQuality wrapped with the offending name
func ParseQuality(name string) (Quality, error) {
	n := Quality(strings.ToLower(strings.TrimSpace(name)))
	if n == "" {
		return QualityDefault, nil
	}
	if _, ok := qualityHeights[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuality, name)
	}
	return n, nil
}
