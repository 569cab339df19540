package video

import "github.com/faiface/beep"

// APIBuilderOption is a functional option applied to the API during LoadAPI.
type APIBuilderOption func(*apiImpl)

// WithAudio enables or disables speaker output. Audio is enabled by default.
//
// Parameters:
//   - enabled: false to play video silently without touching the audio device
//
// Returns:
//   - APIBuilderOption: a function that applies the audio option to the API
func WithAudio(enabled bool) APIBuilderOption {
	return func(a *apiImpl) {
		a.audio = enabled
	}
}

// WithSampleRate sets the speaker output rate. Non-positive rates are ignored.
//
// Parameters:
//   - rate: the output sample rate
//
// Returns:
//   - APIBuilderOption: a function that applies the sample rate option to the API
func WithSampleRate(rate beep.SampleRate) APIBuilderOption {
	return func(a *apiImpl) {
		if rate > 0 {
			a.sampleRate = rate
		}
	}
}

// WithBootstrap adds a step that must succeed before the API becomes ready.
//
// Parameters:
//   - fn: the bootstrap step
//
// Returns:
//   - APIBuilderOption: a function that applies the bootstrap option to the API
func WithBootstrap(fn BootstrapFunc) APIBuilderOption {
	return func(a *apiImpl) {
		a.bootstrap = fn
	}
}

// WithOpener replaces the reisen decoder used by players.
//
// Parameters:
//   - open: the decoder factory, nil is ignored
//
// Returns:
//   - APIBuilderOption: a function that applies the opener option to the API
func WithOpener(open OpenFunc) APIBuilderOption {
	return func(a *apiImpl) {
		if open != nil {
			a.open = open
		}
	}
}
