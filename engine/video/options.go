package video

// Events are the callbacks a Player delivers from Poll on the caller's thread.
type Events struct {
	// OnReady runs once when the source has been opened and the player accepts commands.
	OnReady func(p Player)
	// OnStateChange runs after every playback state transition.
	OnStateChange func(p Player, state State)
}

// Options configures a Player. The flag set mirrors the embed API's player variables.
type Options struct {
	// VideoID is the media source: a file path or URL the decoder can open.
	VideoID string
	// Width and Height cap the decoded frame size in pixels. Zero leaves a dimension uncapped.
	Width, Height int

	Autoplay         bool
	SuggestedQuality Quality
	ModestBranding   bool
	// Controls shows native player controls. There are none to show, so it is recorded only.
	Controls bool
	// CCLoadPolicy is the caption load policy. Captions are not decoded, so it is recorded only.
	CCLoadPolicy int
	// FS enables the fullscreen toggle key.
	FS          bool
	Loop        bool
	PlaysInline bool
	Rel         bool
	// DisableKB ignores keyboard controls entirely.
	DisableKB bool

	Events Events
}

// DefaultOptions returns the player configuration used by the theater scene.
//
// Returns:
//   - Options: the default options
func DefaultOptions() Options {
	return Options{
		Height:           2160,
		SuggestedQuality: QualityHighdef,
		ModestBranding:   true,
		CCLoadPolicy:     3,
		Loop:             true,
		PlaysInline:      true,
		DisableKB:        true,
	}
}

// maxHeight is the tighter of the quality hint and the explicit height cap, or 0 for no cap.
func (o Options) maxHeight() int {
	h := o.SuggestedQuality.Height()
	if o.Height > 0 && (h == 0 || o.Height < h) {
		h = o.Height
	}
	return h
}
