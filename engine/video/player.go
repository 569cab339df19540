package video

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/anthonynsimon/bild/transform"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

var (
	// ErrAPINotReady is returned by NewPlayer before the API's readiness signal fired.
	ErrAPINotReady = errors.New("video api not ready")
	// ErrPlayerNotReady is returned by playback commands before the source has been opened.
	ErrPlayerNotReady = errors.New("player not ready")
	// ErrPlayerClosed is returned by playback commands after Close.
	ErrPlayerClosed = errors.New("player closed")
)

const defaultFrameRate = 30

// Host mounts a player's frames onto a named surface.
type Host interface {
	Mount(id string, src common.FrameSource) error
}

// Player plays one media source onto an overlay surface.
// Commands may be issued from any goroutine. Events are delivered from Poll.
type Player interface {
	common.FrameSource

	// ID returns the element id the player is mounted on.
	//
	// Returns:
	//   - string: the element id
	ID() string

	// Options returns the options the player was created with.
	//
	// Returns:
	//   - Options: the player options
	Options() Options

	// Ready returns the single-fire signal closed when the source has been opened.
	//
	// Returns:
	//   - *common.Signal: the readiness signal
	Ready() *common.Signal

	// PlayerState returns the current playback state.
	//
	// Returns:
	//   - State: the playback state
	PlayerState() State

	// PlayVideo starts or resumes playback. An ended video restarts from the beginning.
	//
	// Returns:
	//   - error: ErrPlayerNotReady or ErrPlayerClosed
	PlayVideo() error

	// PauseVideo pauses playback.
	//
	// Returns:
	//   - error: ErrPlayerNotReady or ErrPlayerClosed
	PauseVideo() error

	// HandleKey applies keyboard controls: space and K toggle playback, M toggles mute and
	// F toggles fullscreen when enabled. Nothing is handled while keyboard controls are disabled.
	//
	// Parameters:
	//   - keyCode: the pressed key
	//
	// Returns:
	//   - bool: true if the key was handled
	HandleKey(keyCode uint32) bool

	// Fullscreen reports whether fullscreen was toggled on.
	//
	// Returns:
	//   - bool: true while fullscreen
	Fullscreen() bool

	// Muted reports whether audio is muted.
	//
	// Returns:
	//   - bool: true while muted
	Muted() bool

	// Poll delivers queued events on the calling goroutine.
	//
	// Returns:
	//   - int: the number of events delivered
	Poll() int

	// Err returns the error that stopped the player, if any.
	//
	// Returns:
	//   - error: the open or decode error
	Err() error

	// Close stops playback and releases the decoder. It is safe to call more than once.
	//
	// Returns:
	//   - error: an error if the decoder failed to close
	Close() error
}

type playerEvent struct {
	ready bool
	state State
}

type playerImpl struct {
	mu *sync.Mutex

	api  API
	id   string
	opts Options

	ready   *common.Signal
	state   State
	frame   *image.RGBA
	decoder Decoder
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	err     error

	fullscreen bool
	events     []playerEvent

	closed bool
	stop   chan struct{}
	done   chan struct{}
}

var _ Player = &playerImpl{}

// NewPlayer creates a player for elementID, mounts it on host and starts opening the source in the background.
// When the source opens, the player becomes Cued, its Ready signal fires and, with Autoplay, playback starts.
//
// Parameters:
//   - api: the loaded API
//   - host: where the player's frames are mounted
//   - elementID: the surface to mount on
//   - opts: the player options
//
// Returns:
//   - Player: the new player
//   - error: ErrAPINotReady, or an error if the options are invalid or mounting failed
func NewPlayer(api API, host Host, elementID string, opts Options) (Player, error) {
	if api == nil || !api.Ready().Fired() {
		return nil, ErrAPINotReady
	}
	if opts.VideoID == "" {
		return nil, errors.New("player needs a video id")
	}
	if opts.SuggestedQuality == "" {
		opts.SuggestedQuality = QualityDefault
	}

	p := &playerImpl{
		mu:    &sync.Mutex{},
		api:   api,
		id:    elementID,
		opts:  opts,
		ready: common.NewSignal(),
		state: StateUnstarted,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	if host != nil {
		if err := host.Mount(elementID, p); err != nil {
			return nil, fmt.Errorf("failed to mount player: %w", err)
		}
	}
	api.submit("open", p.open)
	return p, nil
}

func (p *playerImpl) open() {
	dec, err := p.api.opener()(p.opts.VideoID)
	if err != nil {
		log.Printf("[Video] %s: %v", p.id, err)
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = dec.Close()
		close(p.done)
		return
	}
	p.decoder = dec
	p.attachAudio(dec)
	p.setStateLocked(StateCued)
	p.events = append(p.events, playerEvent{ready: true})
	p.mu.Unlock()

	w, h := dec.Size()
	log.Printf("[Video] %s ready (%dx%d @ %.2f fps)", p.id, w, h, dec.FrameRate())
	p.ready.Fire()
	go p.run(dec)

	if p.opts.Autoplay {
		_ = p.PlayVideo()
	}
}

// attachAudio routes the decoder's audio through a paused Ctrl into the speaker.
// Caller must hold the mutex.
func (p *playerImpl) attachAudio(dec Decoder) {
	st, rate := dec.Audio()
	if st == nil {
		return
	}
	sink := p.api.sink()
	if sink != nil && rate > 0 && rate != sink.SampleRate() {
		st = beep.Resample(4, rate, sink.SampleRate(), st)
	}
	p.ctrl = &beep.Ctrl{Streamer: st, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	if sink != nil {
		sink.Play(p.volume)
	}
}

// withAudio mutates the audio graph under the speaker lock. It does nothing for silent sources.
func (p *playerImpl) withAudio(fn func(ctrl *beep.Ctrl, volume *effects.Volume)) bool {
	p.mu.Lock()
	ctrl, volume := p.ctrl, p.volume
	p.mu.Unlock()
	if ctrl == nil {
		return false
	}
	if sink := p.api.sink(); sink != nil {
		sink.Lock()
		defer sink.Unlock()
	}
	fn(ctrl, volume)
	return true
}

func pauseAudio(ctrl *beep.Ctrl, _ *effects.Volume) { ctrl.Paused = true }

func resumeAudio(ctrl *beep.Ctrl, _ *effects.Volume) { ctrl.Paused = false }

// run decodes frames at the stream's frame rate while playing.
func (p *playerImpl) run(dec Decoder) {
	defer close(p.done)

	fps := dec.FrameRate()
	if fps <= 0 {
		fps = defaultFrameRate
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}
		if p.PlayerState() != StatePlaying {
			continue
		}

		frame, err := dec.NextFrame()
		switch {
		case errors.Is(err, io.EOF):
			p.endOfStream(dec)
		case err != nil:
			log.Printf("[Video] %s: %v", p.id, err)
			p.mu.Lock()
			p.err = err
			p.setStateLocked(StateEnded)
			p.mu.Unlock()
			p.withAudio(pauseAudio)
		default:
			frame = scaleFrame(frame, p.opts.Width, p.opts.maxHeight())
			p.mu.Lock()
			p.frame = frame
			p.mu.Unlock()
		}
	}
}

func (p *playerImpl) endOfStream(dec Decoder) {
	if p.opts.Loop {
		err := dec.Rewind()
		if err == nil {
			return
		}
		log.Printf("[Video] %s: %v", p.id, err)
	}
	p.mu.Lock()
	p.setStateLocked(StateEnded)
	p.mu.Unlock()
	p.withAudio(pauseAudio)
}

// scaleFrame shrinks a frame to fit maxWidth x maxHeight, keeping its aspect ratio. Zero disables a bound.
func scaleFrame(frame *image.RGBA, maxWidth, maxHeight int) *image.RGBA {
	if frame == nil {
		return nil
	}
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
	if w == 0 || h == 0 {
		return frame
	}
	scale := 1.0
	if maxHeight > 0 && h > maxHeight {
		scale = float64(maxHeight) / float64(h)
	}
	if maxWidth > 0 && float64(w)*scale > float64(maxWidth) {
		scale = float64(maxWidth) / float64(w)
	}
	if scale >= 1 {
		return frame
	}
	return transform.Resize(frame, max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale)), transform.Linear)
}

// setStateLocked records a transition and queues its event. Caller must hold the mutex.
func (p *playerImpl) setStateLocked(s State) {
	if p.state == s {
		return
	}
	p.state = s
	p.events = append(p.events, playerEvent{state: s})
}

// commandLocked checks that the player accepts commands. Caller must hold the mutex.
func (p *playerImpl) commandLocked() error {
	if p.closed {
		return ErrPlayerClosed
	}
	if p.decoder == nil {
		return ErrPlayerNotReady
	}
	return nil
}

func (p *playerImpl) ID() string {
	return p.id
}

func (p *playerImpl) Options() Options {
	return p.opts
}

func (p *playerImpl) Ready() *common.Signal {
	return p.ready
}

func (p *playerImpl) Frame() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

func (p *playerImpl) PlayerState() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *playerImpl) PlayVideo() error {
	p.mu.Lock()
	if err := p.commandLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	if p.state == StateEnded {
		if err := p.decoder.Rewind(); err != nil {
			p.mu.Unlock()
			return err
		}
	}
	p.setStateLocked(StatePlaying)
	p.mu.Unlock()

	p.withAudio(resumeAudio)
	return nil
}

func (p *playerImpl) PauseVideo() error {
	p.mu.Lock()
	if err := p.commandLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	if p.state == StatePlaying || p.state == StateBuffering {
		p.setStateLocked(StatePaused)
	}
	p.mu.Unlock()

	p.withAudio(pauseAudio)
	return nil
}

func (p *playerImpl) HandleKey(keyCode uint32) bool {
	if p.opts.DisableKB {
		return false
	}
	switch keyCode {
	case common.KeySpace, common.KeyK:
		if p.PlayerState() == StatePlaying {
			return p.PauseVideo() == nil
		}
		return p.PlayVideo() == nil
	case common.KeyM:
		return p.withAudio(func(_ *beep.Ctrl, volume *effects.Volume) { volume.Silent = !volume.Silent })
	case common.KeyF:
		if !p.opts.FS {
			return false
		}
		p.mu.Lock()
		p.fullscreen = !p.fullscreen
		on := p.fullscreen
		p.mu.Unlock()
		log.Printf("[Video] %s fullscreen %t", p.id, on)
		return true
	}
	return false
}

func (p *playerImpl) Fullscreen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fullscreen
}

func (p *playerImpl) Muted() bool {
	muted := false
	p.withAudio(func(_ *beep.Ctrl, volume *effects.Volume) { muted = volume.Silent })
	return muted
}

func (p *playerImpl) Poll() int {
	p.mu.Lock()
	events := p.events
	p.events = nil
	p.mu.Unlock()

	for _, e := range events {
		if e.ready {
			if p.opts.Events.OnReady != nil {
				p.opts.Events.OnReady(p)
			}
			continue
		}
		if p.opts.Events.OnStateChange != nil {
			p.opts.Events.OnStateChange(p, e.state)
		}
	}
	return len(events)
}

func (p *playerImpl) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *playerImpl) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	dec := p.decoder
	p.mu.Unlock()

	close(p.stop)
	p.withAudio(pauseAudio)
	if dec == nil {
		// The open task has not finished or failed; it notices closed and releases what it opened.
		return nil
	}
	<-p.done
	if err := dec.Close(); err != nil {
		return fmt.Errorf("failed to close decoder: %w", err)
	}
	return nil
}
