package video

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDecoder struct {
	mu      sync.Mutex
	frames  int
	read    int
	rewinds int
	closed  bool
	width   int
	height  int
}

func (d *fakeDecoder) FrameRate() float64 { return 200 }

func (d *fakeDecoder) Size() (int, int) { return d.width, d.height }

func (d *fakeDecoder) NextFrame() (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.read >= d.frames {
		return nil, io.EOF
	}
	d.read++
	return image.NewRGBA(image.Rect(0, 0, d.width, d.height)), nil
}

func (d *fakeDecoder) Audio() (beep.Streamer, beep.SampleRate) {
	return beep.Silence(-1), SpeakerSampleRate
}

func (d *fakeDecoder) Rewind() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.read = 0
	d.rewinds++
	return nil
}

func (d *fakeDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDecoder) snapshot() (read, rewinds int, closed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read, d.rewinds, d.closed
}

type fakeHost struct {
	mounted map[string]common.FrameSource
	err     error
}

func (h *fakeHost) Mount(id string, src common.FrameSource) error {
	if h.err != nil {
		return h.err
	}
	if h.mounted == nil {
		h.mounted = map[string]common.FrameSource{}
	}
	h.mounted[id] = src
	return nil
}

func waitFired(t *testing.T, s *common.Signal) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("signal did not fire")
	}
}

func readyAPI(t *testing.T, dec *fakeDecoder) API {
	t.Helper()
	api := LoadAPI(context.Background(), WithAudio(false), WithOpener(func(string) (Decoder, error) {
		return dec, nil
	}))
	waitFired(t, api.Ready())
	return api
}

func readyPlayer(t *testing.T, dec *fakeDecoder, opts Options) (Player, *fakeHost) {
	t.Helper()
	host := &fakeHost{}
	if opts.VideoID == "" {
		opts.VideoID = "clip.mp4"
	}
	p, err := NewPlayer(readyAPI(t, dec), host, "iframe", opts)
	require.NoError(t, err)
	waitFired(t, p.Ready())
	t.Cleanup(func() { _ = p.Close() })
	return p, host
}

func TestLoadAPIFiresReadyOnce(t *testing.T) {
	api := LoadAPI(context.Background(), WithAudio(false))
	waitFired(t, api.Ready())
	assert.NoError(t, api.Err())
	assert.False(t, api.Ready().Fire())
}

func TestLoadAPIFailureLeavesReadyUnfired(t *testing.T) {
	cause := errors.New("no codecs")
	api := LoadAPI(context.Background(), WithAudio(false), WithBootstrap(func(context.Context) error {
		return cause
	}))

	require.Eventually(t, func() bool { return api.Err() != nil }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, api.Err(), cause)
	assert.False(t, api.Ready().Fired())
}

func TestLoadAPICancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := LoadAPI(ctx, WithAudio(false))

	require.Eventually(t, func() bool { return api.Err() != nil }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, api.Err(), context.Canceled)
	assert.False(t, api.Ready().Fired())
}

func TestNewPlayerRequiresReadyAPI(t *testing.T) {
	api := LoadAPI(context.Background(), WithAudio(false), WithBootstrap(func(context.Context) error {
		return errors.New("down")
	}))
	_, err := NewPlayer(api, &fakeHost{}, "iframe", Options{VideoID: "clip.mp4"})
	assert.ErrorIs(t, err, ErrAPINotReady)

	_, err = NewPlayer(nil, &fakeHost{}, "iframe", Options{VideoID: "clip.mp4"})
	assert.ErrorIs(t, err, ErrAPINotReady)
}

func TestNewPlayerMountsAndBecomesCued(t *testing.T) {
	var readyCalls int
	var states []State
	opts := Options{Events: Events{
		OnReady:       func(Player) { readyCalls++ },
		OnStateChange: func(_ Player, s State) { states = append(states, s) },
	}}
	p, host := readyPlayer(t, &fakeDecoder{frames: 10, width: 8, height: 4}, opts)

	assert.Same(t, p, host.mounted["iframe"])
	assert.Equal(t, StateCued, p.PlayerState())
	assert.Equal(t, "iframe", p.ID())
	assert.Equal(t, QualityDefault, p.Options().SuggestedQuality)

	assert.Equal(t, 2, p.Poll())
	assert.Equal(t, 1, readyCalls)
	assert.Equal(t, []State{StateCued}, states)
	assert.Zero(t, p.Poll())
}

func TestNewPlayerMountFailure(t *testing.T) {
	api := readyAPI(t, &fakeDecoder{})
	_, err := NewPlayer(api, &fakeHost{err: errors.New("no element")}, "iframe", Options{VideoID: "clip.mp4"})
	assert.Error(t, err)

	_, err = NewPlayer(api, &fakeHost{}, "iframe", Options{})
	assert.Error(t, err)
}

func TestPlayPauseAndFrames(t *testing.T) {
	dec := &fakeDecoder{frames: 1000, width: 8, height: 4}
	p, _ := readyPlayer(t, dec, Options{})
	assert.Nil(t, p.Frame())

	require.NoError(t, p.PlayVideo())
	assert.Equal(t, StatePlaying, p.PlayerState())
	require.Eventually(t, func() bool { return p.Frame() != nil }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, p.PauseVideo())
	assert.Equal(t, StatePaused, p.PlayerState())
	time.Sleep(20 * time.Millisecond)
	read, _, _ := dec.snapshot()
	time.Sleep(30 * time.Millisecond)
	after, _, _ := dec.snapshot()
	assert.Equal(t, read, after, "no decoding while paused")
}

func TestEndedWithoutLoop(t *testing.T) {
	dec := &fakeDecoder{frames: 2, width: 4, height: 4}
	p, _ := readyPlayer(t, dec, Options{})

	require.NoError(t, p.PlayVideo())
	require.Eventually(t, func() bool { return p.PlayerState() == StateEnded }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, p.PlayVideo())
	_, rewinds, _ := dec.snapshot()
	assert.Equal(t, 1, rewinds)
	assert.Equal(t, StatePlaying, p.PlayerState())
}

func TestLoopRewinds(t *testing.T) {
	dec := &fakeDecoder{frames: 2, width: 4, height: 4}
	p, _ := readyPlayer(t, dec, Options{Loop: true})

	require.NoError(t, p.PlayVideo())
	require.Eventually(t, func() bool {
		_, rewinds, _ := dec.snapshot()
		return rewinds >= 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, StatePlaying, p.PlayerState())
}

func TestAutoplay(t *testing.T) {
	p, _ := readyPlayer(t, &fakeDecoder{frames: 1000, width: 4, height: 4}, Options{Autoplay: true})
	require.Eventually(t, func() bool { return p.PlayerState() == StatePlaying }, 2*time.Second, 5*time.Millisecond)
}

func TestHandleKey(t *testing.T) {
	p, _ := readyPlayer(t, &fakeDecoder{frames: 1000, width: 4, height: 4}, Options{FS: true})

	assert.True(t, p.HandleKey(common.KeySpace))
	assert.Equal(t, StatePlaying, p.PlayerState())
	assert.True(t, p.HandleKey(common.KeyK))
	assert.Equal(t, StatePaused, p.PlayerState())

	assert.True(t, p.HandleKey(common.KeyF))
	assert.True(t, p.Fullscreen())
	assert.True(t, p.HandleKey(common.KeyM))
	assert.True(t, p.Muted())
	assert.False(t, p.HandleKey(common.KeyT))
}

func TestHandleKeyDisabled(t *testing.T) {
	p, _ := readyPlayer(t, &fakeDecoder{frames: 10, width: 4, height: 4}, Options{DisableKB: true, FS: true})
	assert.False(t, p.HandleKey(common.KeySpace))
	assert.False(t, p.HandleKey(common.KeyF))
	assert.Equal(t, StateCued, p.PlayerState())
}

func TestHandleKeyFullscreenNeedsFS(t *testing.T) {
	p, _ := readyPlayer(t, &fakeDecoder{frames: 10, width: 4, height: 4}, Options{})
	assert.False(t, p.HandleKey(common.KeyF))
	assert.False(t, p.Fullscreen())
}

func TestCommandsBeforeReadyAndAfterClose(t *testing.T) {
	gate := make(chan struct{})
	dec := &fakeDecoder{frames: 10, width: 4, height: 4}
	api := LoadAPI(context.Background(), WithAudio(false), WithOpener(func(string) (Decoder, error) {
		<-gate
		return dec, nil
	}))
	waitFired(t, api.Ready())

	p, err := NewPlayer(api, nil, "iframe", Options{VideoID: "clip.mp4"})
	require.NoError(t, err)
	assert.ErrorIs(t, p.PlayVideo(), ErrPlayerNotReady)
	assert.ErrorIs(t, p.PauseVideo(), ErrPlayerNotReady)
	assert.Equal(t, StateUnstarted, p.PlayerState())

	close(gate)
	waitFired(t, p.Ready())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.PlayVideo(), ErrPlayerClosed)
	_, _, closed := dec.snapshot()
	assert.True(t, closed)
}

func TestOpenFailure(t *testing.T) {
	cause := errors.New("missing file")
	api := LoadAPI(context.Background(), WithAudio(false), WithOpener(func(string) (Decoder, error) {
		return nil, cause
	}))
	waitFired(t, api.Ready())

	p, err := NewPlayer(api, nil, "iframe", Options{VideoID: "missing.mp4"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return p.Err() != nil }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, p.Err(), cause)
	assert.False(t, p.Ready().Fired())
	assert.NoError(t, p.Close())
}

func TestScaleFrame(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))

	out := scaleFrame(src, 0, QualityHD720.Height())
	assert.Equal(t, 1280, out.Bounds().Dx())
	assert.Equal(t, 720, out.Bounds().Dy())

	out = scaleFrame(src, 960, 0)
	assert.Equal(t, 960, out.Bounds().Dx())
	assert.Equal(t, 540, out.Bounds().Dy())

	assert.Same(t, src, scaleFrame(src, 0, QualityHighdef.Height()))
	assert.Nil(t, scaleFrame(nil, 10, 10))
}

func TestParseQualityAndState(t *testing.T) {
	q, err := ParseQuality("HD1080")
	require.NoError(t, err)
	assert.Equal(t, QualityHD1080, q)
	assert.Equal(t, 1080, q.Height())

	q, err = ParseQuality("")
	require.NoError(t, err)
	assert.Equal(t, QualityDefault, q)

	_, err = ParseQuality("4k")
	assert.ErrorIs(t, err, ErrInvalidQuality)

	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, 5, int(StateCued))
	assert.Equal(t, -1, int(StateUnstarted))
	assert.Equal(t, common.PlayerStatePaused, StatePaused)
}

func TestDefaultOptionsMaxHeight(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 2160, o.maxHeight())
	o.SuggestedQuality = QualityMedium
	assert.Equal(t, 360, o.maxHeight())
	o.Height = 200
	assert.Equal(t, 200, o.maxHeight())
}
