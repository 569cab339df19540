package video

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-theater/common"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// SpeakerSampleRate is the output rate the speaker is initialized with.
const SpeakerSampleRate beep.SampleRate = 44100

// BootstrapFunc prepares the playback backend. It runs once on a background worker.
type BootstrapFunc func(ctx context.Context) error

// audioSink is where player audio is mixed. The speaker is the real one.
type audioSink interface {
	Play(s beep.Streamer)
	Lock()
	Unlock()
	SampleRate() beep.SampleRate
}

// API is the loaded playback backend. Players can only be created once Ready has fired.
type API interface {
	// Ready returns the single-fire signal closed once the backend is usable.
	// It never fires if bootstrapping fails.
	//
	// Returns:
	//   - *common.Signal: the readiness signal
	Ready() *common.Signal

	// Err returns the bootstrap error, or nil while loading or after success.
	//
	// Returns:
	//   - error: the bootstrap error
	Err() error

	submit(name string, fn func())
	sink() audioSink
	opener() OpenFunc
}

type apiImpl struct {
	mu *sync.Mutex

	ready *common.Signal
	err   error

	audio      bool
	sampleRate beep.SampleRate
	bootstrap  BootstrapFunc
	open       OpenFunc
	speaker    audioSink

	pool   worker.DynamicWorkerPool
	nextID atomic.Int64
}

var _ API = &apiImpl{}

// LoadAPI starts bootstrapping the playback backend in the background and returns immediately.
// Ready fires when the speaker is initialized and the optional bootstrap step has succeeded.
//
// Parameters:
//   - ctx: cancels a bootstrap that has not completed; readiness then never fires
//   - options: functional options to configure the API
//
// Returns:
//   - API: the loading API
func LoadAPI(ctx context.Context, options ...APIBuilderOption) API {
	a := &apiImpl{
		mu:         &sync.Mutex{},
		ready:      common.NewSignal(),
		audio:      true,
		sampleRate: SpeakerSampleRate,
		open:       OpenReisen,
	}
	for _, opt := range options {
		opt(a)
	}
	a.pool = worker.NewDynamicWorkerPool(2, 16, 5*time.Second)

	log.Println("[Video] loading api")
	a.submit("bootstrap", func() {
		if err := a.load(ctx); err != nil {
			log.Printf("[Video] api failed to load: %v", err)
			a.mu.Lock()
			a.err = err
			a.mu.Unlock()
			return
		}
		a.ready.Fire()
		log.Println("[Video] api is ready")
	})
	return a
}

func (a *apiImpl) load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.bootstrap != nil {
		if err := a.bootstrap(ctx); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
	}
	if a.audio {
		if err := speaker.Init(a.sampleRate, a.sampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		a.mu.Lock()
		a.speaker = speakerSink{rate: a.sampleRate}
		a.mu.Unlock()
	}
	return ctx.Err()
}

func (a *apiImpl) Ready() *common.Signal {
	return a.ready
}

func (a *apiImpl) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *apiImpl) submit(name string, fn func()) {
	a.pool.SubmitTask(worker.Task{
		ID:      int(a.nextID.Add(1)),
		Payload: "video-" + name,
		Do: func() (any, error) {
			fn()
			return nil, nil
		},
	})
}

func (a *apiImpl) sink() audioSink {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speaker
}

func (a *apiImpl) opener() OpenFunc {
	return a.open
}

type speakerSink struct {
	rate beep.SampleRate
}

func (s speakerSink) Play(st beep.Streamer) { speaker.Play(st) }

func (s speakerSink) Lock() { speaker.Lock() }

func (s speakerSink) Unlock() { speaker.Unlock() }

func (s speakerSink) SampleRate() beep.SampleRate { return s.rate }
