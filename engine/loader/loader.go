package loader

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-theater/common"
)

// DecodeFunc reads and decodes one image file into CPU-side pixels.
type DecodeFunc func(path string) (*common.TextureStagingData, error)

// Loader decodes image assets on background workers.
// Results come back as Pending values that the frame thread polls once per frame.
type Loader interface {
	// LoadTexture starts decoding a 2D texture. Repeated calls for the same path share one decode
	// but each get their own Pending, so every caller sees the result once through Poll.
	//
	// Parameters:
	//   - path: the image file to decode
	//
	// Returns:
	//   - *Pending[*common.TextureStagingData]: completes with the decoded pixels or an error
	LoadTexture(path string) *Pending[*common.TextureStagingData]

	// LoadCubeTexture starts decoding six cube faces in +X, -X, +Y, -Y, +Z, -Z order.
	// The faces must be square and share one size.
	//
	// Parameters:
	//   - paths: the six face image files
	//
	// Returns:
	//   - *Pending[*common.CubeTextureStagingData]: completes with the cube map or an error
	LoadCubeTexture(paths [common.CubeFaceCount]string) *Pending[*common.CubeTextureStagingData]

	// Workers returns the maximum number of concurrent decode workers.
	//
	// Returns:
	//   - int: the worker count
	Workers() int

	submit(name string, fn func())
}

type loaderImpl struct {
	mu *sync.Mutex

	workers   int
	queueSize int
	idle      time.Duration
	decode    DecodeFunc

	pool    worker.DynamicWorkerPool
	nextID  atomic.Int64
	texture map[string]*textureJob
}

var _ Loader = &loaderImpl{}

// NewLoader creates a Loader backed by a dynamic worker pool.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loaderImpl{
		mu:        &sync.Mutex{},
		workers:   2,
		queueSize: 64,
		idle:      1 * time.Second,
		decode:    common.DecodeImageFile,
		texture:   make(map[string]*textureJob),
	}
	for _, opt := range options {
		opt(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, l.idle)
	return l
}

func (l *loaderImpl) Workers() int {
	return l.workers
}

func (l *loaderImpl) submit(name string, fn func()) {
	l.pool.SubmitTask(worker.Task{
		ID:      int(l.nextID.Add(1)),
		Payload: name,
		Do: func() (any, error) {
			fn()
			return nil, nil
		},
	})
}

func (l *loaderImpl) LoadTexture(path string) *Pending[*common.TextureStagingData] {
	p := newPending[*common.TextureStagingData](path)

	l.mu.Lock()
	job, ok := l.texture[path]
	if !ok {
		job = &textureJob{}
		l.texture[path] = job
	}
	l.mu.Unlock()

	job.subscribe(p)
	if ok {
		return p
	}

	l.submit("texture", func() {
		tex, err := l.decode(path)
		if err != nil {
			log.Printf("[Loader] texture %s failed: %v", path, err)
			job.finish(nil, fmt.Errorf("failed to load texture %s: %w", path, err))
			return
		}
		log.Printf("[Loader] texture %s loaded (%dx%d)", path, tex.Width, tex.Height)
		job.finish(tex, nil)
	})
	return p
}

// textureJob is one decode shared by every LoadTexture call for a path.
// Each caller holds its own Pending, so every caller gets one Poll delivery.
type textureJob struct {
	mu      sync.Mutex
	done    bool
	result  Result[*common.TextureStagingData]
	waiters []*Pending[*common.TextureStagingData]
}

func (j *textureJob) subscribe(p *Pending[*common.TextureStagingData]) {
	j.mu.Lock()
	if !j.done {
		j.waiters = append(j.waiters, p)
		j.mu.Unlock()
		return
	}
	res := j.result
	j.mu.Unlock()
	p.complete(res.Value, res.Err)
}

func (j *textureJob) finish(tex *common.TextureStagingData, err error) {
	j.mu.Lock()
	j.done = true
	j.result = Result[*common.TextureStagingData]{Value: tex, Err: err}
	waiters := j.waiters
	j.waiters = nil
	j.mu.Unlock()

	for _, p := range waiters {
		p.complete(tex, err)
	}
}

func (l *loaderImpl) LoadCubeTexture(paths [common.CubeFaceCount]string) *Pending[*common.CubeTextureStagingData] {
	p := newPending[*common.CubeTextureStagingData](paths[common.CubeFacePositiveX])
	l.submit("cube", func() {
		cube := &common.CubeTextureStagingData{}
		for i, path := range paths {
			face, err := l.decode(path)
			if err != nil {
				log.Printf("[Loader] cube face %d (%s) failed: %v", i, path, err)
				p.complete(nil, fmt.Errorf("failed to load cube face %s: %w", path, err))
				return
			}
			cube.Faces[i] = face
		}
		size, err := cube.Size()
		if err != nil {
			log.Printf("[Loader] cube map rejected: %v", err)
			p.complete(nil, err)
			return
		}
		log.Printf("[Loader] cube map loaded (%dx%d per face)", size, size)
		p.complete(cube, nil)
	})
	return p
}

// Submit runs fn on the loader's workers and returns its outcome as a Pending.
//
// Parameters:
//   - l: the loader whose workers run fn
//   - name: a label for logs and task IDs
//   - fn: the work to run
//
// Returns:
//   - *Pending[T]: completes with fn's result
func Submit[T any](l Loader, name string, fn func() (T, error)) *Pending[T] {
	p := newPending[T](name)
	l.submit(name, func() {
		v, err := fn()
		if err != nil {
			log.Printf("[Loader] %s failed: %v", name, err)
		}
		p.complete(v, err)
	})
	return p
}
