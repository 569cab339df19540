package loader

import "time"

// LoaderBuilderOption is a functional option for configuring a Loader.
// Use the With* functions to create options.
type LoaderBuilderOption func(*loaderImpl)

// WithWorkers sets the maximum number of concurrent decode workers.
//
// Parameters:
//   - n: the worker count, ignored when below 1
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if n >= 1 {
			l.workers = n
		}
	}
}

// WithQueueSize sets the task queue capacity.
//
// Parameters:
//   - n: the queue capacity, ignored when below 1
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if n >= 1 {
			l.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle worker waits before exiting.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithIdleTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if d > 0 {
			l.idle = d
		}
	}
}

// WithDecoder replaces the image file decoder.
//
// Parameters:
//   - decode: the decoder to use
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithDecoder(decode DecodeFunc) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if decode != nil {
			l.decode = decode
		}
	}
}
