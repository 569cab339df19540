package video

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/cogentcore/reisen"
	"github.com/faiface/beep"
)

// Decoder streams decoded frames and audio from one media source.
type Decoder interface {
	// FrameRate returns the video frame rate in frames per second.
	//
	// Returns:
	//   - float64: the frame rate
	FrameRate() float64

	// Size returns the native frame size.
	//
	// Returns:
	//   - int: the frame width
	//   - int: the frame height
	Size() (int, int)

	// NextFrame decodes the next video frame.
	//
	// Returns:
	//   - *image.RGBA: a newly allocated frame
	//   - error: io.EOF at the end of the stream
	NextFrame() (*image.RGBA, error)

	// Audio returns the audio track as a streamer.
	//
	// Returns:
	//   - beep.Streamer: the audio, or nil when the source has none
	//   - beep.SampleRate: the streamer's sample rate
	Audio() (beep.Streamer, beep.SampleRate)

	// Rewind seeks back to the start of the stream.
	//
	// Returns:
	//   - error: an error if seeking failed
	Rewind() error

	// Close releases the decoder.
	//
	// Returns:
	//   - error: an error if closing failed
	Close() error
}

// OpenFunc opens a Decoder for a media source.
type OpenFunc func(source string) (Decoder, error)

const sampleBufferSize = 32 * 1024

type reisenDecoder struct {
	media   *reisen.Media
	video   *reisen.VideoStream
	audio   *reisen.AudioStream
	samples chan [2]float64
	fps     float64
}

var _ Decoder = &reisenDecoder{}

// OpenReisen opens a media file or URL with ffmpeg through reisen.
//
// Parameters:
//   - source: the media path or URL
//
// Returns:
//   - Decoder: the opened decoder
//   - error: an error if the media has no video stream or could not be opened
func OpenReisen(source string) (Decoder, error) {
	media, err := reisen.NewMedia(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open media %s: %w", source, err)
	}
	if err := media.OpenDecode(); err != nil {
		media.Close()
		return nil, fmt.Errorf("failed to start decoding %s: %w", source, err)
	}

	d := &reisenDecoder{media: media}
	videos := media.VideoStreams()
	if len(videos) == 0 {
		d.Close()
		return nil, fmt.Errorf("media %s has no video stream", source)
	}
	d.video = videos[0]
	if err := d.video.Open(); err != nil {
		d.video = nil
		d.Close()
		return nil, fmt.Errorf("failed to open video stream: %w", err)
	}
	num, den := d.video.FrameRate()
	if num > 0 && den > 0 {
		d.fps = float64(num) / float64(den)
	}

	if audios := media.AudioStreams(); len(audios) > 0 {
		if err := audios[0].Open(); err == nil {
			d.audio = audios[0]
			d.samples = make(chan [2]float64, sampleBufferSize)
		}
	}
	return d, nil
}

func (d *reisenDecoder) FrameRate() float64 {
	return d.fps
}

func (d *reisenDecoder) Size() (int, int) {
	return d.video.Width(), d.video.Height()
}

func (d *reisenDecoder) NextFrame() (*image.RGBA, error) {
	for {
		packet, ok, err := d.media.ReadPacket()
		if err != nil {
			return nil, fmt.Errorf("failed to read packet: %w", err)
		}
		if !ok {
			return nil, io.EOF
		}

		switch {
		case packet.StreamIndex() == d.video.Index():
			frame, got, err := d.video.ReadVideoFrame()
			if err != nil {
				return nil, fmt.Errorf("failed to decode video frame: %w", err)
			}
			if !got || frame == nil {
				continue
			}
			return frame.Image(), nil

		case d.audio != nil && packet.StreamIndex() == d.audio.Index():
			frame, got, err := d.audio.ReadAudioFrame()
			if err != nil || !got || frame == nil {
				continue
			}
			d.queueSamples(frame.Data())
		}
	}
}

// queueSamples splits interleaved little-endian float64 stereo data into samples.
// Samples are dropped while the buffer is full.
func (d *reisenDecoder) queueSamples(data []byte) {
	reader := bytes.NewReader(data)
	for reader.Len() >= 16 {
		var sample [2]float64
		if err := binary.Read(reader, binary.LittleEndian, &sample); err != nil {
			return
		}
		select {
		case d.samples <- sample:
		default:
		}
	}
}

func (d *reisenDecoder) Audio() (beep.Streamer, beep.SampleRate) {
	if d.audio == nil {
		return nil, 0
	}
	return sampleStreamer(d.samples), beep.SampleRate(d.audio.SampleRate())
}

func (d *reisenDecoder) Rewind() error {
	if err := d.video.Rewind(0); err != nil {
		return fmt.Errorf("failed to rewind: %w", err)
	}
	if d.samples != nil {
		for len(d.samples) > 0 {
			<-d.samples
		}
	}
	return nil
}

func (d *reisenDecoder) Close() error {
	var errs []error
	if d.video != nil {
		errs = append(errs, d.video.Close())
	}
	if d.audio != nil {
		errs = append(errs, d.audio.Close())
	}
	errs = append(errs, d.media.CloseDecode())
	d.media.Close()
	return errors.Join(errs...)
}

// sampleStreamer plays samples from src and fills gaps with silence so the speaker never drains.
func sampleStreamer(src <-chan [2]float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			select {
			case s, ok := <-src:
				if !ok {
					return i, false
				}
				samples[i] = s
			default:
				samples[i] = [2]float64{}
			}
		}
		return len(samples), true
	})
}
