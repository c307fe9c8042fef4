// Package soundtrack loops an audio file under the overlay.
package soundtrack

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/overlay-it/internal/logging"
)

// ErrUnsupported reports a file type no decoder is registered for.
var ErrUnsupported = errors.New("unsupported audio file")

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }, nil
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }, nil
	case ".flac":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
}

// Track is a soundtrack playing on the speaker until Close.
type Track struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	log      *slog.Logger
}

// Play decodes path and loops it forever.
func Play(path string, log *slog.Logger) (*Track, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("soundtrack: decode %s: %w", path, err)
	}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, fmt.Errorf("soundtrack: speaker: %w", err)
	}

	t := &Track{
		file:     f,
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: beep.Loop(-1, streamer)},
		log:      logging.OrNop(log),
	}
	speaker.Play(t.ctrl)
	t.log.Info("soundtrack playing", "path", path, "sample_rate", int(format.SampleRate))
	return t, nil
}

// SetPaused pauses or resumes playback.
func (t *Track) SetPaused(paused bool) {
	speaker.Lock()
	t.ctrl.Paused = paused
	speaker.Unlock()
}

// Close stops playback and releases the file.
func (t *Track) Close() error {
	speaker.Clear()
	streamErr := t.streamer.Close()
	// Decoders usually close the file along with the stream.
	fileErr := t.file.Close()
	if errors.Is(fileErr, os.ErrClosed) {
		fileErr = nil
	}
	err := errors.Join(streamErr, fileErr)
	t.log.Debug("soundtrack stopped", "err", err)
	return err
}
