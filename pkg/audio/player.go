// Package audio implements the sound side of alarm firing with an oto-backed
// WAV player. Playback loops until stopped, the way an alarm should.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"
)

// The hardware context is process-wide and initialized once, with the format
// of the first sound played.
var (
	audioCtx     *oto.Context
	audioCtxOnce sync.Once
	audioCtxOK   bool
)

// Manager implements the controller's Sounder contract. All methods are
// best-effort and non-blocking; failures are logged, never returned.
type Manager struct {
	defaultSound string
	log          zerolog.Logger

	mu        sync.Mutex
	current   *looper
	vibrating bool
}

// NewManager creates a manager that falls back to defaultSound whenever an
// alarm's own sound file is missing or unreadable.
func NewManager(defaultSound string, log zerolog.Logger) *Manager {
	return &Manager{
		defaultSound: defaultSound,
		log:          log.With().Str("component", "audio").Logger(),
	}
}

// PlayAlarmSound stops any current playback and starts looping soundRef.
func (m *Manager) PlayAlarmSound(soundRef string) {
	m.StopAlarmSound()

	if soundRef == "" {
		soundRef = m.defaultSound
	}
	data, err := os.ReadFile(soundRef)
	if err != nil && soundRef != m.defaultSound {
		m.log.Warn().Err(err).Str("sound", soundRef).Msg("sound file unreadable, using default")
		soundRef = m.defaultSound
		data, err = os.ReadFile(soundRef)
	}
	if err != nil {
		m.log.Error().Err(err).Str("sound", soundRef).Msg("no playable sound file")
		return
	}

	lp, err := startLoop(data)
	if err != nil {
		m.log.Error().Err(err).Str("sound", soundRef).Msg("could not start playback")
		return
	}

	m.mu.Lock()
	m.current = lp
	m.mu.Unlock()
	m.log.Debug().Str("sound", soundRef).Msg("alarm sound playing")
}

// StopAlarmSound stops playback. Safe to call when nothing is playing.
func (m *Manager) StopAlarmSound() {
	m.mu.Lock()
	lp := m.current
	m.current = nil
	m.mu.Unlock()

	if lp != nil {
		lp.stop()
		m.log.Debug().Msg("alarm sound stopped")
	}
}

// StartVibration is a logged no-op: there is no vibration hardware to drive
// on desktop platforms.
func (m *Manager) StartVibration() {
	m.mu.Lock()
	m.vibrating = true
	m.mu.Unlock()
	m.log.Debug().Msg("vibration requested (unsupported on this platform)")
}

// StopVibration pairs with StartVibration.
func (m *Manager) StopVibration() {
	m.mu.Lock()
	active := m.vibrating
	m.vibrating = false
	m.mu.Unlock()
	if active {
		m.log.Debug().Msg("vibration stopped")
	}
}

// looper plays one decoded WAV in a loop until told to stop.
type looper struct {
	stopChan chan struct{}
	once     sync.Once
}

func startLoop(wavData []byte) (*looper, error) {
	format, samples, err := decodeWAV(wavData)
	if err != nil {
		return nil, err
	}

	initContext(format)
	if !audioCtxOK || audioCtx == nil {
		return nil, errors.New("audio context unavailable")
	}

	lp := &looper{stopChan: make(chan struct{})}
	go lp.run(samples)
	return lp, nil
}

func (lp *looper) run(samples []byte) {
	for {
		player := audioCtx.NewPlayer(bytes.NewReader(samples))
		player.Play()

		for player.IsPlaying() {
			select {
			case <-lp.stopChan:
				player.Pause()
				player.Close()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
		player.Close()

		select {
		case <-lp.stopChan:
			return
		default:
		}
	}
}

func (lp *looper) stop() {
	lp.once.Do(func() {
		close(lp.stopChan)
	})
}

func initContext(format wavFormat) {
	audioCtxOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   format.sampleRate,
			ChannelCount: format.channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return
		}
		<-ready
		audioCtx = ctx
		audioCtxOK = true
	})
}

type wavFormat struct {
	sampleRate int
	channels   int
	bitDepth   int
}

// decodeWAV extracts the format and raw sample data from a RIFF/WAVE file.
func decodeWAV(data []byte) (wavFormat, []byte, error) {
	r := bytes.NewReader(data)

	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return wavFormat{}, nil, errors.New("not a WAV file: truncated header")
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return wavFormat{}, nil, errors.New("not a WAV file: bad RIFF header")
	}

	var format wavFormat
	haveFormat := false

	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return wavFormat{}, nil, errors.New("WAV file has no data chunk")
			}
			return wavFormat{}, nil, err
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			var fmtChunk struct {
				AudioFormat   uint16
				Channels      uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(r, binary.LittleEndian, &fmtChunk); err != nil {
				return wavFormat{}, nil, err
			}
			format = wavFormat{
				sampleRate: int(fmtChunk.SampleRate),
				channels:   int(fmtChunk.Channels),
				bitDepth:   int(fmtChunk.BitsPerSample),
			}
			haveFormat = true
			if extra := int64(chunk.Size) - 16; extra > 0 {
				if _, err := r.Seek(extra, io.SeekCurrent); err != nil {
					return wavFormat{}, nil, err
				}
			}
		case "data":
			if !haveFormat {
				return wavFormat{}, nil, errors.New("WAV data chunk precedes fmt chunk")
			}
			samples := make([]byte, chunk.Size)
			if _, err := io.ReadFull(r, samples); err != nil {
				return wavFormat{}, nil, errors.New("WAV data chunk truncated")
			}
			return format, samples, nil
		default:
			if _, err := r.Seek(int64(chunk.Size), io.SeekCurrent); err != nil {
				return wavFormat{}, nil, err
			}
		}
	}
}
