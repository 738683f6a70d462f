package audio

import (
	"bytes"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

var (
	speakerOnce  sync.Once
	speakerReady bool
	quiet        bool
	verbose      bool
	logFunc      func(string, ...interface{})
)

// Init configures the audio package
func Init(quietMode, verboseMode bool, logger func(string, ...interface{})) {
	quiet = quietMode
	verbose = verboseMode
	logFunc = logger
}

func log(format string, args ...interface{}) {
	if logFunc != nil && verbose {
		logFunc(format, args...)
	}
}

func ensureSpeakerInitialized(format beep.Format) {
	speakerOnce.Do(func() {
		log("Setting up audio...")
		speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		speakerReady = true
	})
}

// DecodeSound decodes WAV sound data into a streamer
func DecodeSound(soundData []byte) (beep.StreamSeekCloser, beep.Format, error) {
	if len(soundData) == 0 {
		log("Couldn't play sound (no data)")
		return nil, beep.Format{}, nil
	}

	streamer, format, err := wav.Decode(bytes.NewReader(soundData))
	if err != nil {
		log("Sound file couldn't be decoded: %v", err)
		return nil, beep.Format{}, err
	}

	return streamer, format, nil
}

// Play plays a sound synchronously (blocks until complete)
func Play(soundData []byte) {
	if quiet {
		return
	}

	streamer, format, err := DecodeSound(soundData)
	if err != nil || streamer == nil {
		return
	}
	defer streamer.Close()

	ensureSpeakerInitialized(format)

	done := make(chan bool)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		done <- true
	})))

	log("Playing sound...")
	<-done
	log("Sound finished")
}

// PlayAsync plays a sound without blocking
func PlayAsync(soundData []byte) {
	if quiet {
		return
	}

	streamer, format, err := DecodeSound(soundData)
	if err != nil || streamer == nil {
		return
	}

	ensureSpeakerInitialized(format)

	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		streamer.Close()
	})))

	log("Started background sound...")
}

// StopAll stops all currently playing sounds
func StopAll() {
	if !speakerReady {
		return
	}
	speaker.Clear()
}

// Bank maps sound names to WAV data so callers can play cues by name.
type Bank struct {
	sounds map[string][]byte
}

// NewBank creates a sound bank from named WAV data
func NewBank(sounds map[string][]byte) *Bank {
	return &Bank{sounds: sounds}
}

// Play plays a named sound synchronously
func (b *Bank) Play(name string) {
	Play(b.sounds[name])
}

// PlayAsync plays a named sound without blocking
func (b *Bank) PlayAsync(name string) {
	PlayAsync(b.sounds[name])
}
