// Package speech announces what the vehicle does through espeak-ng.
package speech

import (
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

type Voice struct {
	Name     string
	Volume   int // 0-200
	WordGap  int // 10ms units
	Rate     int // words per minute
	Program  string
	Disabled bool
}

var DefaultVoice = Voice{
	Name:    "mb-us1",
	Volume:  200,
	WordGap: 5,
	Rate:    150,
	Program: "espeak-ng",
}

// Speaker never queues: an utterance is dropped while another one is
// playing or when it repeats the previous one, so a control loop can
// announce its state on every tick without stuttering.
type Speaker struct {
	synth    func(text string) error
	playing  atomic.Bool
	lastText string
	wg       sync.WaitGroup
}

func New(voice Voice) *Speaker {
	if voice.Disabled {
		return NewWithSynth(func(text string) error {
			log.WithField("text", text).Info("Say")
			return nil
		})
	}
	return NewWithSynth(func(text string) error {
		cmd := exec.Command(voice.Program,
			"-v", voice.Name,
			"-a", strconv.Itoa(voice.Volume),
			"-g", strconv.Itoa(voice.WordGap),
			"-s", strconv.Itoa(voice.Rate),
			text,
		)
		return cmd.Run()
	})
}

func NewWithSynth(synth func(text string) error) *Speaker {
	return &Speaker{synth: synth}
}

// Say returns immediately.
func (s *Speaker) Say(text string) {
	if text == s.lastText {
		return
	}
	if !s.playing.CompareAndSwap(false, true) {
		log.WithField("text", text).Debug("Speaker busy, dropping utterance")
		return
	}
	s.lastText = text
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.playing.Store(false)
		if err := s.synth(text); err != nil {
			log.WithError(err).WithField("text", text).Warn("Could not synthesize speech")
		}
	}()
}

// Wait blocks until the current utterance has finished.
func (s *Speaker) Wait() {
	s.wg.Wait()
}
