// Package player streams a single track's audio from the stream gateway
// and plays it through the system speaker.
package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/podwheel/podwheel/internal/playback"
	"github.com/rs/zerolog/log"
)

const (
	SpeakerBufferSize   = time.Millisecond * 250
	NetworkReadSize     = 4096
	ReadTimeout         = 5 * time.Second
	VolumeCurveExponent = 0.5
	MinVolumeDB         = -10.0
)

// Relies on context cancellation to clean up the spawned read goroutine.
type contextReader struct {
	reader  io.Reader
	ctx     context.Context
	timeout time.Duration
}

func (cr *contextReader) Read(p []byte) (n int, err error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
	}

	timer := time.NewTimer(cr.timeout)
	defer timer.Stop()

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)

	go func() {
		n, err := cr.reader.Read(p)
		select {
		case done <- result{n, err}:
		case <-cr.ctx.Done():
		}
	}()

	select {
	case res := <-done:
		return res.n, res.err
	case <-timer.C:
		return 0, fmt.Errorf("read timeout: no data received for %v", cr.timeout)
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	}
}

// bufferedReadCloser buffers the network body for the decoder while closing
// the underlying response body.
type bufferedReadCloser struct {
	*bufio.Reader
	closer io.Closer
}

func (b *bufferedReadCloser) Close() error { return b.closer.Close() }

// countingStreamer counts samples pulled through it. Sitting below the
// pause control, it only advances while audio actually plays, which makes
// the count double as the track's elapsed position.
type countingStreamer struct {
	streamer beep.Streamer
	played   *int64
}

func (c *countingStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = c.streamer.Stream(samples)
	atomic.AddInt64(c.played, int64(n))
	return n, ok
}

func (c *countingStreamer) Err() error { return c.streamer.Err() }

// Player fetches an MP3 rendition of a track from the stream gateway,
// decodes it and plays it through the speaker. It implements
// playback.Player; lifecycle events are delivered via the OnEvent callback
// from the streaming goroutine, so the callback must hand them to the UI
// event loop itself.
type Player struct {
	gateway string
	client  *http.Client

	mu            sync.Mutex
	wg            sync.WaitGroup
	cancel        context.CancelFunc
	ctrl          *beep.Ctrl
	volume        *effects.Volume
	sampleRate    beep.SampleRate
	speakerInit   bool
	ready         bool
	playing       bool
	pendingPlay   bool
	videoID       string
	volumePercent int
	onEvent       func(playback.Event)
	events        chan playback.Event

	samplesPlayed int64 // atomic
}

// New creates a Player fetching tracks via the gateway URL template
// (a format string with one %s for the video id).
func New(gateway string) *Player {
	client := &http.Client{
		Timeout: 0, // No overall timeout, tracks can be long
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			DisableCompression:    true,
		},
	}

	p := &Player{
		gateway:       gateway,
		client:        client,
		volumePercent: 70,
		events:        make(chan playback.Event, 16),
	}
	go p.forwardEvents()
	return p
}

func (p *Player) forwardEvents() {
	for e := range p.events {
		p.mu.Lock()
		fn := p.onEvent
		p.mu.Unlock()

		if fn != nil {
			fn(e)
		}
	}
}

// OnEvent registers the lifecycle event callback.
func (p *Player) OnEvent(fn func(playback.Event)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEvent = fn
}

// emit never blocks the streaming goroutine: events queue through a
// buffered channel drained by the forwarder.
func (p *Player) emit(e playback.Event) {
	select {
	case p.events <- e:
	default:
		log.Warn().Stringer("event", e).Msg("Event queue full, dropping")
	}
}

// Ready reports whether a track is decoded and accepting transport calls.
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// CurrentTime returns the elapsed playback position of the current track.
func (p *Player) CurrentTime() time.Duration {
	p.mu.Lock()
	sr := p.sampleRate
	p.mu.Unlock()

	if sr == 0 {
		return 0
	}
	return sr.D(int(atomic.LoadInt64(&p.samplesPlayed)))
}

// Load replaces the current track with the given video's stream. The track
// loads paused; EventReady fires once it is decoded and Play may start it.
func (p *Player) Load(videoID string) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.ready = false
	p.playing = false
	p.ctrl = nil
	p.volume = nil
	p.videoID = videoID

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	clear := p.speakerInit
	p.mu.Unlock()

	if clear {
		speaker.Clear()
	}
	p.wg.Wait()

	p.wg.Add(1)
	go p.stream(ctx, videoID)
}

func (p *Player) stream(ctx context.Context, videoID string) {
	defer p.wg.Done()

	url := fmt.Sprintf(p.gateway, videoID)
	log.Debug().Str("url", url).Msg("Connecting to stream gateway")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create stream request")
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Failed to fetch track stream")
		}
		return
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		log.Error().Int("status", resp.StatusCode).Str("id", videoID).Msg("Stream gateway refused track")
		return
	}

	body := &bufferedReadCloser{
		Reader: bufio.NewReaderSize(&contextReader{reader: resp.Body, ctx: ctx, timeout: ReadTimeout}, NetworkReadSize),
		closer: resp.Body,
	}

	streamer, format, err := mp3.Decode(body)
	if err != nil {
		body.Close()
		log.Error().Err(err).Msg("Failed to decode MP3 stream")
		return
	}

	if err := p.initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		log.Error().Err(err).Msg("Failed to initialize audio output")
		return
	}

	p.mu.Lock()
	atomic.StoreInt64(&p.samplesPlayed, 0)
	p.sampleRate = format.SampleRate
	counted := &countingStreamer{streamer: streamer, played: &p.samplesPlayed}
	p.volume = &effects.Volume{
		Streamer: counted,
		Base:     2,
		Volume:   percentToExponent(float64(p.volumePercent)),
		Silent:   p.volumePercent == 0,
	}
	p.ctrl = &beep.Ctrl{Streamer: p.volume, Paused: true}
	p.ready = true
	ctrl := p.ctrl
	start := p.pendingPlay
	p.pendingPlay = false
	p.mu.Unlock()

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		streamer.Close()
		if ctx.Err() == nil {
			p.emit(playback.EventEnded)
		}
	})))

	log.Debug().Str("id", videoID).Int("rate", int(format.SampleRate)).Msg("Track decoded")
	p.emit(playback.EventReady)

	if start {
		p.Play()
	}
}

func (p *Player) initSpeaker(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.speakerInit || sampleRate != p.sampleRate {
		if err := speaker.Init(sampleRate, sampleRate.N(SpeakerBufferSize)); err != nil {
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		p.speakerInit = true
		log.Debug().Msgf("Speaker initialized with sample rate: %d Hz, buffer: %v", sampleRate, SpeakerBufferSize)
	}
	return nil
}

// Play starts or resumes the loaded track. Called before the track is
// ready, playback starts as soon as it is.
func (p *Player) Play() {
	p.mu.Lock()
	if p.ctrl == nil {
		p.pendingPlay = true
		p.mu.Unlock()
		return
	}
	ctrl := p.ctrl
	p.playing = true
	p.mu.Unlock()

	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()

	p.emit(playback.EventPlaying)
}

// Pause halts the loaded track, keeping its position.
func (p *Player) Pause() {
	p.mu.Lock()
	if p.ctrl == nil {
		p.pendingPlay = false
		p.mu.Unlock()
		return
	}
	ctrl := p.ctrl
	p.playing = false
	p.mu.Unlock()

	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()

	p.emit(playback.EventPaused)
}

// Seek restarts the current track. The gateway stream is not seekable, so
// only position zero is honored; other positions are ignored.
func (p *Player) Seek(pos time.Duration) {
	if pos != 0 {
		log.Debug().Dur("pos", pos).Msg("Seek beyond track start not supported, ignoring")
		return
	}

	p.mu.Lock()
	id := p.videoID
	resume := p.playing || p.pendingPlay
	p.mu.Unlock()

	if id == "" {
		return
	}
	p.Load(id)

	if resume {
		p.mu.Lock()
		p.pendingPlay = true
		p.mu.Unlock()
	}
}

// SetVolume applies the given volume percentage, persisting it across
// track loads.
func (p *Player) SetVolume(volumePercent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volumePercent = volumePercent

	if p.volume == nil {
		log.Debug().Msgf("Volume stored as %d%% (will be applied when playback starts)", volumePercent)
		return
	}

	volumeLevel := percentToExponent(float64(volumePercent))

	speaker.Lock()
	p.volume.Volume = volumeLevel
	p.volume.Silent = volumePercent == 0
	speaker.Unlock()

	log.Debug().Msgf("Volume set to %d%% (%.2f dB)", volumePercent, volumeLevel)
}

// Stop tears down the current stream and silences the speaker.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.ready = false
	p.playing = false
	p.pendingPlay = false
	p.ctrl = nil
	p.volume = nil
	clear := p.speakerInit
	p.mu.Unlock()

	if clear {
		speaker.Clear()
	}
	p.wg.Wait()

	log.Debug().Msg("Playback stopped")
}

func percentToExponent(p float64) float64 {
	if p <= 0 {
		return MinVolumeDB
	}
	if p >= 100 {
		return 0
	}

	normalized := p / 100.0
	adjusted := math.Pow(normalized, VolumeCurveExponent)
	return (1.0 - adjusted) * MinVolumeDB
}
