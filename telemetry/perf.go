package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/glowtree/renderer"
)

// Phase names for the simulation half of a frame. Draw phases use the
// renderer pass names.
const (
	PhaseFlight = "flight"
	PhaseGifts  = "gifts_sim"
	PhaseSnow   = "snow_sim"
)

// Phases lists every phase in frame order.
var Phases = append([]string{PhaseSnow, PhaseFlight, PhaseGifts}, renderer.Passes...)

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timing over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
	frames        int64
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and begins timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.frames++
}

// Frames returns the number of frames recorded since creation.
func (p *PerfCollector) Frames() int64 {
	return p.frames
}

// WindowFull reports whether the current window has just been filled,
// i.e. a whole window of new frames has been recorded.
func (p *PerfCollector) WindowFull() bool {
	return p.frames > 0 && p.frames%int64(p.windowSize) == 0
}

// PerfStats holds aggregated frame statistics.
type PerfStats struct {
	Frames int

	AvgFrame    time.Duration
	StdDevFrame time.Duration
	P95Frame    time.Duration
	MaxFrame    time.Duration

	// Phase breakdown (average durations and share of frame time)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// FPS is the throughput implied by AvgFrame.
	FPS float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	durations := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		durations[i] = float64(s.FrameDuration)
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	mean, std := stat.MeanStdDev(durations, nil)
	if p.sampleCount < 2 {
		std = 0
	}
	slices.Sort(durations)
	p95 := stat.Quantile(0.95, stat.Empirical, durations, nil)

	avg := time.Duration(mean)
	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var fps float64
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		Frames:      p.sampleCount,
		AvgFrame:    avg,
		StdDevFrame: time.Duration(std),
		P95Frame:    time.Duration(p95),
		MaxFrame:    time.Duration(durations[len(durations)-1]),
		PhaseAvg:    phaseAvg,
		PhasePct:    phasePct,
		FPS:         fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"frames", s.Frames,
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"stddev_frame_us", s.StdDevFrame.Microseconds(),
		"p95_frame_us", s.P95Frame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"fps", int(s.FPS),
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("p95_frame_us", s.P95Frame.Microseconds()),
		slog.Float64("fps", s.FPS),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgFrameUS     int64   `csv:"avg_frame_us"`
	StdDevFrameUS  int64   `csv:"stddev_frame_us"`
	P95FrameUS     int64   `csv:"p95_frame_us"`
	MaxFrameUS     int64   `csv:"max_frame_us"`
	FPS            float64 `csv:"fps"`
	FlightPct      float64 `csv:"flight_pct"`
	GiftsSimPct    float64 `csv:"gifts_sim_pct"`
	SnowSimPct     float64 `csv:"snow_sim_pct"`
	BackdropPct    float64 `csv:"backdrop_pct"`
	SnowPct        float64 `csv:"snow_pct"`
	TreePct        float64 `csv:"tree_pct"`
	GiftsPct       float64 `csv:"gifts_pct"`
	SleighPct      float64 `csv:"sleigh_pct"`
	PointerGlowPct float64 `csv:"pointer_glow_pct"`
	VignettePct    float64 `csv:"vignette_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgFrameUS:     s.AvgFrame.Microseconds(),
		StdDevFrameUS:  s.StdDevFrame.Microseconds(),
		P95FrameUS:     s.P95Frame.Microseconds(),
		MaxFrameUS:     s.MaxFrame.Microseconds(),
		FPS:            s.FPS,
		FlightPct:      s.PhasePct[PhaseFlight],
		GiftsSimPct:    s.PhasePct[PhaseGifts],
		SnowSimPct:     s.PhasePct[PhaseSnow],
		BackdropPct:    s.PhasePct[renderer.PassBackdrop],
		SnowPct:        s.PhasePct[renderer.PassSnow],
		TreePct:        s.PhasePct[renderer.PassTree],
		GiftsPct:       s.PhasePct[renderer.PassGifts],
		SleighPct:      s.PhasePct[renderer.PassSleigh],
		PointerGlowPct: s.PhasePct[renderer.PassPointer],
		VignettePct:    s.PhasePct[renderer.PassVignette],
	}
}
