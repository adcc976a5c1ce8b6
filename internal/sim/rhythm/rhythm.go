// Package rhythm scores timing challenges: a pointer sweeps a track while
// the player taps near scheduled targets.
package rhythm

import (
	"errors"
	"math"
	"time"

	"magictrail.dev/internal/sim/tuning"
)

var (
	ErrNoSegments     = errors.New("challenge has no segments")
	ErrNotActive      = errors.New("challenge is not active")
	ErrAlreadyStarted = errors.New("challenge already started")
	ErrBadGeometry    = errors.New("invalid track geometry")
)

type Class string

const (
	ClassNone    Class = ""
	ClassPerfect Class = "perfect"
	ClassGood    Class = "good"
	ClassMiss    Class = "miss"
)

type State int

const (
	StateIdle State = iota
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

type PointRule struct {
	Base        int
	ComboFactor float64
}

type Geometry struct {
	TrackLength     float64
	PerfectRadius   float64
	GoodRadius      float64
	SegmentDuration time.Duration
	Grace           time.Duration
	Perfect         PointRule
	Good            PointRule
}

func GeometryFrom(g tuning.Geometry) Geometry {
	return Geometry{
		TrackLength:     g.TrackLength,
		PerfectRadius:   g.PerfectRadius,
		GoodRadius:      g.GoodRadius,
		SegmentDuration: time.Duration(g.SegmentMs) * time.Millisecond,
		Grace:           time.Duration(g.GraceMs) * time.Millisecond,
		Perfect:         PointRule{Base: g.PerfectPoints, ComboFactor: g.PerfectComboFactor},
		Good:            PointRule{Base: g.GoodPoints, ComboFactor: g.GoodComboFactor},
	}
}

type Segment struct {
	Start   time.Duration
	Targets []float64
}

type HitResult struct {
	Class    Class
	Distance float64
	Points   int
	Combo    int
	Score    int
}

type Result struct {
	Score    int
	MaxCombo int
	Perfect  int
	Good     int
	Misses   int
	Accuracy float64
	Grade    string
}

// Scorer runs one challenge. It is driven by elapsed time since Start and
// is not safe for concurrent use.
type Scorer struct {
	geo    Geometry
	segs   []Segment
	grades tuning.Grades

	state    State
	seg      int
	resolved []bool
	elapsed  time.Duration
	pointer  float64

	score    int
	combo    int
	maxCombo int
	perfect  int
	good     int
	misses   int
}

func New(geo Geometry, segs []Segment, grades tuning.Grades) (*Scorer, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	if geo.TrackLength <= 0 || geo.SegmentDuration <= 0 || geo.PerfectRadius < 0 || geo.GoodRadius < geo.PerfectRadius {
		return nil, ErrBadGeometry
	}
	grades.Thresholds = tuning.SortedThresholds(grades.Thresholds)
	return &Scorer{
		geo:    geo,
		segs:   append([]Segment(nil), segs...),
		grades: grades,
	}, nil
}

func (s *Scorer) Start() error {
	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	s.state = StateActive
	s.seg = 0
	s.resolved = make([]bool, len(s.segs[0].Targets))
	s.pointer = 0
	return nil
}

// Advance moves the pointer to elapsed and applies segment transitions,
// end-of-track misses and termination. Time never runs backwards.
func (s *Scorer) Advance(elapsed time.Duration) State {
	if s.state != StateActive {
		return s.state
	}
	if elapsed < s.elapsed {
		elapsed = s.elapsed
	}
	s.elapsed = elapsed

	for s.seg+1 < len(s.segs) && elapsed >= s.segs[s.seg+1].Start {
		s.settle()
		s.seg++
		s.resolved = make([]bool, len(s.segs[s.seg].Targets))
	}

	s.pointer = s.pointerAt(elapsed)
	if s.pointer >= s.geo.TrackLength {
		s.settle()
	}

	last := s.segs[len(s.segs)-1].Start
	if elapsed >= last+s.geo.Grace {
		s.settle()
		s.state = StateFinished
	}
	return s.state
}

func (s *Scorer) pointerAt(elapsed time.Duration) float64 {
	into := elapsed - s.segs[s.seg].Start
	if into < 0 {
		into = 0
	}
	p := float64(into) / float64(s.geo.SegmentDuration) * s.geo.TrackLength
	return math.Min(p, s.geo.TrackLength)
}

// settle counts every unresolved target in the current segment as missed.
func (s *Scorer) settle() {
	for i, done := range s.resolved {
		if done {
			continue
		}
		s.resolved[i] = true
		s.misses++
		s.combo = 0
	}
}

// Hit registers a player tap at elapsed.
func (s *Scorer) Hit(elapsed time.Duration) (HitResult, error) {
	if s.state != StateActive {
		return HitResult{}, ErrNotActive
	}
	if s.Advance(elapsed) != StateActive {
		return HitResult{}, ErrNotActive
	}

	idx, dist := s.nearest()
	if idx < 0 {
		return HitResult{Class: ClassNone, Combo: s.combo, Score: s.score}, nil
	}

	res := HitResult{Class: Classify(dist, s.geo.PerfectRadius, s.geo.GoodRadius), Distance: dist}
	switch res.Class {
	case ClassPerfect, ClassGood:
		res.Points = Points(res.Class, s.combo, s.geo)
		s.score += res.Points
		s.combo++
		s.maxCombo = max(s.maxCombo, s.combo)
		s.resolved[idx] = true
		if res.Class == ClassPerfect {
			s.perfect++
		} else {
			s.good++
		}
	default:
		s.misses++
		s.combo = 0
	}
	res.Combo = s.combo
	res.Score = s.score
	return res, nil
}

func (s *Scorer) nearest() (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, t := range s.segs[s.seg].Targets {
		if s.resolved[i] {
			continue
		}
		if d := math.Abs(t - s.pointer); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func (s *Scorer) State() State      { return s.state }
func (s *Scorer) Pointer() float64  { return s.pointer }
func (s *Scorer) Combo() int        { return s.combo }
func (s *Scorer) Score() int        { return s.score }
func (s *Scorer) SegmentIndex() int { return s.seg }

// Targets lists the current segment's targets that are still open.
func (s *Scorer) Targets() []float64 {
	if s.state != StateActive {
		return nil
	}
	var out []float64
	for i, t := range s.segs[s.seg].Targets {
		if !s.resolved[i] {
			out = append(out, t)
		}
	}
	return out
}

func (s *Scorer) Result() Result {
	acc := Accuracy(s.perfect, s.good, s.misses)
	return Result{
		Score:    s.score,
		MaxCombo: s.maxCombo,
		Perfect:  s.perfect,
		Good:     s.good,
		Misses:   s.misses,
		Accuracy: acc,
		Grade:    GradeFor(acc, s.grades),
	}
}

func Classify(distance, perfectRadius, goodRadius float64) Class {
	switch {
	case distance <= perfectRadius:
		return ClassPerfect
	case distance <= goodRadius:
		return ClassGood
	default:
		return ClassMiss
	}
}

// Points is the floored award for a hit made while combo hits were already
// chained.
func Points(class Class, combo int, geo Geometry) int {
	var rule PointRule
	switch class {
	case ClassPerfect:
		rule = geo.Perfect
	case ClassGood:
		rule = geo.Good
	default:
		return 0
	}
	v := float64(rule.Base) * (1 + float64(combo)*rule.ComboFactor)
	return int(math.Floor(v + 1e-9))
}

// Accuracy is a percentage; zero attempts score zero.
func Accuracy(perfect, good, misses int) float64 {
	total := perfect + good + misses
	if total == 0 {
		return 0
	}
	return float64(perfect*100+good*50) / float64(total*100) * 100
}

// GradeFor expects thresholds sorted from highest to lowest.
func GradeFor(accuracy float64, g tuning.Grades) string {
	for _, t := range g.Thresholds {
		if accuracy >= t.MinAccuracy {
			return t.Grade
		}
	}
	return g.Bottom
}
