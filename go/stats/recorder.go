package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/uluyol/fastsample/go/bench"
	"github.com/uluyol/fastsample/go/printsum"
	"gonum.org/v1/gonum/stat"
)

// Elapsed times are tracked in microseconds, up to one hour.
const (
	histLowestUs  = 1
	histHighestUs = 3_600_000_000
	histSigFigs   = 3
)

type series struct {
	hist *hdrhistogram.Histogram
	mops []float64
}

// Recorder collects benchmark results across repetitions.
//
// If out is non-nil, every result is also written to it as a JSON line.
type Recorder struct {
	out io.WriteCloser
	err error

	labels []string
	series map[string]*series
}

func NewRecorder(out io.WriteCloser) *Recorder {
	return &Recorder{out: out, series: make(map[string]*series)}
}

// RunInfo identifies a benchmark invocation in the results file.
type RunInfo struct {
	RunID   string `json:"runId"`
	Command string `json:"command"`
	Start   string `json:"start"`
}

type resultRecord struct {
	Label      string  `json:"label"`
	N          uint32  `json:"n"`
	Sum        uint64  `json:"sum"`
	ElapsedNs  int64   `json:"elapsedNs"`
	Millis     int64   `json:"ms"`
	MSamplesPS float64 `json:"mSamplesPerSec"`
}

// WriteRunInfo writes info as the first line of the results file.
func (r *Recorder) WriteRunInfo(info RunInfo) error {
	if r.out == nil {
		return nil
	}
	return writeJSONLine(r.out, info)
}

func (r *Recorder) Observe(res bench.Result) error {
	s, ok := r.series[res.Label]
	if !ok {
		s = &series{hist: hdrhistogram.New(histLowestUs, histHighestUs, histSigFigs)}
		r.series[res.Label] = s
		r.labels = append(r.labels, res.Label)
	}
	if err := s.hist.RecordValue(res.Elapsed.Microseconds()); err != nil {
		return fmt.Errorf("elapsed time %v out of range: %w", res.Elapsed, err)
	}
	s.mops = append(s.mops, res.Throughput())

	if r.out == nil {
		return nil
	}
	err := writeJSONLine(r.out, resultRecord{
		Label:      res.Label,
		N:          res.N,
		Sum:        res.Sum,
		ElapsedNs:  res.Elapsed.Nanoseconds(),
		Millis:     res.Millis(),
		MSamplesPS: res.Throughput(),
	})
	if err != nil && r.err == nil {
		r.err = err
	}
	return err
}

var _ bench.Observer = new(Recorder)

// Summary describes all repetitions recorded for one label.
type Summary struct {
	Label      string
	Reps       int
	MeanMops   float64
	StdDevMops float64
	P50        time.Duration
	P99        time.Duration
	Max        time.Duration
}

// Summaries returns one Summary per label, in the order labels were first
// observed.
func (r *Recorder) Summaries() []Summary {
	sums := make([]Summary, 0, len(r.labels))
	for _, label := range r.labels {
		s := r.series[label]
		mean, std := stat.MeanStdDev(s.mops, nil)
		if len(s.mops) < 2 {
			std = 0
		}
		sums = append(sums, Summary{
			Label:      label,
			Reps:       len(s.mops),
			MeanMops:   mean,
			StdDevMops: std,
			P50:        time.Duration(s.hist.ValueAtPercentile(50)) * time.Microsecond,
			P99:        time.Duration(s.hist.ValueAtPercentile(99)) * time.Microsecond,
			Max:        time.Duration(s.hist.Max()) * time.Microsecond,
		})
	}
	return sums
}

// PrintSummaries writes a human-readable block per label.
func (r *Recorder) PrintSummaries(w io.Writer) {
	for _, s := range r.Summaries() {
		printsum.Fprint(w, s.Label+" summary:", []printsum.KV{
			{Key: "reps", Verb: "%d", Val: s.Reps},
			{Key: "mean", Verb: "%.2f M samples/sec", Val: s.MeanMops},
			{Key: "stddev", Verb: "%.2f M samples/sec", Val: s.StdDevMops},
			{Key: "p50", Verb: "%v", Val: s.P50},
			{Key: "p99", Verb: "%v", Val: s.P99},
			{Key: "max", Verb: "%v", Val: s.Max},
		})
	}
}

func (r *Recorder) Close() error {
	if r.out == nil {
		return nil
	}
	err := r.out.Close()
	if r.err != nil {
		err = r.err
	}
	return err
}

func writeJSONLine(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
