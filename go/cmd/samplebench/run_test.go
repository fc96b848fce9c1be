package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uluyol/fastsample/go/bench"
	"github.com/uluyol/fastsample/go/sampling"
)

func TestRunSuiteWritesResults(t *testing.T) {
	suite := bench.Suite{
		Reps: 2,
		N:    1000,
		Cases: []bench.Case{
			{Label: "mod16", Predicate: sampling.Mod(16)},
			{Label: "float", Predicate: sampling.Float(0.03456)},
		},
	}
	outPath := filepath.Join(t.TempDir(), "results.json")

	var report bytes.Buffer
	if err := runSuite(suite, outPath, &report); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"mod16: \n", "  res: 991 time=", "float: \n", "  res: 510 time=", "mod16 summary:\n"} {
		if !strings.Contains(report.String(), want) {
			t.Errorf("report missing %q:\n%s", want, report.String())
		}
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want header + 4 results", len(lines))
	}
	if id, _ := lines[0]["runId"].(string); len(id) != 36 {
		t.Errorf("bad run id %q", id)
	}
	sums := []float64{991, 991, 510, 510}
	for i, want := range sums {
		if got := lines[i+1]["sum"]; got != want {
			t.Errorf("result %d: sum = %v, want %v", i, got, want)
		}
	}
}

func TestRunCmdSuiteOverrides(t *testing.T) {
	c := runCmd{reps: 3, n: 500}
	suite, err := c.suite()
	if err != nil {
		t.Fatal(err)
	}
	if suite.Reps != 3 || len(suite.Cases) != 6 {
		t.Errorf("reps = %d, cases = %d", suite.Reps, len(suite.Cases))
	}
	for _, cs := range suite.Cases {
		if n := suite.CaseN(cs); n != 500 {
			t.Errorf("%s: n = %d", cs.Label, n)
		}
	}

	if _, err := (&runCmd{n: 1 << 33}).suite(); err == nil {
		t.Errorf("accepted n beyond uint32")
	}
	if _, err := (&runCmd{reps: -1}).suite(); err == nil {
		t.Errorf("accepted negative reps")
	}
}

func TestRunCmdLoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	data := "numIndices: 160\ncases:\n- label: custom\n  predicate: {kind: hash, prob: 0.5}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	suite, err := (&runCmd{configPath: path}).suite()
	if err != nil {
		t.Fatal(err)
	}
	if len(suite.Cases) != 1 || suite.Cases[0].Predicate != sampling.Hash(0.5) || suite.N != 160 {
		t.Errorf("got suite %+v", suite)
	}
}

var errDiskFull = errors.New("disk full")

// failingWriter fails every write after the first ok writes.
type failingWriter struct {
	ok int
}

func (w *failingWriter) Write(b []byte) (int, error) {
	if w.ok <= 0 {
		return 0, errDiskFull
	}
	w.ok--
	return len(b), nil
}

func TestRunSuiteFailureKeepsPreviousResults(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "results.json")
	const previous = "previous good results\n"
	if err := os.WriteFile(outPath, []byte(previous), 0o644); err != nil {
		t.Fatal(err)
	}

	suite := bench.Suite{
		Reps:  2,
		N:     1000,
		Cases: []bench.Case{{Label: "mod16", Predicate: sampling.Mod(16)}},
	}
	err := runSuite(suite, outPath, &failingWriter{ok: 2})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("got error %v, want %v", err, errDiskFull)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != previous {
		t.Errorf("results file was replaced: got %q", got)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 {
		var names []string
		for _, e := range ents {
			names = append(names, e.Name())
		}
		t.Errorf("temporary files left behind: %v", names)
	}
}

func TestRunSuiteResultsFileMode(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "results.json")
	suite := bench.Suite{
		Reps:  1,
		N:     100,
		Cases: []bench.Case{{Predicate: sampling.PowerOfTwo(2)}},
	}
	if err := runSuite(suite, outPath, new(bytes.Buffer)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("results file mode = %v, want %v", perm, os.FileMode(0o644))
	}
}
