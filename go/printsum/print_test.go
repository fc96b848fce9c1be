package printsum

import (
	"bytes"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/go-cmp/cmp"
)

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, "mod:16 summary:", []KV{
		{Key: "reps", Verb: "%d", Val: 3},
		{Key: "mean", Verb: "%.2f M samples/sec", Val: 412.345},
	})
	want := "mod:16 summary:\n\treps = 3\n\tmean = 412.35 M samples/sec\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("diff (-want +got):\n%s", diff)
	}
}

func TestBitmapString(t *testing.T) {
	b := roaring.BitmapOf(0, 4, 8, 9)
	got := BitmapString(b, 10, 4)
	want := "" +
		"       0 1___\n" +
		"       4 1___\n" +
		"       8 11\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff (-want +got):\n%s", diff)
	}
}

func TestBitmapStringSingleLine(t *testing.T) {
	got := BitmapString(roaring.BitmapOf(1, 2), 4, 0)
	if want := "       0 _11_\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := BitmapString(roaring.New(), 0, 8); got != "" {
		t.Errorf("empty range: got %q", got)
	}
}
