package printsum

import (
	"fmt"
	"io"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

type KV struct {
	Key  string
	Verb string
	Val  interface{}
}

// Fprint writes header followed by one indented "key = value" line per kv.
func Fprint(w io.Writer, header string, kvs []KV) {
	args := make([]interface{}, len(kvs))
	var fmtstring strings.Builder
	fmtstring.WriteString(header)
	fmtstring.WriteString("\n")
	for i, kv := range kvs {
		fmtstring.WriteString("\t")
		fmtstring.WriteString(kv.Key)
		fmtstring.WriteString(" = ")
		fmtstring.WriteString(kv.Verb)
		fmtstring.WriteString("\n")
		args[i] = kv.Val
	}
	fmt.Fprintf(w, fmtstring.String(), args...)
}

// BitmapString renders membership of [0, n) in b as '1' (present) and '_'
// (absent), width characters per line. Each line is prefixed by the index of
// its first element.
func BitmapString(b *roaring.Bitmap, n, width int) string {
	if n <= 0 {
		return ""
	}
	if width <= 0 {
		width = n
	}
	var sb strings.Builder
	sb.Grow(n + (n/width+1)*12)
	for start := 0; start < n; start += width {
		fmt.Fprintf(&sb, "%8d ", start)
		end := start + width
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			if b.Contains(uint32(i)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('_')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
