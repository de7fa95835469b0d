// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package loopback

import (
	"fmt"
	"testing"
)

func TestTraceDepth(t *testing.T) {
	b, err := newBench(0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	for i := 0; i < 300; i++ {
		if err := b.cycle(); err != nil {
			t.Fatal(err)
		}
	}
	if b.trace.Len() != traceDepth {
		t.Fatalf("expected %d channel words, got %d", traceDepth, b.trace.Len())
	}
	words := b.tail(traceDepth + 4)
	if len(words) != traceDepth {
		t.Fatalf("expected %d words, got %d", traceDepth, len(words))
	}
	if last := fmt.Sprintf("%08x", b.trace.Uint64(traceDepth-1)); words[traceDepth-1] != last {
		t.Fatalf("expected last word %s, got %s", last, words[traceDepth-1])
	}
}
