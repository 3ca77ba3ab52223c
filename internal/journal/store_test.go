package journal

import (
	"io"
	"log/slog"
	"testing"
)

func TestRecord_NilStoreIsNoOp(t *testing.T) {
	var s *Store
	// Must not panic: journaling is optional.
	s.Record(Entry{SessionID: "sess-1", Utterance: "open the door"})
}

func TestRecord_NilPoolIsNoOp(t *testing.T) {
	s := NewStore(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Record(Entry{SessionID: "sess-1", Utterance: "open the door"})
}
