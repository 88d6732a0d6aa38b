package engine

import (
	"errors"
	"testing"

	"github.com/klovach/resound/internal/modules/playback/domain"
	"github.com/klovach/resound/internal/modules/playback/wire"
)

// mockPublisher records published events for assertions.
type mockPublisher struct {
	queueReplaced   []domain.QueueReplacedEvent
	positionChanged []domain.PositionChangedEvent
}

func (m *mockPublisher) PublishQueueReplaced(event domain.QueueReplacedEvent) {
	m.queueReplaced = append(m.queueReplaced, event)
}

func (m *mockPublisher) PublishPositionChanged(event domain.PositionChangedEvent) {
	m.positionChanged = append(m.positionChanged, event)
}

func fixedClock() uint64 { return 9999 }

func listPayload(id string, trackIDs []string, order []uint32, shuffled bool, ts uint64) []byte {
	tracks := make([]domain.Track, len(trackIDs))
	for i, tid := range trackIDs {
		tracks[i] = domain.Track{ID: tid, ContextIndex: 0, MediaType: domain.MediaSong}
	}
	return wire.EncodeList(&wire.List{
		ID: id,
		Contexts: []domain.Context{
			{Container: domain.Container{ContextID: "ctx-1", Type: domain.ContainerPlaylist}},
		},
		Tracks:    tracks,
		Order:     order,
		Shuffled:  shuffled,
		Timestamp: ts,
	})
}

func positionPayload(id string, index uint32, ts uint64) []byte {
	return wire.EncodeCurrentIndex(&wire.CurrentIndex{ID: id, Index: index, Timestamp: ts})
}

func mustApplyQueue(t *testing.T, e *Engine, payload []byte) {
	t.Helper()
	if err := e.ApplyQueueUpdate(payload); err != nil {
		t.Fatalf("unexpected error applying queue update: %v", err)
	}
}

func mustApplyPosition(t *testing.T, e *Engine, payload []byte) {
	t.Helper()
	if err := e.ApplyPositionUpdate(payload); err != nil {
		t.Fatalf("unexpected error applying position update: %v", err)
	}
}

func TestEngine_FirstQueueStartsAtZero(t *testing.T) {
	e := NewEngine(nil, fixedClock)

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 10))

	played, ok := e.Current()
	if !ok {
		t.Fatal("expected a current track")
	}
	if played.Track.ID != "a" || played.EffectiveIndex != 0 {
		t.Errorf("expected track a at index 0, got %s at %d", played.Track.ID, played.EffectiveIndex)
	}
}

func TestEngine_LastWriterWins(t *testing.T) {
	// Whatever the arrival order, the state with the higher timestamp is
	// held afterwards.
	tests := []struct {
		name  string
		first []byte
		then  []byte
	}{
		{
			name:  "in order",
			first: listPayload("q1", []string{"old"}, nil, false, 10),
			then:  listPayload("q1", []string{"new"}, nil, false, 20),
		},
		{
			name:  "reordered",
			first: listPayload("q1", []string{"new"}, nil, false, 20),
			then:  listPayload("q1", []string{"old"}, nil, false, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(nil, fixedClock)
			mustApplyQueue(t, e, tt.first)
			mustApplyQueue(t, e, tt.then)

			st, ok := e.Status()
			if !ok {
				t.Fatal("expected held status")
			}
			if st.QueueTimestamp != 20 {
				t.Errorf("expected timestamp 20 held, got %d", st.QueueTimestamp)
			}
			if played, _ := e.Current(); played.Track.ID != "new" {
				t.Errorf("expected track from the newer state, got %s", played.Track.ID)
			}
		})
	}
}

func TestEngine_IdempotentRedelivery(t *testing.T) {
	pub := &mockPublisher{}
	e := NewEngine(pub, fixedClock)
	payload := listPayload("q1", []string{"a", "b"}, nil, false, 10)

	mustApplyQueue(t, e, payload)
	mustApplyQueue(t, e, payload)

	if len(pub.queueReplaced) != 1 {
		t.Errorf("expected exactly one replacement, got %d", len(pub.queueReplaced))
	}
}

func TestEngine_ShuffledNavigation(t *testing.T) {
	e := NewEngine(nil, fixedClock)

	mustApplyQueue(t, e, listPayload("q1", []string{"A", "B", "C"}, []uint32{2, 0, 1}, true, 10))
	mustApplyPosition(t, e, positionPayload("q1", 1, 11))

	// Effective position 1 resolves through order[1]=0 to raw track A.
	played, ok := e.Current()
	if !ok {
		t.Fatal("expected a current track")
	}
	if played.Track.ID != "A" {
		t.Errorf("expected current track A, got %s", played.Track.ID)
	}

	// next is order[2]=1, raw track B.
	played, ok = e.Next()
	if !ok {
		t.Fatal("expected a next track")
	}
	if played.Track.ID != "B" {
		t.Errorf("expected next track B, got %s", played.Track.ID)
	}

	// And back again.
	played, ok = e.Previous()
	if !ok {
		t.Fatal("expected a previous track")
	}
	if played.Track.ID != "A" {
		t.Errorf("expected previous track A, got %s", played.Track.ID)
	}
}

func TestEngine_PositionBeforeQueue(t *testing.T) {
	// A position referencing a queue nobody has sent yet is buffered, then
	// clamped against the queue when it arrives shorter than the index.
	e := NewEngine(nil, fixedClock)

	mustApplyPosition(t, e, positionPayload("q1", 5, 11))
	if _, ok := e.Current(); ok {
		t.Fatal("expected no current track before any queue")
	}

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 10))

	played, ok := e.Current()
	if !ok {
		t.Fatal("expected a current track")
	}
	if played.EffectiveIndex != 2 {
		t.Errorf("expected clamp to last index 2, got %d", played.EffectiveIndex)
	}
}

func TestEngine_PendingPositionKeepsNewest(t *testing.T) {
	e := NewEngine(nil, fixedClock)

	mustApplyPosition(t, e, positionPayload("q1", 2, 12))
	mustApplyPosition(t, e, positionPayload("q1", 1, 11)) // older, ignored

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 10))

	if played, _ := e.Current(); played.EffectiveIndex != 2 {
		t.Errorf("expected buffered index 2 applied, got %d", played.EffectiveIndex)
	}
}

func TestEngine_PendingPositionSupersededByOtherQueue(t *testing.T) {
	e := NewEngine(nil, fixedClock)

	mustApplyPosition(t, e, positionPayload("q1", 2, 11))
	mustApplyQueue(t, e, listPayload("q2", []string{"x", "y"}, nil, false, 10))

	// The q1 position was superseded when q2's queue was accepted; a later
	// q1 queue starts fresh at index 0.
	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 12))

	if played, _ := e.Current(); played.EffectiveIndex != 0 {
		t.Errorf("expected fresh session at index 0, got %d", played.EffectiveIndex)
	}
}

func TestEngine_NewQueueIDReplacesAndResets(t *testing.T) {
	pub := &mockPublisher{}
	e := NewEngine(pub, fixedClock)

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 100))
	mustApplyPosition(t, e, positionPayload("q1", 2, 101))

	// A different queue id replaces outright, even with a lower timestamp.
	mustApplyQueue(t, e, listPayload("q2", []string{"x", "y"}, nil, false, 50))

	st, ok := e.Status()
	if !ok {
		t.Fatal("expected held status")
	}
	if st.QueueID != "q2" {
		t.Errorf("expected queue q2 held, got %s", st.QueueID)
	}
	if st.Index != 0 {
		t.Errorf("expected position reset to 0, got %d", st.Index)
	}

	last := pub.positionChanged[len(pub.positionChanged)-1]
	if last.Cause != domain.PositionCauseReset {
		t.Errorf("expected reset cause, got %s", last.Cause)
	}
}

func TestEngine_StalePositionDiscarded(t *testing.T) {
	e := NewEngine(nil, fixedClock)

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 10))
	mustApplyPosition(t, e, positionPayload("q1", 2, 20))
	mustApplyPosition(t, e, positionPayload("q1", 0, 20)) // equal timestamp
	mustApplyPosition(t, e, positionPayload("q1", 1, 15)) // lower timestamp

	if played, _ := e.Current(); played.EffectiveIndex != 2 {
		t.Errorf("expected index 2 kept, got %d", played.EffectiveIndex)
	}
}

func TestEngine_QueueShrinkClampsPosition(t *testing.T) {
	e := NewEngine(nil, fixedClock)

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c", "d"}, nil, false, 10))
	mustApplyPosition(t, e, positionPayload("q1", 3, 11))
	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b"}, nil, false, 12))

	if played, _ := e.Current(); played.EffectiveIndex != 1 {
		t.Errorf("expected clamp to last index 1, got %d", played.EffectiveIndex)
	}
}

func TestEngine_NavigationBoundaries(t *testing.T) {
	e := NewEngine(nil, fixedClock)
	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b"}, nil, false, 10))

	if _, ok := e.Previous(); ok {
		t.Error("expected no previous track at index 0")
	}

	if _, ok := e.Next(); !ok {
		t.Fatal("expected next track")
	}
	if _, ok := e.Next(); ok {
		t.Error("expected no next track at the last index")
	}

	// The failed step left the position alone.
	if played, _ := e.Current(); played.Track.ID != "b" {
		t.Errorf("expected position still at b, got %s", played.Track.ID)
	}
}

func TestEngine_Seek(t *testing.T) {
	e := NewEngine(nil, fixedClock)

	if _, err := e.Seek(0); !errors.Is(err, ErrNoQueue) {
		t.Errorf("expected ErrNoQueue before any queue, got %v", err)
	}

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 10))

	played, err := e.Seek(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if played.Track.ID != "c" {
		t.Errorf("expected track c, got %s", played.Track.ID)
	}

	// An explicit out-of-range request errors and changes nothing.
	if _, err := e.Seek(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := e.Seek(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange for negative index, got %v", err)
	}
	if played, _ := e.Current(); played.EffectiveIndex != 2 {
		t.Errorf("expected position unchanged at 2, got %d", played.EffectiveIndex)
	}
}

func TestEngine_RejectedUpdatesPreserveState(t *testing.T) {
	e := NewEngine(nil, fixedClock)
	mustApplyQueue(t, e, listPayload("q1", []string{"a"}, nil, false, 10))

	// Garbage bytes.
	if err := e.ApplyQueueUpdate([]byte{0x80}); err == nil {
		t.Error("expected decode error for garbage bytes")
	}

	// Structurally invalid content: a track referencing a missing context.
	bad := wire.EncodeList(&wire.List{
		ID:        "q1",
		Contexts:  []domain.Context{{Container: domain.Container{ContextID: "c", Type: domain.ContainerAlbum}}},
		Tracks:    []domain.Track{{ID: "x", ContextIndex: 5}},
		Timestamp: 20,
	})
	err := e.ApplyQueueUpdate(bad)
	if err == nil {
		t.Fatal("expected error for malformed queue")
	}
	if !errors.Is(err, domain.ErrMalformedQueue) {
		t.Errorf("expected ErrMalformedQueue, got %v", err)
	}

	// Prior state is untouched.
	st, _ := e.Status()
	if st.QueueTimestamp != 10 {
		t.Errorf("expected timestamp 10 still held, got %d", st.QueueTimestamp)
	}
	if played, _ := e.Current(); played.Track.ID != "a" {
		t.Errorf("expected track a still current, got %s", played.Track.ID)
	}

	if err := e.ApplyPositionUpdate([]byte{0x80}); err == nil {
		t.Error("expected decode error for garbage position bytes")
	}
}

func TestEngine_EmptyQueue(t *testing.T) {
	e := NewEngine(nil, fixedClock)
	mustApplyQueue(t, e, listPayload("q1", nil, nil, false, 10))

	if _, ok := e.Current(); ok {
		t.Error("expected no current track for an empty queue")
	}
	if _, ok := e.Next(); ok {
		t.Error("expected no next track for an empty queue")
	}
	if _, err := e.Seek(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	st, ok := e.Status()
	if !ok {
		t.Fatal("expected held status for an empty queue")
	}
	if st.TrackCount != 0 || st.Index != 0 {
		t.Errorf("expected empty status, got %+v", st)
	}
}

func TestEngine_LocalStepsOutrankOlderRemoteUpdates(t *testing.T) {
	// A local step stamps the position with the local clock; a remote
	// position carrying an older timestamp must not override it.
	clock := func() uint64 { return 100 }
	e := NewEngine(nil, clock)

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b", "c"}, nil, false, 10))
	if _, ok := e.Next(); !ok {
		t.Fatal("expected next track")
	}

	mustApplyPosition(t, e, positionPayload("q1", 0, 50))
	if played, _ := e.Current(); played.EffectiveIndex != 1 {
		t.Errorf("expected local position 1 kept, got %d", played.EffectiveIndex)
	}

	mustApplyPosition(t, e, positionPayload("q1", 0, 150))
	if played, _ := e.Current(); played.EffectiveIndex != 0 {
		t.Errorf("expected newer remote position applied, got %d", played.EffectiveIndex)
	}
}

func TestEngine_PublishesEvents(t *testing.T) {
	pub := &mockPublisher{}
	e := NewEngine(pub, fixedClock)

	mustApplyQueue(t, e, listPayload("q1", []string{"a", "b"}, nil, false, 10))

	if len(pub.queueReplaced) != 1 {
		t.Fatalf("expected 1 queue replacement event, got %d", len(pub.queueReplaced))
	}
	ev := pub.queueReplaced[0]
	if ev.QueueID != "q1" || ev.TrackCount != 2 || ev.Shuffled {
		t.Errorf("unexpected queue event: %+v", ev)
	}

	if _, err := e.Seek(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := pub.positionChanged[len(pub.positionChanged)-1]
	if last.Cause != domain.PositionCauseSeek || last.Index != 1 || last.TrackID != "b" {
		t.Errorf("unexpected position event: %+v", last)
	}
}
