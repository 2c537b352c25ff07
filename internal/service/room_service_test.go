package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualroom/internal/db"
	"virtualroom/internal/events"
	"virtualroom/internal/types"
)

// recordingStore 记录调用次数并可注入错误
type recordingStore struct {
	db.RoomStore
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		RoomStore: db.NewMemoryStore(),
		calls:     map[string]int{},
		fail:      map[string]error{},
	}
}

func (s *recordingStore) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.fail[op]
}

func (s *recordingStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *recordingStore) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *recordingStore) EnsureTable(ctx context.Context) error {
	if err := s.record("ensure"); err != nil {
		return err
	}
	return s.RoomStore.EnsureTable(ctx)
}

func (s *recordingStore) Get(ctx context.Context, pk, id string) (*db.RoomConfig, error) {
	if err := s.record("get"); err != nil {
		return nil, err
	}
	return s.RoomStore.Get(ctx, pk, id)
}

func (s *recordingStore) Insert(ctx context.Context, room *db.RoomConfig) error {
	if err := s.record("insert"); err != nil {
		return err
	}
	return s.RoomStore.Insert(ctx, room)
}

func (s *recordingStore) Replace(ctx context.Context, room *db.RoomConfig) error {
	if err := s.record("replace"); err != nil {
		return err
	}
	return s.RoomStore.Replace(ctx, room)
}

func process(t *testing.T, svc *RoomService, room string, cmd types.Command) *db.RoomConfig {
	t.Helper()
	got, err := svc.Process(context.Background(), room, cmd)
	require.NoError(t, err)
	return got
}

func TestProcess_NewRoomDefaults(t *testing.T) {
	store := newRecordingStore()
	svc := NewRoomService(store, nil, "Demo")

	room := process(t, svc, "101", types.Command{})

	assert.Equal(t, "Demo", room.PartitionKey)
	assert.Equal(t, "101", room.RoomID)
	assert.False(t, room.LightsRoom)
	assert.False(t, room.LightsBathroom)
	assert.False(t, room.Television)
	assert.True(t, room.Blinds)
	assert.False(t, room.AC)
	assert.Equal(t, 70, room.Temperature)
	assert.Equal(t, "", room.Message)

	assert.Equal(t, 1, store.count("insert"))
	assert.Equal(t, 2, store.count("get"))
	assert.Equal(t, 0, store.count("replace"))

	process(t, svc, "101", types.Command{})
	assert.Equal(t, 1, store.count("insert"), "existing room must not be re-created")
}

func TestProcess_MissingRoom(t *testing.T) {
	store := newRecordingStore()
	svc := NewRoomService(store, nil, "Demo")

	_, err := svc.Process(context.Background(), "", types.NewCommand("reset", "", "", ""))
	assert.ErrorIs(t, err, ErrMissingRoom)
	assert.Equal(t, 0, store.total())
}

func TestProcess_Reset(t *testing.T) {
	svc := NewRoomService(newRecordingStore(), nil, "Demo")

	process(t, svc, "101", types.NewCommand("turn", "lights", "all", "on"))
	process(t, svc, "101", types.NewCommand("turn", "blinds", "", "close"))
	process(t, svc, "101", types.NewCommand("settemperature", "", "", "60"))

	room := process(t, svc, "101", types.NewCommand("reset", "", "", ""))
	assert.True(t, room.SameState(*db.NewRoomConfig("Demo", "101")))

	stored := process(t, svc, "101", types.Command{})
	assert.True(t, stored.SameState(*db.NewRoomConfig("Demo", "101")))
}

func TestProcess_Transitions(t *testing.T) {
	svc := NewRoomService(newRecordingStore(), nil, "Demo")

	room := process(t, svc, "101", types.NewCommand("turn", "lights", "all", "on"))
	assert.True(t, room.LightsRoom)
	assert.True(t, room.LightsBathroom)
	assert.Equal(t, "All lights on", room.Message)

	room = process(t, svc, "101", types.NewCommand("turn", "blinds", "", "close"))
	assert.False(t, room.Blinds)
	assert.Equal(t, "blinds closed", room.Message)

	room = process(t, svc, "101", types.NewCommand("settemperature", "", "", "68"))
	assert.Equal(t, 68, room.Temperature)
	assert.Equal(t, "set temperature to 68", room.Message)

	room = process(t, svc, "102", types.NewCommand("increasetemperature", "", "", "5"))
	assert.Equal(t, 75, room.Temperature)
}

func TestProcess_InvalidTurnValueIsNoop(t *testing.T) {
	store := newRecordingStore()
	svc := NewRoomService(store, nil, "Demo")

	before := process(t, svc, "101", types.Command{})
	after := process(t, svc, "101", types.NewCommand("turn", "lights", "all", "sideways"))

	assert.Equal(t, *before, *after)
	assert.Equal(t, 0, store.count("replace"))
}

func TestProcess_Idempotent(t *testing.T) {
	svc := NewRoomService(newRecordingStore(), nil, "Demo")

	first := process(t, svc, "101", types.NewCommand("turn", "tv", "", "on"))
	second := process(t, svc, "101", types.NewCommand("turn", "tv", "", "on"))

	assert.True(t, first.SameState(*second))
}

func TestProcess_RoundTrip(t *testing.T) {
	svc := NewRoomService(newRecordingStore(), nil, "Demo")

	changed := process(t, svc, "101", types.NewCommand("turn", "ac", "", "on"))
	fetched := process(t, svc, "101", types.Command{})

	assert.Equal(t, *changed, *fetched)
}

func TestProcess_RoomIDCaseSensitive(t *testing.T) {
	svc := NewRoomService(newRecordingStore(), nil, "Demo")

	process(t, svc, "Suite", types.NewCommand("turn", "tv", "", "on"))
	other := process(t, svc, "suite", types.Command{})

	assert.False(t, other.Television)
}

func TestProcess_BadTemperatureFails(t *testing.T) {
	store := newRecordingStore()
	svc := NewRoomService(store, nil, "Demo")

	_, err := svc.Process(context.Background(), "101", types.NewCommand("settemperature", "", "", "hot"))

	var perr *ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageTransition, perr.Stage)
	assert.Equal(t, "101", perr.RoomID)
	assert.Equal(t, 0, store.count("replace"))
}

func TestProcess_StoreFailures(t *testing.T) {
	boom := errors.New("boom")

	for op, stage := range map[string]string{
		"ensure":  StageEnsureTable,
		"get":     StageLookup,
		"insert":  StageCreate,
		"replace": StagePersist,
	} {
		t.Run(op, func(t *testing.T) {
			store := newRecordingStore()
			store.fail[op] = boom
			svc := NewRoomService(store, nil, "Demo")

			_, err := svc.Process(context.Background(), "101", types.NewCommand("turn", "tv", "", "on"))

			var perr *ProcessingError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, stage, perr.Stage)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestProcess_PublishesEvents(t *testing.T) {
	bus := events.NewEventBus()
	svc := NewRoomService(newRecordingStore(), bus, "Demo")

	var mu sync.Mutex
	seen := map[events.EventType][]events.RoomStateEventData{}
	for _, et := range []events.EventType{events.EventRoomCreated, events.EventRoomStateChange, events.EventRoomReset} {
		bus.Subscribe(et, func(e events.Event) {
			mu.Lock()
			defer mu.Unlock()
			seen[e.Type] = append(seen[e.Type], e.Data.(events.RoomStateEventData))
		})
	}

	process(t, svc, "101", types.NewCommand("turn", "lights", "all", "on"))
	process(t, svc, "101", types.NewCommand("turn", "lights", "all", "sideways"))
	process(t, svc, "101", types.NewCommand("reset", "", "", ""))
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen[events.EventRoomCreated], 1)
	require.Len(t, seen[events.EventRoomStateChange], 2)
	assert.Len(t, seen[events.EventRoomReset], 1)

	var messages []string
	for _, d := range seen[events.EventRoomStateChange] {
		messages = append(messages, d.Message)
	}
	assert.ElementsMatch(t, []string{"All lights on", ""}, messages)
}

func TestPing(t *testing.T) {
	store := newRecordingStore()
	svc := NewRoomService(store, nil, "Demo")

	require.NoError(t, svc.Ping(context.Background()))

	store.fail["ensure"] = errors.New("down")
	assert.Error(t, svc.Ping(context.Background()))
}

