package transcript

import (
	"testing"

	"github.com/snakes-game/go-client/snakes"
	"github.com/snakes-game/go-client/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordAndEntries(t *testing.T) {
	ctx, st := suite.New(t)

	recorder := New(st.Storage, "test:transcript", st.Logger)

	// Given: frames in both directions
	require.NoError(t, recorder.Record(ctx, KindOut, `{"SetName":"Alice"}`))
	require.NoError(t, recorder.Record(ctx, KindIn, `{"Board":[]}`))

	// When: the transcript is read back
	entries, err := recorder.Entries(ctx)

	// Then: the frames come back in order
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, KindOut, entries[0].Kind)
	assert.Equal(t, `{"SetName":"Alice"}`, entries[0].Frame)
	assert.Equal(t, KindIn, entries[1].Kind)
	assert.Equal(t, `{"Board":[]}`, entries[1].Frame)
	assert.NotEmpty(t, entries[0].ID)
}

func TestRecorder_ListenerAndSentHook(t *testing.T) {
	ctx, st := suite.New(t)

	recorder := New(st.Storage, "test:hooks", st.Logger)
	listener := recorder.Listener()

	event, err := snakes.Decode([]byte(`"Tick"`))
	require.NoError(t, err)

	// When: the hooks fire
	listener.OnEvent(nil, event)
	listener.OnDecodeError(nil, &snakes.DecodeError{Frame: []byte(`{not json`)})
	recorder.SentHook()(snakes.Turn{Direction: snakes.Clockwise}, []byte(`{"Turn":"Clockwise"}`))
	listener.OnSendError(nil, snakes.Turn{Direction: snakes.CounterClockwise}, snakes.ErrSendBufferFull)
	listener.OnClose(nil, nil)

	// Then: every notification is recorded
	entries, err := recorder.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, Entry{ID: entries[0].ID, Kind: KindIn, Frame: `"Tick"`}, entries[0])
	assert.Equal(t, Entry{ID: entries[1].ID, Kind: KindInvalid, Frame: `{not json`}, entries[1])
	assert.Equal(t, Entry{ID: entries[2].ID, Kind: KindOut, Frame: `{"Turn":"Clockwise"}`}, entries[2])
	assert.Equal(t, Entry{ID: entries[3].ID, Kind: KindDropped, Frame: `{"Turn":"CounterClockwise"}`}, entries[3])
	assert.Equal(t, Entry{ID: entries[4].ID, Kind: KindClose, Frame: ""}, entries[4])
}

func TestConnect(t *testing.T) {
	ctx, st := suite.New(t)

	client, err := Connect(ctx, st.Storage.Options().Addr)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = Connect(ctx, "127.0.0.1:1")
	require.Error(t, err)
}
