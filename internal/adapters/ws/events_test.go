package ws

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchsync/server/internal/app"
	"github.com/watchsync/server/internal/config"
	"github.com/watchsync/server/internal/core"
	"github.com/watchsync/server/internal/domain"
	"github.com/watchsync/server/internal/store"
)

func newTestController() (*Controller, *store.Store) {
	st := store.NewStore()
	conns := app.NewRegistry()
	router := app.NewRouter(st, conns, app.NewTypingManager(0), nil)
	return NewController(router, conns, &config.Config{}), st
}

// newTestConn builds a wsConn whose frames can be drained without a
// live socket.
func newTestConn() *wsConn {
	return &wsConn{send: make(chan core.Frame, 32)}
}

func drain(t *testing.T, c *wsConn) []map[string]any {
	t.Helper()
	var out []map[string]any
	for {
		select {
		case fr := <-c.send:
			var m map[string]any
			require.NoError(t, json.Unmarshal(fr, &m))
			out = append(out, m)
		default:
			return out
		}
	}
}

func dispatch(ctl *Controller, id domain.ConnID, c *wsConn, raw string) {
	ctl.handleEvent(id, c, []byte(raw))
}

func TestHandleEvent_CreateAndJoinRoundTrip(t *testing.T) {
	ctl, st := newTestController()
	a := newTestConn()
	ctl.Conns.Bind("conn-a", a, nil)

	dispatch(ctl, "conn-a", a, `{"type":"create-room","roomCode":"abcd1234","name":"alice"}`)

	evs := drain(t, a)
	require.Len(t, evs, 1)
	assert.Equal(t, "room-joined", evs[0]["type"])

	// Code was case-normalized before it reached the store.
	_, ok := st.Room("ABCD1234")
	assert.True(t, ok)
}

func TestHandleEvent_CreateWithoutCodeGeneratesOne(t *testing.T) {
	ctl, _ := newTestController()
	a := newTestConn()
	ctl.Conns.Bind("conn-a", a, nil)

	dispatch(ctl, "conn-a", a, `{"type":"create-room","name":"alice"}`)

	evs := drain(t, a)
	require.Len(t, evs, 1)
	require.Equal(t, "room-joined", evs[0]["type"])
	room := evs[0]["room"].(map[string]any)
	code, err := domain.ParseRoomCode(room["id"].(string))
	require.NoError(t, err)
	assert.Len(t, string(code), domain.RoomCodeLen)
}

func TestHandleEvent_ValidationRejectsBeforeStore(t *testing.T) {
	ctl, st := newTestController()
	a := newTestConn()
	ctl.Conns.Bind("conn-a", a, nil)

	cases := []string{
		`{"type":"create-room","roomCode":"bad","name":"alice"}`,
		`{"type":"create-room","roomCode":"ABCD1234","name":""}`,
		`{"type":"join-room","roomCode":"ABCD1234","name":"` + strings.Repeat("x", 51) + `"}`,
		`{"type":"add-video","title":"no id"}`,
		`{"type":"load-video","videoId":"v1"}`,
		`{"type":"activity","kind":"explode"}`,
		`{"type":"signal-offer","payload":{}}`,
	}
	for _, raw := range cases {
		dispatch(ctl, "conn-a", a, raw)
		evs := drain(t, a)
		require.Len(t, evs, 1, "input %s", raw)
		assert.Equal(t, "error", evs[0]["type"], "input %s", raw)
	}

	// Nothing got through.
	_, ok := st.Room("ABCD1234")
	assert.False(t, ok)
}

func TestHandleEvent_OversizedMessageRejected(t *testing.T) {
	ctl, _ := newTestController()
	a := newTestConn()
	ctl.Conns.Bind("conn-a", a, nil)

	dispatch(ctl, "conn-a", a, `{"type":"create-room","roomCode":"ABCD1234","name":"alice"}`)
	drain(t, a)

	dispatch(ctl, "conn-a", a, `{"type":"send-message","body":"`+strings.Repeat("x", 501)+`"}`)
	evs := drain(t, a)
	require.Len(t, evs, 1)
	assert.Equal(t, "error", evs[0]["type"])
	assert.Equal(t, domain.ErrMessageTooLong.Error(), evs[0]["message"])
}

func TestHandleEvent_UnknownTypeIgnored(t *testing.T) {
	ctl, _ := newTestController()
	a := newTestConn()
	ctl.Conns.Bind("conn-a", a, nil)

	dispatch(ctl, "conn-a", a, `{"type":"self-destruct"}`)
	assert.Empty(t, drain(t, a))
}

func TestHandleEvent_Ping(t *testing.T) {
	ctl, _ := newTestController()
	a := newTestConn()

	dispatch(ctl, "conn-a", a, `{"type":"ping"}`)
	evs := drain(t, a)
	require.Len(t, evs, 1)
	assert.Equal(t, "pong", evs[0]["type"])
}
