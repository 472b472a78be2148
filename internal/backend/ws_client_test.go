package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// wsTestServer upgrades one connection and exposes the control frames it
// received plus a way to push events.
type wsTestServer struct {
	*httptest.Server
	controls chan wsControl
	push     chan Event
}

func newWSTestServer(t *testing.T) *wsTestServer {
	t.Helper()

	ts := &wsTestServer{
		controls: make(chan wsControl, 16),
		push:     make(chan Event, 16),
	}

	upgrader := websocket.Upgrader{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		go func() {
			for {
				var ctrl wsControl
				if err := conn.ReadJSON(&ctrl); err != nil {
					return
				}
				ts.controls <- ctrl
			}
		}()

		for event := range ts.push {
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}))
	return ts
}

func (ts *wsTestServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func waitControl(t *testing.T, ts *wsTestServer) wsControl {
	t.Helper()
	select {
	case ctrl := <-ts.controls:
		return ctrl
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for control frame")
		return wsControl{}
	}
}

func TestWSEventStream_SubscribeAndReceive(t *testing.T) {
	ts := newWSTestServer(t)
	defer ts.Close()

	stream, err := NewWSEventStream(context.Background(), ts.wsURL(), nil, nil)
	require.NoError(t, err)
	defer stream.Close()

	ch, release, err := stream.Subscribe(context.Background(), EventCheckProgress)
	require.NoError(t, err)
	defer release()

	ctrl := waitControl(t, ts)
	require.Equal(t, "subscribe", ctrl.Action)
	require.Equal(t, EventCheckProgress, ctrl.Event)

	payload, _ := json.Marshal(CheckProgress{RunID: "run-1", Current: 2, Total: 5})
	ts.push <- Event{Name: EventCheckProgress, Payload: payload}

	select {
	case event := <-ch:
		progress, err := DecodeProgress(event)
		require.NoError(t, err)
		require.Equal(t, "run-1", progress.RunID)
		require.Equal(t, 2, progress.Current)
		require.Equal(t, 5, progress.Total)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWSEventStream_UnrelatedEventsNotDelivered(t *testing.T) {
	ts := newWSTestServer(t)
	defer ts.Close()

	stream, err := NewWSEventStream(context.Background(), ts.wsURL(), nil, nil)
	require.NoError(t, err)
	defer stream.Close()

	ch, release, err := stream.Subscribe(context.Background(), EventCheckProgress)
	require.NoError(t, err)
	defer release()
	waitControl(t, ts)

	payload, _ := json.Marshal(VerificationRequired{URL: "https://shop.example.com", Domain: "shop.example.com"})
	ts.push <- Event{Name: EventVerificationRequired, Payload: payload}

	select {
	case event := <-ch:
		t.Fatalf("unexpected delivery of %q", event.Name)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWSEventStream_ReleaseSendsUnsubscribe(t *testing.T) {
	ts := newWSTestServer(t)
	defer ts.Close()

	stream, err := NewWSEventStream(context.Background(), ts.wsURL(), nil, nil)
	require.NoError(t, err)
	defer stream.Close()

	_, release, err := stream.Subscribe(context.Background(), EventCheckProgress)
	require.NoError(t, err)
	waitControl(t, ts)

	release()
	release() // idempotent

	ctrl := waitControl(t, ts)
	require.Equal(t, "unsubscribe", ctrl.Action)
	require.Equal(t, EventCheckProgress, ctrl.Event)

	// The second release must not produce a second frame
	select {
	case extra := <-ts.controls:
		t.Fatalf("unexpected extra control frame %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWSEventStream_LastListenerUnsubscribes(t *testing.T) {
	ts := newWSTestServer(t)
	defer ts.Close()

	stream, err := NewWSEventStream(context.Background(), ts.wsURL(), nil, nil)
	require.NoError(t, err)
	defer stream.Close()

	_, releaseA, err := stream.Subscribe(context.Background(), EventCheckProgress)
	require.NoError(t, err)
	waitControl(t, ts)

	_, releaseB, err := stream.Subscribe(context.Background(), EventCheckProgress)
	require.NoError(t, err)
	waitControl(t, ts)

	releaseA()

	// One listener remains, no unsubscribe frame yet
	select {
	case ctrl := <-ts.controls:
		t.Fatalf("premature control frame %+v", ctrl)
	case <-time.After(200 * time.Millisecond):
	}

	releaseB()
	ctrl := waitControl(t, ts)
	require.Equal(t, "unsubscribe", ctrl.Action)
}

func TestWSEventStream_SubscribeAfterCloseFails(t *testing.T) {
	ts := newWSTestServer(t)
	defer ts.Close()

	stream, err := NewWSEventStream(context.Background(), ts.wsURL(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	_, _, err = stream.Subscribe(context.Background(), EventCheckProgress)
	require.Error(t, err)
}
