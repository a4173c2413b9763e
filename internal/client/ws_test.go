package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedServer upgrades every request and hands the server-side connection and
// request to the test.
type feedServer struct {
	*httptest.Server
	conns chan *websocket.Conn
	reqs  chan *http.Request
}

func newFeedServer(t *testing.T) *feedServer {
	t.Helper()
	fs := &feedServer{
		conns: make(chan *websocket.Conn, 4),
		reqs:  make(chan *http.Request, 4),
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		fs.reqs <- r
		fs.conns <- c
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *feedServer) wsURL(path string) string {
	return "ws" + strings.TrimPrefix(fs.URL, "http") + path
}

func (fs *feedServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-fs.conns:
		t.Cleanup(func() { c.Close() })
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server-side connection")
		return nil
	}
}

func recv(t *testing.T, inbox <-chan feed.Signal) feed.Signal {
	t.Helper()
	select {
	case sig := <-inbox:
		return sig
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
		return nil
	}
}

func TestFeedDialerDeliversEvents(t *testing.T) {
	fs := newFeedServer(t)
	d := NewFeedDialer(NewSession("secret"), 8)

	link := d.Open(feed.Dial{Gen: 7, Endpoint: fs.wsURL("/api/v1/ws/shopxyz")})
	defer link.Close()

	srv := fs.accept(t)
	req := <-fs.reqs
	assert.Equal(t, "/api/v1/ws/shopxyz", req.URL.Path)
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

	assert.Equal(t, feed.Opened{Gen: 7}, recv(t, d.Inbox()))

	require.NoError(t, srv.WriteMessage(websocket.TextMessage,
		[]byte(`{"room_id":"r1","msg_id":"m1","customer_name":"A","customer_tiktok_id":"a_tt","comment":"hi","created_at":"2024-11-02T20:00:00Z"}`)))
	require.NoError(t, srv.WriteMessage(websocket.TextMessage, []byte(`{"customer_name":"B","comment":"yo"}`)))

	first, ok := recv(t, d.Inbox()).(feed.Received)
	require.True(t, ok)
	assert.Equal(t, uint64(7), first.Gen)
	assert.Equal(t, "r1", first.Event.RoomID)
	assert.Equal(t, "m1", first.Event.MessageID)
	assert.Equal(t, "A", first.Event.SourceDisplayName)
	assert.Equal(t, "a_tt", first.Event.SourceHandle)
	assert.Equal(t, "hi", first.Event.Text)
	assert.Equal(t, time.Date(2024, 11, 2, 20, 0, 0, 0, time.UTC), first.Event.CreatedAt)
	assert.False(t, first.Event.ReceivedAt.IsZero())

	second, ok := recv(t, d.Inbox()).(feed.Received)
	require.True(t, ok)
	assert.Equal(t, "B", second.Event.SourceDisplayName)
	assert.Equal(t, "yo", second.Event.Text)
}

func TestFeedDialerAcceptsBackendFrames(t *testing.T) {
	fs := newFeedServer(t)
	d := NewFeedDialer(nil, 8)
	link := d.Open(feed.Dial{Gen: 2, Endpoint: fs.wsURL("/x")})
	defer link.Close()

	srv := fs.accept(t)
	<-fs.reqs
	recv(t, d.Inbox())

	require.NoError(t, srv.WriteMessage(websocket.TextMessage,
		[]byte(`{"customer_name":"Lan","comment":"chốt đơn","created_at":"2024-05-01T10:00:00.123456"}`)))
	require.NoError(t, srv.WriteMessage(websocket.TextMessage,
		[]byte(`{"customer_user_id":7301001,"comment":"size M","created_at":null}`)))

	first, ok := recv(t, d.Inbox()).(feed.Received)
	require.True(t, ok)
	assert.Equal(t, "chốt đơn", first.Event.Text)
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC).Equal(first.Event.CreatedAt))

	second, ok := recv(t, d.Inbox()).(feed.Received)
	require.True(t, ok)
	assert.Equal(t, "7301001", second.Event.SourceUserID)
	assert.True(t, second.Event.CreatedAt.IsZero())
}

func TestFeedDialerMalformedFrame(t *testing.T) {
	fs := newFeedServer(t)
	d := NewFeedDialer(nil, 8)
	link := d.Open(feed.Dial{Gen: 1, Endpoint: fs.wsURL("/x")})
	defer link.Close()

	srv := fs.accept(t)
	<-fs.reqs
	recv(t, d.Inbox())

	require.NoError(t, srv.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, srv.WriteMessage(websocket.TextMessage, []byte(`{"comment":"still here"}`)))

	bad, ok := recv(t, d.Inbox()).(feed.Malformed)
	require.True(t, ok)
	assert.Equal(t, []byte("not json"), bad.Raw)
	assert.Error(t, bad.Err)

	good, ok := recv(t, d.Inbox()).(feed.Received)
	require.True(t, ok)
	assert.Equal(t, "still here", good.Event.Text)
}

func TestFeedDialerServerClose(t *testing.T) {
	fs := newFeedServer(t)
	d := NewFeedDialer(nil, 8)
	link := d.Open(feed.Dial{Gen: 3, Endpoint: fs.wsURL("/x")})
	defer link.Close()

	srv := fs.accept(t)
	<-fs.reqs
	recv(t, d.Inbox())

	require.NoError(t, srv.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))

	closed, ok := recv(t, d.Inbox()).(feed.Ended)
	require.True(t, ok)
	assert.Equal(t, uint64(3), closed.Gen)
}

func TestFeedDialerAbruptDisconnectFails(t *testing.T) {
	fs := newFeedServer(t)
	d := NewFeedDialer(nil, 8)
	link := d.Open(feed.Dial{Gen: 4, Endpoint: fs.wsURL("/x")})
	defer link.Close()

	srv := fs.accept(t)
	<-fs.reqs
	recv(t, d.Inbox())

	srv.UnderlyingConn().Close()

	failed, ok := recv(t, d.Inbox()).(feed.Failed)
	require.True(t, ok)
	assert.Equal(t, uint64(4), failed.Gen)
}

func TestFeedDialerDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	d := NewFeedDialer(nil, 8)
	link := d.Open(feed.Dial{Gen: 9, Endpoint: "ws" + strings.TrimPrefix(srv.URL, "http") + "/nope"})
	defer link.Close()

	failed, ok := recv(t, d.Inbox()).(feed.Failed)
	require.True(t, ok)
	assert.Equal(t, uint64(9), failed.Gen)
	assert.Contains(t, failed.Err.Error(), "HTTP 404")
}

func TestFeedDialerCloseDuringDelay(t *testing.T) {
	fs := newFeedServer(t)
	d := NewFeedDialer(nil, 8)
	link := d.Open(feed.Dial{Gen: 1, Endpoint: fs.wsURL("/x"), Delay: time.Hour})
	require.NoError(t, link.Close())

	select {
	case sig := <-d.Inbox():
		t.Fatalf("unexpected signal after close: %#v", sig)
	case <-fs.conns:
		t.Fatal("closed link must not dial")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFeedDialerCloseStopsReading(t *testing.T) {
	fs := newFeedServer(t)
	d := NewFeedDialer(nil, 8)
	link := d.Open(feed.Dial{Gen: 1, Endpoint: fs.wsURL("/x")})

	srv := fs.accept(t)
	<-fs.reqs
	recv(t, d.Inbox())

	require.NoError(t, link.Close())

	// The server side sees the connection go away.
	srv.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := srv.ReadMessage()
	assert.Error(t, err)

	select {
	case sig := <-d.Inbox():
		t.Fatalf("unexpected signal after close: %#v", sig)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWaitForSignal(t *testing.T) {
	inbox := make(chan feed.Signal, 1)
	inbox <- feed.Opened{Gen: 2}
	assert.Equal(t, feed.Opened{Gen: 2}, WaitForSignal(inbox)())

	close(inbox)
	assert.Nil(t, WaitForSignal(inbox)())
}
