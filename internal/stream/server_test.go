package stream

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/playnine/internal/simulator"
)

func newTestServer(t *testing.T, maxSims int) (*Server, *httptest.Server) {
	t.Helper()

	base := simulator.DefaultConfig()
	base.Simulations = 20
	base.Rounds = 2
	base.Seed = 11
	base.Workers = 2

	srv := NewServer(Config{Base: base, MaxSimulations: maxSims}, zerolog.New(zerolog.NewTestWriter(t)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, messageType MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(messageType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(30*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil collects messages up to and including the first one of type
// stop.
func readUntil(t *testing.T, conn *websocket.Conn, stop MessageType) []Message {
	t.Helper()
	var msgs []Message
	for {
		msg := read(t, conn)
		msgs = append(msgs, msg)
		if msg.Type == stop {
			return msgs
		}
	}
}

func decode[T any](t *testing.T, msg Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))
	return v
}

func ptr[T any](v T) *T { return &v }

func TestRunStreamsProgressMatchesAndResult(t *testing.T) {
	_, ts := newTestServer(t, 0)
	conn := dial(t, ts)

	send(t, conn, TypeRun, RunRequest{
		TargetScore: ptr(1000),
		Simulations: ptr(40),
		Predicate:   ptr("le"),
	})

	msgs := readUntil(t, conn, TypeResult)
	require.Equal(t, TypeStarted, msgs[0].Type)

	started := decode[StartedData](t, msgs[0])
	assert.Equal(t, 40, started.Simulations)
	assert.Equal(t, simulator.PredicateAtMost, started.Predicate)
	assert.Contains(t, started.Description, "is at most 1000")

	var (
		percents []int
		matches  []simulator.MatchRecord
	)
	for _, msg := range msgs[1 : len(msgs)-1] {
		switch msg.Type {
		case TypeProgress:
			percents = append(percents, decode[ProgressData](t, msg).Percent)
		case TypeMatch:
			matches = append(matches, decode[simulator.MatchRecord](t, msg))
		default:
			t.Fatalf("unexpected message type %q", msg.Type)
		}
	}

	require.NotEmpty(t, percents)
	assert.IsNonDecreasing(t, percents)
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.Len(t, matches, 40)
	for _, m := range matches {
		assert.Len(t, m.Scores, 2)
	}

	result := decode[map[string]any](t, msgs[len(msgs)-1])
	assert.EqualValues(t, 40, result["completed"])
	assert.EqualValues(t, 40, result["successes"])
	assert.EqualValues(t, 1, result["one_in"])
	assert.EqualValues(t, 11, result["seed"])
	assert.NotEmpty(t, result["run_id"])
	assert.Len(t, result["samples"], simulator.MaxSamples)
}

func TestRunUsesServerDefaults(t *testing.T) {
	_, ts := newTestServer(t, 0)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeRun, Timestamp: time.Now()}))

	msgs := readUntil(t, conn, TypeResult)
	result := decode[map[string]any](t, msgs[len(msgs)-1])
	assert.EqualValues(t, 20, result["completed"])
	assert.EqualValues(t, 2, result["rounds"])
	assert.EqualValues(t, "race", result["mode"])
}

func TestBadRequests(t *testing.T) {
	_, ts := newTestServer(t, 100)

	tests := []struct {
		name string
		msg  Message
		code string
	}{
		{
			name: "unknown type",
			msg:  Message{Type: "deal"},
			code: CodeBadRequest,
		},
		{
			name: "malformed data",
			msg:  Message{Type: TypeRun, Data: json.RawMessage(`"six"`)},
			code: CodeBadRequest,
		},
		{
			name: "unknown predicate",
			msg:  Message{Type: TypeRun, Data: json.RawMessage(`{"predicate":"gt"}`)},
			code: CodeBadRequest,
		},
		{
			name: "unknown mode",
			msg:  Message{Type: TypeRun, Data: json.RawMessage(`{"mode":"poker"}`)},
			code: CodeBadRequest,
		},
		{
			name: "zero rounds",
			msg:  Message{Type: TypeRun, Data: json.RawMessage(`{"rounds":0}`)},
			code: CodeBadRequest,
		},
		{
			name: "negative target",
			msg:  Message{Type: TypeRun, Data: json.RawMessage(`{"target_score":-3}`)},
			code: CodeBadRequest,
		},
		{
			name: "too many simulations",
			msg:  Message{Type: TypeRun, Data: json.RawMessage(`{"simulations":101}`)},
			code: CodeTooLarge,
		},
	}

	conn := dial(t, ts)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.msg.Timestamp = time.Now()
			require.NoError(t, conn.WriteJSON(tt.msg))

			msg := read(t, conn)
			require.Equal(t, TypeError, msg.Type)
			assert.Equal(t, tt.code, decode[ErrorData](t, msg).Code)
		})
	}

	// The connection survives bad requests.
	send(t, conn, TypeRun, nil)
	msgs := readUntil(t, conn, TypeResult)
	assert.Equal(t, TypeStarted, msgs[0].Type)
}

func TestBusyAndCancel(t *testing.T) {
	_, ts := newTestServer(t, 0)
	conn := dial(t, ts)

	send(t, conn, TypeRun, RunRequest{Simulations: ptr(DefaultMaxSimulations), Rounds: ptr(7)})
	send(t, conn, TypeRun, nil)

	msgs := readUntil(t, conn, TypeError)
	assert.Equal(t, TypeStarted, msgs[0].Type)
	assert.Equal(t, CodeBusy, decode[ErrorData](t, msgs[len(msgs)-1]).Code)

	send(t, conn, TypeCancel, nil)
	msgs = readUntil(t, conn, TypeResult)
	result := decode[map[string]any](t, msgs[len(msgs)-1])
	assert.Equal(t, true, result["cancelled"])
	assert.Less(t, result["completed"], float64(DefaultMaxSimulations))

	// A new run can start once the cancelled one has reported.
	send(t, conn, TypeRun, nil)
	msgs = readUntil(t, conn, TypeResult)
	assert.Equal(t, TypeStarted, msgs[0].Type)
}

func TestCloseDisconnectsClients(t *testing.T) {
	srv, ts := newTestServer(t, 0)
	conn := dial(t, ts)

	send(t, conn, TypeRun, RunRequest{Simulations: ptr(DefaultMaxSimulations), Rounds: ptr(7)})
	assert.Equal(t, TypeStarted, read(t, conn).Type)

	srv.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, 0)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}
