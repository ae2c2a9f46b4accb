package remote

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robotcar/command"
	"robotcar/streamer"
	"robotcar/ups"
	"robotcar/vehicle"
)

type fakeSubmitter struct {
	texts chan string
}

func (f *fakeSubmitter) Submit(text string) command.VoiceCommand {
	f.texts <- text
	return command.Parse(text)
}

func startServer(t *testing.T, telemetry *streamer.Streamer[Telemetry]) (*fakeSubmitter, string) {
	t.Helper()
	submitter := &fakeSubmitter{texts: make(chan string, 8)}
	ts := httptest.NewServer(NewServer(submitter, telemetry).Handler())
	t.Cleanup(ts.Close)
	return submitter, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readTelemetry(t *testing.T, conn *websocket.Conn) Telemetry {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Telemetry
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHelloCarriesSessionID(t *testing.T) {
	_, url := startServer(t, nil)
	conn := dial(t, url)

	hello := readTelemetry(t, conn)
	assert.Equal(t, Hello, hello.Type)
	_, err := uuid.Parse(hello.Session)
	assert.NoError(t, err)
}

func TestVoiceTextIsSubmitted(t *testing.T) {
	submitter, url := startServer(t, nil)
	conn := dial(t, url)
	readTelemetry(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"other"}`)))
	require.NoError(t, conn.WriteJSON(command.Message{Type: command.VoiceText, Text: "turn left"}))

	select {
	case text := <-submitter.texts:
		assert.Equal(t, "turn left", text)
	case <-time.After(2 * time.Second):
		t.Fatal("voice text was not submitted")
	}
}

func TestSecondClientIsRejected(t *testing.T) {
	_, url := startServer(t, nil)
	conn := dial(t, url)
	readTelemetry(t, conn)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestClientCanReconnect(t *testing.T) {
	_, url := startServer(t, nil)
	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	readTelemetry(t, first)
	first.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	first.Close()

	require.Eventually(t, func() bool {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)
}

func TestTelemetryIsForwarded(t *testing.T) {
	telemetry := streamer.NewStreamer[Telemetry](8)
	go telemetry.Run()
	t.Cleanup(func() { telemetry.Stop() })

	_, url := startServer(t, telemetry)
	conn := dial(t, url)
	readTelemetry(t, conn)

	require.True(t, telemetry.Broadcast(EventMessage(vehicle.Event{Type: vehicle.EventTurn, Heading: 135, Outcome: "goalReached"})))
	require.True(t, telemetry.Broadcast(BatteryMessage(ups.UpsModuleStatus{ChargePercents: 75})))

	event := readTelemetry(t, conn)
	require.Equal(t, Event, event.Type)
	require.NotNil(t, event.Event)
	assert.Equal(t, vehicle.EventTurn, event.Event.Type)
	assert.Equal(t, 135, event.Event.Heading)

	battery := readTelemetry(t, conn)
	require.Equal(t, Battery, battery.Type)
	require.NotNil(t, battery.Battery)
	assert.Equal(t, 75.0, battery.Battery.ChargePercents)
}
