package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/realtime"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/balance?user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversOnlyToOwner(t *testing.T) {
	hub := realtime.NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	owner := dial(t, srv, "u1")
	other := dial(t, srv, "u2")

	require.Eventually(t, func() bool {
		return hub.Connections("u1") == 1 && hub.Connections("u2") == 1
	}, time.Second, 10*time.Millisecond)

	total := int64(6000)
	hub.NotifyBalanceUpdated(context.Background(), domain.BalanceUpdatedEvent{
		UserID:        "u1",
		Timestamp:     time.Now(),
		ShouldAnimate: true,
		NewBalance:    &total,
	})

	var msg realtime.Message
	require.NoError(t, owner.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, owner.ReadJSON(&msg))
	assert.Equal(t, "balanceUpdated", msg.Type)
	assert.Equal(t, "u1", msg.Detail.UserID)
	require.NotNil(t, msg.Detail.NewBalance)
	assert.Equal(t, int64(6000), *msg.Detail.NewBalance)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "outro usuário não recebe o evento")
}

func TestHub_RequiresUserID(t *testing.T) {
	hub := realtime.NewHub()
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/balance", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := realtime.NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv, "u1")
	require.Eventually(t, func() bool { return hub.Connections("u1") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connections("u1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
