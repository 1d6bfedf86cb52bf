package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

func TestPushoverNotifiesOnPositionClosed(t *testing.T) {
	received := make(chan map[string]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fields := make(map[string]string)
		for key := range r.PostForm {
			fields[key] = r.PostForm.Get(key)
		}
		received <- fields
	}))
	defer server.Close()

	pushover := NewPushover("user-key", "app-token", "phone", PushoverWithEndpoint(server.URL))

	delivered := false
	handler := pushover.WithPositionClosed(func(context.Context, common.Position) { delivered = true })
	handler(context.Background(), common.Position{
		Ticket: 42,
		Symbol: "EURUSD",
		Profit: fixed.MustFromString("12.34"),
	})
	assert.True(t, delivered, "wrapped handler still runs")

	select {
	case fields := <-received:
		assert.Equal(t, "user-key", fields["user"])
		assert.Equal(t, "app-token", fields["token"])
		assert.Equal(t, "phone", fields["device"])
		assert.Equal(t, "Position Closed", fields["title"])
		assert.Contains(t, fields["message"], "ticket = 42")
		assert.Contains(t, fields["message"], "EURUSD")
		assert.Contains(t, fields["message"], "12.34")
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}
