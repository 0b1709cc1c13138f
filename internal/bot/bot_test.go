package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhate/tripbot/config"
	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"
)

func newTestBot(handle func(context.Context, tgbotapi.Update)) *Bot {
	return &Bot{
		api:    &tgbotapi.BotAPI{},
		cfg:    &config.Config{},
		log:    zap.NewNop(),
		secret: "s3cret",
		handle: handle,
	}
}

func TestNotificationText_EscapesFlightNumber(t *testing.T) {
	r := domain.FlightReminder{
		ID:           "id-1",
		Type:         domain.FlightDeparture,
		FlightNumber: "LA<1> & LA801",
		DateTime:     time.Date(2025, 12, 25, 18, 0, 0, 0, time.UTC),
	}

	text := notificationText(domain.NewFlightNotification(r, time.UTC))
	assert.Equal(t, "🔔 <b>🛫 Saída: LA&lt;1&gt; &amp; LA801</b>\nHorário programado: 25/12/2025 18:00", text)
}

func TestWebhookHandler_RejectsBadSecret(t *testing.T) {
	var handled atomic.Int32
	b := newTestBot(func(context.Context, tgbotapi.Update) { handled.Add(1) })
	h := b.WebhookHandler()

	for _, secret := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodPost, "/bot", strings.NewReader(`{"update_id":1}`))
		if secret != "" {
			req.Header.Set(secretHeader, secret)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, "secret %q", secret)
	}

	b.Wait()
	assert.Zero(t, handled.Load())
}

func TestWebhookHandler_DispatchesUpdate(t *testing.T) {
	got := make(chan int, 1)
	b := newTestBot(func(_ context.Context, u tgbotapi.Update) { got <- u.UpdateID })

	req := httptest.NewRequest(http.MethodPost, "/bot", strings.NewReader(`{"update_id":42}`))
	req.Header.Set(secretHeader, "s3cret")
	rec := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	b.Wait()
	assert.Equal(t, 42, <-got)
}

func TestWait_DrainsInflightUpdates(t *testing.T) {
	release := make(chan struct{})
	var done atomic.Bool
	b := newTestBot(func(context.Context, tgbotapi.Update) {
		<-release
		done.Store(true)
	})

	b.dispatch(context.Background(), tgbotapi.Update{UpdateID: 1})

	waited := make(chan struct{})
	go func() {
		b.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned while an update was still being handled")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return")
	}
	assert.True(t, done.Load())
}
