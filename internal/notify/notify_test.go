package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwatch-engine/internal/domain"
)

func TestComposeSingle(t *testing.T) {
	msg := Compose([]domain.Listing{{ID: "1", Title: "T", Info: "I", URL: "U"}})

	assert.Equal(t, "🏡 *T*\n 📍 資訊: I\n🔗 [查看房源](U)", msg)
	assert.Contains(t, msg, "T")
	assert.Contains(t, msg, "I")
	assert.Contains(t, msg, "[查看房源](U)")
}

func TestComposeSeparatesWithBlankLine(t *testing.T) {
	msg := Compose([]domain.Listing{
		{ID: "1", Title: "A", Info: "a", URL: "https://rent.591.com.tw/1"},
		{ID: "", Title: "B", Info: "b", URL: "https://rent.591.com.tw/x"},
	})

	parts := strings.Split(msg, "\n\n")
	require.Len(t, parts, 2)
	assert.True(t, strings.HasPrefix(parts[0], "🏡 *A*"))
	assert.True(t, strings.HasPrefix(parts[1], "🏡 *B*"), "empty id listings are rendered like any other")
}

func TestComposeDeterministicAndIgnoresID(t *testing.T) {
	a := []domain.Listing{{ID: "1", Title: "T", Info: "I", URL: "U"}}
	b := []domain.Listing{{ID: "2", Title: "T", Info: "I", URL: "U"}}
	assert.Equal(t, Compose(a), Compose(a))
	assert.Equal(t, Compose(a), Compose(b))
}

func TestTelegramSenderPostsMarkdown(t *testing.T) {
	var got sendMessageReq
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	s := NewTelegramSender(srv.URL+"/", "123:abc", "-100200")
	require.NoError(t, s.Send(context.Background(), "hello"))

	assert.Equal(t, "/bot123:abc/sendMessage", path)
	assert.Equal(t, sendMessageReq{ChatID: "-100200", Text: "hello", ParseMode: "Markdown"}, got)
}

func TestTelegramSenderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	err := NewTelegramSender(srv.URL, "t", "c").Send(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDispatchFailed)

	var de *DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusBadRequest, de.Status)
	assert.Contains(t, de.Error(), "chat not found")
}

func TestTelegramSenderOKFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"flood"}`))
	}))
	defer srv.Close()

	err := NewTelegramSender(srv.URL, "t", "c").Send(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDispatchFailed)
}

func TestTelegramSenderTransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	err := NewTelegramSender(base, "secret-token", "c").Send(context.Background(), "x")
	require.ErrorIs(t, err, ErrDispatchFailed)
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), "hi"))
}
