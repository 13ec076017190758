package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrDispatchFailed = errors.New("notification dispatch failed")

// Sender delivers one composed message.
type Sender interface {
	Send(ctx context.Context, message string) error
}

// DispatchError is returned when the chat API did not accept a message.
type DispatchError struct {
	Status      int
	Description string
	Err         error
}

func (e *DispatchError) Error() string {
	switch {
	case e.Err != nil:
		return "telegram send: " + e.Err.Error()
	case e.Description != "":
		return fmt.Sprintf("telegram send: status %d: %s", e.Status, e.Description)
	default:
		return fmt.Sprintf("telegram send: status %d", e.Status)
	}
}

func (e *DispatchError) Unwrap() error { return e.Err }

func (e *DispatchError) Is(target error) bool { return target == ErrDispatchFailed }

const DefaultTelegramAPI = "https://api.telegram.org"

type TelegramSender struct {
	APIBase string
	Token   string
	ChatID  string
	Client  *http.Client
}

func NewTelegramSender(apiBase, token, chatID string) *TelegramSender {
	if apiBase == "" {
		apiBase = DefaultTelegramAPI
	}
	return &TelegramSender{
		APIBase: strings.TrimRight(apiBase, "/"),
		Token:   token,
		ChatID:  chatID,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type sendMessageReq struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResp struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (s *TelegramSender) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(sendMessageReq{
		ChatID:    s.ChatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		return &DispatchError{Err: err}
	}

	endpoint := s.APIBase + "/bot" + s.Token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &DispatchError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.Client.Do(req)
	if err != nil {
		// the url carries the token, keep it out of the error
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return &DispatchError{Err: err}
	}
	defer res.Body.Close()

	var reply sendMessageResp
	b, _ := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	_ = json.Unmarshal(b, &reply)

	if res.StatusCode < 200 || res.StatusCode > 299 || !reply.OK {
		return &DispatchError{Status: res.StatusCode, Description: reply.Description}
	}
	return nil
}

// LogSender only logs messages. Used when no bot token is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, message string) error {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("telegram disabled, message not sent", "chars", len([]rune(message)), "message", message)
	return nil
}
