package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// normalizeCommand strips surrounding whitespace and a trailing @botname
// suffix, so "/summary@FxSentinelBot" dispatches as "/summary".
func normalizeCommand(text string) string {
	cmd := strings.TrimSpace(text)
	if strings.HasPrefix(cmd, "/") {
		if at := strings.Index(cmd, "@"); at > 0 {
			cmd = cmd[:at]
		}
	}
	return cmd
}

// dispatch routes one update through the handler. It returns the reply text
// and the chat it belongs to; ok is false when the update carries no command
// or comes from a chat other than the configured one.
func (t *TelegramNotifier) dispatch(update telegramUpdate, handler CommandHandler) (reply string, chatID int64, ok bool) {
	if update.Message == nil || update.Message.Text == "" {
		return "", 0, false
	}
	chatID = update.Message.Chat.ID
	if strconv.FormatInt(chatID, 10) != t.ChatID {
		log.Printf("[WARN] ignoring command from unconfigured chat %d", chatID)
		return "", 0, false
	}
	cmd := normalizeCommand(update.Message.Text)
	log.Printf("[INFO] received command: %s", cmd)
	reply = handler(cmd)
	if reply == "" {
		return "", 0, false
	}
	return reply, chatID, true
}

// StartPolling begins long-polling for Telegram commands and dispatches them
// to handler, replying in the issuing chat. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=30", t.apiBase(), t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Printf("[WARN] decode polling response: %v", err)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			reply, chatID, ok := t.dispatch(update, handler)
			if !ok {
				continue
			}
			if err := t.sendTo(strconv.FormatInt(chatID, 10), reply); err != nil {
				log.Printf("[ERROR] send reply: %v", err)
			}
		}
	}
}
