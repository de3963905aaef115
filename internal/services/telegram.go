package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/samber/do"
)

type ServiceTelegram struct {
	*ServiceHTTP
	container *do.Injector
	baseURL   string
	botToken  string
}

func NewServiceTelegram(container *do.Injector) (*ServiceTelegram, error) {
	return &ServiceTelegram{&ServiceHTTP{}, container, TELEGRAM_API_BASE_URL, os.Getenv("BOT_TOKEN")}, nil
}

type telegramChatMember struct {
	Status string `json:"status"`
}

type telegramChatMemberResp struct {
	OK     bool                `json:"ok"`
	Result *telegramChatMember `json:"result"`
}

// IsChatMember reports whether the user holds any active membership in the
// chat; left, kicked and restricted do not count.
func (service *ServiceTelegram) IsChatMember(ctx context.Context, chatID, userID int64) (bool, error) {
	resp, err := service.httpClient(0).Get(
		fmt.Sprintf("%s/bot%s/getChatMember?chat_id=%d&user_id=%d", service.baseURL, service.botToken, chatID, userID),
		http.Header{},
	)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var body telegramChatMemberResp
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return false, err
	}
	if !body.OK || body.Result == nil {
		return false, nil
	}

	switch body.Result.Status {
	case "left", "kicked", "restricted":
		return false, nil
	}
	return true, nil
}

// SendChatAction pokes a chat through the given bot token. A 2xx answer is
// proof enough that the bot can reach the chat.
func (service *ServiceTelegram) SendChatAction(ctx context.Context, botToken string, chatID int64, action string) error {
	resp, err := service.httpClient(0).Get(
		fmt.Sprintf("%s/bot%s/sendChatAction?chat_id=%d&action=%s", service.baseURL, botToken, chatID, action),
		http.Header{},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendChatAction: unexpected status %d", resp.StatusCode)
	}
	return nil
}
