// Package notify pushes booking events to a Telegram chat so hosts hear
// about new reservations without polling their dashboard. Disabled unless
// a bot has been configured.
package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"roamstay/server/internal/models"
)

type Service struct {
	logger *logrus.Logger
	client *http.Client
	config *models.TelegramConfig
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	s.config = config
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyNewBooking sends a notification about a freshly confirmed booking.
func (s *Service) NotifyNewBooking(b models.Booking, listing models.Listing) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	message := fmt.Sprintf(
		"🏠 <b>New booking: %s</b>\n\n"+
			"📍 %s, %s\n"+
			"📅 %s → %s (%d nights)\n"+
			"💰 $%.2f total\n"+
			"Guest: %s",
		listing.Title,
		listing.City, listing.Country,
		b.StartDate.Format("2006-01-02"),
		b.EndDate.Format("2006-01-02"),
		b.Nights(),
		b.TotalPrice,
		b.GuestID,
	)

	if err := s.SendMessage(message); err != nil {
		s.logger.WithError(err).Error("Failed to send booking notification")
		return err
	}
	return nil
}

// NotifyCancellation reports a cancelled booking.
func (s *Service) NotifyCancellation(b models.Booking) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	message := fmt.Sprintf(
		"❌ <b>Booking cancelled</b>\n\n"+
			"📅 %s → %s\n"+
			"Property: %s",
		b.StartDate.Format("2006-01-02"),
		b.EndDate.Format("2006-01-02"),
		b.PropertyID,
	)
	return s.SendMessage(message)
}
