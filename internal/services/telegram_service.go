package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/models"
	"github.com/example/chiya/internal/ordering"
)

const telegramAPI = "https://api.telegram.org"

// TelegramService sends order notifications to the counter's Telegram chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	currency    string
	apiBase     string
	client      *http.Client
	log         logrus.FieldLogger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID, currency string, log logrus.FieldLogger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		currency:    currency,
		apiBase:     telegramAPI,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log.WithField("component", "telegram"),
	}
}

// Enabled reports whether both the bot token and chat are configured.
func (s *TelegramService) Enabled() bool {
	return s.botToken != "" && s.adminChatID != ""
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends an HTML message to chatID.
func (s *TelegramService) SendMessage(ctx context.Context, chatID, text string) error {
	if s.botToken == "" {
		s.log.Debug("bot token not configured")
		return nil
	}

	body, err := json.Marshal(telegramMessage{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.WithError(err).Warn("failed to send message")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.WithField("status", resp.StatusCode).Warn("unexpected telegram status")
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		s.log.Debug("admin chat ID not configured")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.SendMessage(ctx, s.adminChatID, text)
}

// FormatPrice formats amount with thousand separators and the currency code.
func FormatPrice(amount int64, currency string) string {
	if currency == "" {
		currency = "NPR"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	str := fmt.Sprintf("%d", amount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return sign + result.String() + " " + currency
}

func (s *TelegramService) writeLines(b *strings.Builder, items []models.CartItem) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			html.EscapeString(item.Name),
			item.Quantity,
			FormatPrice(item.Price, s.currency),
			FormatPrice(item.LineTotal(), s.currency),
		)
	}
}

func paymentText(method string) string {
	if method == models.PaymentMethodOnline {
		return "Online (screenshot)"
	}
	return "Cash"
}

// NewOrderMessage renders the admin message for a placed order.
func (s *TelegramService) NewOrderMessage(order models.Order) string {
	var lines strings.Builder
	s.writeLines(&lines, order.CartItems())

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>🍽 Table:</b> %s
<b>👤 Customer:</b> %s
<b>📞 Phone:</b> %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s
<b>💳 Payment:</b> %s`,
		html.EscapeString(order.TableNumber),
		html.EscapeString(order.CustomerName),
		html.EscapeString(order.PhoneNumber),
		lines.String(),
		FormatPrice(order.TotalAmount, s.currency),
		paymentText(order.PaymentMethod),
	)
	if order.Description != "" {
		message += "\n<b>📝 Note:</b> " + html.EscapeString(order.Description)
	}
	return strings.TrimSpace(message + "\n━━━━━━━━━━━━━━━━━━")
}

// ItemsAddedMessage renders the admin message for items added to an order.
func (s *TelegramService) ItemsAddedMessage(order models.Order, merge ordering.Merge) string {
	var lines strings.Builder
	s.writeLines(&lines, merge.Added)

	message := fmt.Sprintf(`<b>➕ ITEMS ADDED</b>
<b>🍽 Table:</b> %s
<b>👤 Customer:</b> %s
<b>📦 Added:</b>
%s
<b>💰 Added total:</b> %s
<b>💰 New total:</b> %s
━━━━━━━━━━━━━━━━━━`,
		html.EscapeString(order.TableNumber),
		html.EscapeString(order.CustomerName),
		lines.String(),
		FormatPrice(merge.AddedTotal, s.currency),
		FormatPrice(merge.NewTotal, s.currency),
	)
	return strings.TrimSpace(message)
}

// OrderPlaced notifies the admin chat about a new order.
func (s *TelegramService) OrderPlaced(order models.Order) {
	if !s.Enabled() {
		return
	}
	if err := s.SendToAdmin(s.NewOrderMessage(order)); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("new order notification failed")
	}
}

// ItemsAdded notifies the admin chat that an order grew.
func (s *TelegramService) ItemsAdded(order models.Order, merge ordering.Merge) {
	if !s.Enabled() {
		return
	}
	if err := s.SendToAdmin(s.ItemsAddedMessage(order, merge)); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("items added notification failed")
	}
}

// PaymentReceived notifies the admin chat that staff confirmed a payment.
func (s *TelegramService) PaymentReceived(order models.Order) {
	if !s.Enabled() {
		return
	}

	message := fmt.Sprintf(`<b>✅ PAYMENT RECEIVED</b>
<b>🍽 Table:</b> %s
<b>👤 Customer:</b> %s
<b>💰 Amount:</b> %s
<b>💳 Method:</b> %s
━━━━━━━━━━━━━━━━━━`,
		html.EscapeString(order.TableNumber),
		html.EscapeString(order.CustomerName),
		FormatPrice(order.TotalAmount, s.currency),
		paymentText(order.PaymentMethod),
	)

	if err := s.SendToAdmin(strings.TrimSpace(message)); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Error("payment notification failed")
	}
}
