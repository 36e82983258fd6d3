package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/chiya/internal/logger"
	"github.com/example/chiya/internal/models"
	"github.com/example/chiya/internal/ordering"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "20 NPR", FormatPrice(20, "NPR"))
	assert.Equal(t, "1,250 NPR", FormatPrice(1250, ""))
	assert.Equal(t, "1,000,000 USD", FormatPrice(1000000, "USD"))
	assert.Equal(t, "-300 NPR", FormatPrice(-300, "NPR"))
}

func sampleOrder() models.Order {
	o := models.Order{
		TableNumber:   "5",
		CustomerName:  "Asha <3",
		PhoneNumber:   "9800000000",
		TotalAmount:   80,
		PaymentMethod: models.PaymentMethodCash,
	}
	o.SetItems([]models.CartItem{
		{ItemID: "1", Name: "Chiya", Price: 20, Quantity: 2},
		{ItemID: "8", Name: "Black Coffee", Price: 40, Quantity: 1},
	})
	return o
}

func TestNewOrderMessage(t *testing.T) {
	s := NewTelegramService("", "", "NPR", logger.Discard())
	msg := s.NewOrderMessage(sampleOrder())

	assert.Contains(t, msg, "<b>Chiya</b>")
	assert.Contains(t, msg, "2 x 20 NPR = 40 NPR")
	assert.Contains(t, msg, "80 NPR")
	assert.Contains(t, msg, "Asha &lt;3")
	assert.Contains(t, msg, "Cash")
}

func TestItemsAddedMessage(t *testing.T) {
	s := NewTelegramService("", "", "NPR", logger.Discard())
	merge := ordering.Merge{
		Added:      []models.CartItem{{ItemID: "1", Name: "Chiya", Price: 20, Quantity: 1}},
		AddedTotal: 20,
		NewTotal:   100,
	}
	msg := s.ItemsAddedMessage(sampleOrder(), merge)

	assert.Contains(t, msg, "1 x 20 NPR = 20 NPR")
	assert.Contains(t, msg, "100 NPR")
}

func TestOrderPlacedPostsToTelegram(t *testing.T) {
	var got telegramMessage
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewTelegramService("token", "42", "NPR", logger.Discard())
	s.apiBase = srv.URL

	s.OrderPlaced(sampleOrder())

	assert.Equal(t, "/bottoken/sendMessage", path)
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "NEW ORDER")
}

func TestSendMessageReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewTelegramService("token", "42", "NPR", logger.Discard())
	s.apiBase = srv.URL

	assert.Error(t, s.SendToAdmin("hi"))
}

func TestDisabledServiceSkipsSend(t *testing.T) {
	s := NewTelegramService("", "42", "NPR", logger.Discard())
	assert.False(t, s.Enabled())
	assert.NoError(t, s.SendToAdmin("hi"))
}
