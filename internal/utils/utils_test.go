package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	staffID := uuid.New()

	token, issued, err := GenerateToken("secret", staffID, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, staffID, claims.StaffID)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret", uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateToken("secret", uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

type checkoutForm struct {
	TableNumber   string `json:"table_number" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash online"`
	Quantity      int    `json:"quantity" validate:"min=1"`
}

func TestValidateStructMessages(t *testing.T) {
	err := ValidateStruct(checkoutForm{PaymentMethod: "cash", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "table_number is required", err.Error())

	err = ValidateStruct(checkoutForm{TableNumber: "4", PaymentMethod: "card", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "payment_method must be one of: cash online", err.Error())

	err = ValidateStruct(checkoutForm{TableNumber: "4", PaymentMethod: "cash"})
	require.Error(t, err)
	assert.Equal(t, "quantity must be at least 1", err.Error())

	assert.NoError(t, ValidateStruct(checkoutForm{TableNumber: "4", PaymentMethod: "online", Quantity: 2}))
}
