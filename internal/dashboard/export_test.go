package dashboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/chiya/internal/models"
)

func TestWriteWorkbook(t *testing.T) {
	paid := order("5", "Asha", at("2025-01-15", "10:00"))
	paid.PaymentStatus = models.PaymentStatusCompleted
	open := order("7", "Ram", at("2025-01-15", "11:00"))

	v := Derive([]models.Order{paid, open}, Filter{Date: "2025-01-15", Location: kathmandu}, at("2025-01-15", "12:00"), DefaultRecencyWindow)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, v, kathmandu, "NPR"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Chiya x2", rows[1][6])

	revenue, err := f.GetCellValue(summarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "100", revenue)
}
