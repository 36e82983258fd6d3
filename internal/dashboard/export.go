package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet  = "Orders"
	summarySheet = "Summary"
)

var exportHeaders = []any{
	"Order ID", "Created", "Updated", "Table", "Customer", "Phone", "Items",
	"Total", "Payment Method", "Payment Status", "Order Status", "Note",
}

// WriteWorkbook writes the selected day's orders and totals as an xlsx workbook.
func WriteWorkbook(w io.Writer, v Views, loc *time.Location, currency string) error {
	loc = orLocal(loc)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(ordersSheet, "A1", &exportHeaders); err != nil {
		return err
	}

	for i, card := range v.DateFiltered {
		updated := ""
		if card.UpdatedAt != nil {
			updated = card.UpdatedAt.In(loc).Format("2006-01-02 15:04:05")
		}

		lines := make([]string, 0, len(card.Items))
		for _, item := range card.Items {
			lines = append(lines, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
		}

		row := []any{
			card.ID.String(),
			card.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
			updated,
			card.TableNumber,
			card.CustomerName,
			card.PhoneNumber,
			strings.Join(lines, ", "),
			card.TotalAmount,
			card.PaymentMethod,
			card.PaymentStatus,
			card.OrderStatus,
			card.Description,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Date", v.SelectedDate},
		{"Currency", currency},
		{"Total Orders", v.TotalOrders},
		{"Pending Payment", v.PendingCount},
		{"Paid", v.CompletedCount},
		{"Total Revenue", v.TotalRevenue},
	}
	for i, r := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}

	return f.Write(w)
}
