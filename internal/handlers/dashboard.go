package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/chiya/internal/dashboard"
	"github.com/example/chiya/internal/gateway"
	"github.com/example/chiya/internal/middleware"
	"github.com/example/chiya/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PaymentNotifier is told when staff confirm a payment.
type PaymentNotifier interface {
	PaymentReceived(order models.Order)
}

// DashboardHandler serves the staff dashboard.
type DashboardHandler struct {
	board    *dashboard.Board
	auth     gateway.AuthProvider
	notifier PaymentNotifier
	loc      *time.Location
	refresh  time.Duration
	currency string
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewDashboardHandler constructs DashboardHandler. notifier may be nil.
func NewDashboardHandler(board *dashboard.Board, auth gateway.AuthProvider, notifier PaymentNotifier, loc *time.Location, refresh time.Duration, currency string, log logrus.FieldLogger) *DashboardHandler {
	if refresh <= 0 {
		refresh = 30 * time.Second
	}
	return &DashboardHandler{
		board:    board,
		auth:     auth,
		notifier: notifier,
		loc:      loc,
		refresh:  refresh,
		currency: currency,
		log:      log.WithField("component", "dashboard_handler"),
		now:      time.Now,
	}
}

func (h *DashboardHandler) filter(c *fiber.Ctx) (dashboard.Filter, error) {
	date, err := dashboard.ParseDate(c.Query("date"))
	if err != nil {
		return dashboard.Filter{}, err
	}

	loc := h.loc
	if tz := c.Query("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return dashboard.Filter{}, fiber.NewError(fiber.StatusBadRequest, "unknown time zone")
		}
	}

	return dashboard.Filter{Date: date, Search: c.Query("q"), Location: loc}, nil
}

type dashboardPayload struct {
	Loading bool            `json:"loading"`
	Views   dashboard.Views `json:"views"`
}

func (h *DashboardHandler) payload(f dashboard.Filter) dashboardPayload {
	return dashboardPayload{
		Loading: h.board.Loading(),
		Views:   h.board.Views(f, h.now()),
	}
}

// GetViews returns the derived dashboard for ?date=&q=&tz=.
func (h *DashboardHandler) GetViews(c *fiber.Ctx) error {
	f, err := h.filter(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.payload(f)})
}

// Stream pushes the derived dashboard as server-sent events whenever orders
// change, and on every refresh tick so highlights expire. It ends when the
// client goes away or the session is signed out.
func (h *DashboardHandler) Stream(c *fiber.Ctx) error {
	f, err := h.filter(c)
	if err != nil {
		return err
	}
	token, ok := middleware.GetCurrentToken(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	changed := make(chan struct{}, 1)
	cancelWatch := h.board.Watch(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	signedOut := make(chan struct{})
	var once sync.Once
	cancelAuth := h.auth.ObserveAuthState(token, func(identity *gateway.Identity) {
		if identity == nil {
			once.Do(func() { close(signedOut) })
		}
	})

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	refresh := h.refresh
	log := h.log
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancelWatch()
		defer cancelAuth()

		ticker := time.NewTicker(refresh)
		defer ticker.Stop()

		send := func() error {
			data, err := json.Marshal(h.payload(f))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: views\ndata: %s\n\n", data)
			return w.Flush()
		}

		if err := send(); err != nil {
			return
		}
		for {
			select {
			case <-changed:
			case <-ticker.C:
			case <-signedOut:
				fmt.Fprint(w, "event: signed_out\ndata: {}\n\n")
				_ = w.Flush()
				return
			}
			if err := send(); err != nil {
				log.WithError(err).Debug("dashboard stream closed")
				return
			}
		}
	})
	return nil
}

// Export downloads the selected day's orders as an xlsx workbook.
func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	f, err := h.filter(c)
	if err != nil {
		return err
	}
	views := h.board.Views(f, h.now())

	var buf bytes.Buffer
	if err := dashboard.WriteWorkbook(&buf, views, f.Location, h.currency); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=orders-%s.xlsx", views.SelectedDate))
	return c.Send(buf.Bytes())
}

// MarkPaid records payment for an order.
func (h *DashboardHandler) MarkPaid(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.board.MarkPaid(c.UserContext(), id); err != nil {
		return err
	}

	order, _ := h.board.Order(id)
	if h.notifier != nil {
		go h.notifier.PaymentReceived(order)
	}
	h.logTransition(c, id, "payment marked completed")
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// MarkDone completes an order.
func (h *DashboardHandler) MarkDone(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.board.MarkOrderDone(c.UserContext(), id); err != nil {
		return err
	}

	order, _ := h.board.Order(id)
	h.logTransition(c, id, "order marked done")
	return c.JSON(fiber.Map{"success": true, "data": order})
}

func (h *DashboardHandler) logTransition(c *fiber.Ctx, id, msg string) {
	entry := h.log.WithField("order_id", id)
	if staff, ok := middleware.GetCurrentStaff(c); ok {
		entry = entry.WithField("staff", staff.Email)
	}
	entry.Info(msg)
}
