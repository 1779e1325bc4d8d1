package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staynest/internal/app/commands"
	"staynest/internal/app/dto"
	bookingapp "staynest/internal/app/handlers/booking"
	"staynest/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	PropertyID    string    `json:"property_id"`
	RoomID        string    `json:"room_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	PaymentMethod string    `json:"payment_method"`
}

func (h BookingHandler) Create(c *gin.Context) {
	guestID, ok := userID(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID:       uuid.NewString(),
		PropertyID:      req.PropertyID,
		RoomID:          req.RoomID,
		GuestID:         guestID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Adults:          req.Adults,
		Children:        req.Children,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	cmd := bookingapp.ConfirmBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.ConfirmBookingCommand, *bookingapp.BookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) CheckIn(c *gin.Context) {
	cmd := bookingapp.CheckInBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.CheckInBookingCommand, *bookingapp.BookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) CheckOut(c *gin.Context) {
	cmd := bookingapp.CheckOutBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.CheckOutBookingCommand, *bookingapp.BookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd := bookingapp.CancelBookingCommand{BookingID: c.Param("id"), Reason: req.Reason}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Quote(c *gin.Context) {
	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))
	children, _ := strconv.Atoi(c.DefaultQuery("children", "0"))
	query := bookingapp.QuotePriceQuery{
		PropertyID: c.Query("property_id"),
		RoomID:     c.Query("room_id"),
		CheckIn:    c.Query("check_in"),
		CheckOut:   c.Query("check_out"),
		Adults:     adults,
		Children:   children,
	}
	result, err := queries.Ask[bookingapp.QuotePriceQuery, *dto.PriceBreakdown](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListMine(c *gin.Context) {
	guestID, ok := userID(c)
	if !ok {
		return
	}
	query := bookingapp.ListGuestBookingsQuery{GuestID: guestID}
	result, err := queries.Ask[bookingapp.ListGuestBookingsQuery, bookingapp.GuestBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
