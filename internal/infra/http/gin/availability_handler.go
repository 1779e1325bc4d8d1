package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"staynest/internal/app/dto"
	availabilityapp "staynest/internal/app/handlers/availability"
	"staynest/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Calendar reports per-day remaining units for a room over [start, end).
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a 2006-01-02 date"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be a 2006-01-02 date"})
		return
	}
	units, _ := strconv.Atoi(c.DefaultQuery("units", "1"))

	query := availabilityapp.CheckAvailabilityQuery{
		PropertyID: c.Param("id"),
		RoomID:     c.Param("roomID"),
		Start:      start,
		End:        end,
		Units:      units,
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
