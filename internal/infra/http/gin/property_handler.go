package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staynest/internal/app/commands"
	propertyapp "staynest/internal/app/handlers/property"
	"staynest/internal/app/queries"
)

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createPropertyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Line1       string `json:"line1"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

func (h PropertyHandler) Create(c *gin.Context) {
	hostID, ok := userID(c)
	if !ok {
		return
	}
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.CreatePropertyCommand{
		HostID:          hostID,
		Title:           req.Title,
		Description:     req.Description,
		Line1:           req.Line1,
		City:            req.City,
		Country:         req.Country,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[propertyapp.CreatePropertyCommand, *propertyapp.CreatePropertyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	query := propertyapp.GetPropertyQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[propertyapp.GetPropertyQuery, *propertyapp.PropertyView](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type bedRequest struct {
	Kind         string `json:"kind"`
	Count        int    `json:"count"`
	Accommodates int    `json:"accommodates"`
}

type periodRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Units int       `json:"units"`
}

type addRoomRequest struct {
	Name              string          `json:"name"`
	Beds              []bedRequest    `json:"beds"`
	BaseAdults        int             `json:"base_adults"`
	MaximumAdults     int             `json:"maximum_adults"`
	MaximumChildren   int             `json:"maximum_children"`
	MaximumOccupancy  int             `json:"maximum_occupancy"`
	Currency          string          `json:"currency"`
	BaseAdultsCharge  int64           `json:"base_adults_charge"`
	ExtraAdultsCharge int64           `json:"extra_adults_charge"`
	ChildCharge       int64           `json:"child_charge"`
	Availability      []periodRequest `json:"availability"`
}

func (h PropertyHandler) AddRoom(c *gin.Context) {
	hostID, ok := userID(c)
	if !ok {
		return
	}
	var req addRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.AddRoomCommand{
		HostID:            hostID,
		PropertyID:        c.Param("id"),
		Name:              req.Name,
		BaseAdults:        req.BaseAdults,
		MaximumAdults:     req.MaximumAdults,
		MaximumChildren:   req.MaximumChildren,
		MaximumOccupancy:  req.MaximumOccupancy,
		Currency:          req.Currency,
		BaseAdultsCharge:  req.BaseAdultsCharge,
		ExtraAdultsCharge: req.ExtraAdultsCharge,
		ChildCharge:       req.ChildCharge,
	}
	for _, bed := range req.Beds {
		cmd.Beds = append(cmd.Beds, propertyapp.BedInput{Kind: bed.Kind, Count: bed.Count, Accommodates: bed.Accommodates})
	}
	for _, period := range req.Availability {
		cmd.Availability = append(cmd.Availability, propertyapp.PeriodInput{Start: period.Start, End: period.End, Units: period.Units})
	}
	result, err := commands.Dispatch[propertyapp.AddRoomCommand, *propertyapp.AddRoomResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) CompleteMedia(c *gin.Context) {
	hostID, ok := userID(c)
	if !ok {
		return
	}
	cmd := propertyapp.CompleteMediaCommand{HostID: hostID, PropertyID: c.Param("id")}
	result, err := commands.Dispatch[propertyapp.CompleteMediaCommand, *propertyapp.CompleteMediaResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.Gate.OK {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Approve(c *gin.Context) {
	cmd := propertyapp.ApprovePropertyCommand{PropertyID: c.Param("id")}
	result, err := commands.Dispatch[propertyapp.ApprovePropertyCommand, *propertyapp.ReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type rejectPropertyRequest struct {
	Reason string `json:"reason"`
}

func (h PropertyHandler) Reject(c *gin.Context) {
	var req rejectPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.RejectPropertyCommand{PropertyID: c.Param("id"), Reason: req.Reason}
	result, err := commands.Dispatch[propertyapp.RejectPropertyCommand, *propertyapp.ReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PropertyHTTP = PropertyHandler{}
