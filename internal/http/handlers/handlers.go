package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/db"
	"github.com/satwikkini-01/Sahaay/internal/grouping"
	"github.com/satwikkini-01/Sahaay/internal/hotspot"
	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/service"
	"github.com/satwikkini-01/Sahaay/internal/sla"
)

type Handler struct {
	Store     *db.Store
	Intake    *service.IntakeService
	Engine    *sla.Engine
	Predictor *sla.Predictor
	Validator *validator.Validate
	Logger    zerolog.Logger

	DisplayRadiusKm    float64
	HotspotEpsilonKm   float64
	HotspotMinPoints   int
	HeatmapBandwidthKm float64
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createComplaintRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=3,max=5000"`
	Category    string   `json:"category" validate:"required,max=50"`
	Subcategory string   `json:"subcategory" validate:"max=50"`
	Lat         *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon         *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	Address     string   `json:"address" validate:"max=300"`
	Zipcode     string   `json:"zipcode" validate:"max=20"`
	City        string   `json:"city" validate:"max=100"`
}

// @Summary File a complaint
// @Description Creates a complaint, scores its priority and links near-duplicate reports
// @Tags complaints
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/complaints [post]
func (h *Handler) ComplaintCreate(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid complaint", err.Error())
		return
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lon must be provided together", nil)
		return
	}

	complaint, analysis, err := h.Intake.Create(c.Request.Context(), service.NewComplaint{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Lat:         req.Lat,
		Lon:         req.Lon,
		Address:     req.Address,
		Zipcode:     req.Zipcode,
		City:        req.City,
	})
	if err != nil {
		h.Logger.Error().Err(err).Msg("complaint create failed")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create complaint", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"complaint": complaint,
		"analysis":  analysis,
	})
}

// @Summary List complaints
// @Tags complaints
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/complaints [get]
func (h *Handler) ComplaintsList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	complaints, err := h.Store.ListComplaints(c.Request.Context(), db.ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list complaints", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "count": len(complaints)})
}

func (h *Handler) ComplaintDetails(c *gin.Context) {
	complaint, err := h.Store.GetComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get complaint", err.Error())
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// @Summary SLA breach risk for one complaint
// @Tags sla
// @Produce json
// @Success 200 {object} sla.EarlyWarning
// @Router /api/complaints/{id}/risk [get]
func (h *Handler) ComplaintRisk(c *gin.Context) {
	complaint, err := h.Store.GetComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get complaint", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Predictor.CheckEarlyWarning(c.Request.Context(), complaint))
}

// @Summary Hotspot map overlay
// @Description Density clusters plus a kernel-density heatmap over all located complaints
// @Tags map
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/complaints/hotspots [get]
func (h *Handler) Hotspots(c *gin.Context) {
	complaints, err := h.Store.Located(c.Request.Context(), c.Query("category"), 0)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load complaints", err.Error())
		return
	}

	epsilon := queryFloat(c, "epsilon_km", h.HotspotEpsilonKm)
	minPoints := queryInt(c, "min_points", h.HotspotMinPoints)
	bandwidth := queryFloat(c, "bandwidth_km", h.HeatmapBandwidthKm)

	features := make([]gin.H, 0, len(complaints))
	for _, comp := range complaints {
		features = append(features, gin.H{
			"type": "Feature",
			"geometry": gin.H{
				"type":        "Point",
				"coordinates": [2]float64{*comp.Lon, *comp.Lat},
			},
			"properties": gin.H{
				"id":       comp.ID,
				"title":    comp.Title,
				"category": comp.Category,
				"priority": comp.Priority,
				"status":   comp.Status,
			},
		})
	}

	clusters := hotspot.DBSCAN(complaints, epsilon, minPoints)
	heatmap := hotspot.Heatmap(complaints, bandwidth)

	c.JSON(http.StatusOK, gin.H{
		"type":     "FeatureCollection",
		"features": features,
		"clusters": clusters,
		"heatmap":  heatmap,
	})
}

// @Summary Duplicate complaint groups
// @Tags complaints
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/complaints/groups [get]
func (h *Handler) Groups(c *gin.Context) {
	since := time.Now().Add(-grouping.DefaultWindow)
	complaints, err := h.Store.ListComplaints(c.Request.Context(), db.ListFilter{Limit: 200})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load complaints", err.Error())
		return
	}

	recent := complaints[:0]
	for _, comp := range complaints {
		if comp.CreatedAt.After(since) {
			recent = append(recent, comp)
		}
	}

	radius := queryFloat(c, "radius_km", h.DisplayRadiusKm)
	groups := grouping.GroupComplaints(recent, radius)
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.Store.ComplaintAnalytics(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to compute analytics", err.Error())
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// @Summary Recommended SLA hours for a category and priority
// @Tags sla
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/sla/recommendation [get]
func (h *Handler) SLARecommendation(c *gin.Context) {
	category := c.Query("category")
	priority := c.Query("priority")
	if category == "" || priority == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "category and priority are required", nil)
		return
	}

	hours, fromHistory := h.Predictor.RecommendSLAHours(c.Request.Context(), category, priority)
	c.JSON(http.StatusOK, gin.H{
		"category":       category,
		"priority":       priority,
		"sla_hours":      hours,
		"from_history":   fromHistory,
		"low_confidence": !fromHistory,
	})
}

// @Summary Open complaints at risk of breaching SLA
// @Tags sla
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/sla/at-risk [get]
func (h *Handler) AtRisk(c *gin.Context) {
	open, err := h.Store.OpenComplaints(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load open complaints", err.Error())
		return
	}
	warnings := h.Predictor.AtRisk(c.Request.Context(), open)
	c.JSON(http.StatusOK, gin.H{"at_risk": warnings, "count": len(warnings)})
}

// @Summary Run one SLA sweep now
// @Tags sla
// @Produce json
// @Success 200 {object} sla.SweepSummary
// @Router /api/sla/run [post]
func (h *Handler) RunSLA(c *gin.Context) {
	summary, err := h.Engine.Sweep(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SWEEP_ERROR", "SLA sweep failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Resolve(c *gin.Context) {
	err := h.Store.ResolveComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve complaint", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusResolved})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func queryFloat(c *gin.Context, key string, fallback float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
