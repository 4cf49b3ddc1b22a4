package handler

import (
	"errors"
	"net/http"

	"github.com/act-collective/intelligence-service/internal/model"
	"github.com/act-collective/intelligence-service/internal/service"
	"github.com/act-collective/intelligence-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordHandler handles record ingestion and tagging HTTP requests
type RecordHandler struct {
	tagService     *service.TagService
	matcherService *service.MatcherService
	logger         *zap.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(tagService *service.TagService, matcherService *service.MatcherService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		tagService:     tagService,
		matcherService: matcherService,
		logger:         logger,
	}
}

// SyncRecords handles ingesting a batch of records from an upstream system
// POST /api/v1/records/sync
func (h *RecordHandler) SyncRecords(c *gin.Context) {
	var request struct {
		Source  string            `json:"source" binding:"required"`
		Records []model.RawRecord `json:"records" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	source := model.Source(request.Source)
	if !source.Valid() {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Unknown record source: "+request.Source)
		return
	}

	synced, rejected, err := h.tagService.SyncRecords(c.Request.Context(), source, request.Records)
	if err != nil {
		h.logger.Error("Failed to sync records", zap.String("source", request.Source), zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to sync records")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"synced":   synced,
		"rejected": rejected,
	}})
}

// TagRecord handles applying a manual project tag to a record
// POST /api/v1/records/{id}/tag
func (h *RecordHandler) TagRecord(c *gin.Context) {
	recordID := c.Param("id")

	var request struct {
		ProjectCode string `json:"project_code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.tagService.ApplyTag(c.Request.Context(), recordID, request.ProjectCode)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRecordNotFound):
			utils.SendErrorResponse(c, http.StatusNotFound, "Record not found")
		case errors.Is(err, model.ErrUnknownProjectCode):
			utils.SendErrorResponse(c, http.StatusBadRequest, "Unknown project code: "+request.ProjectCode)
		default:
			h.logger.Error("Failed to tag record", zap.String("record_id", recordID), zap.Error(err))
			utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to tag record")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

// GetTagSuggestions handles computing tag suggestions for untagged records
// GET /api/v1/tags/suggestions
func (h *RecordHandler) GetTagSuggestions(c *gin.Context) {
	params := utils.ParsePaginationParams(c, 100, 500) // default limit: 100, max limit: 500

	suggestions, err := h.matcherService.SuggestTags(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute tag suggestions", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to compute tag suggestions")
		return
	}

	total := len(suggestions)
	start := (params.Page - 1) * params.Limit
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	utils.SendPaginatedResponse(c, http.StatusOK, suggestions[start:end], total, params.Page, params.Limit)
}
