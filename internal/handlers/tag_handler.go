package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/services"
)

// TagHandler handles tag-related requests.
type TagHandler struct {
	tagService services.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagRequest pairs a main tag with an optional sub tag.
type TagRequest struct {
	ParentID  uint  `json:"parent_id" binding:"required"`
	ChildID   *uint `json:"child_id"`
	TagTypeID *uint `json:"tag_type_id"`
}

// MainTagRequest names a top-level tag.
type MainTagRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	TagTypeID *uint  `json:"tag_type_id"`
}

// SubTagRequest names a refinement of a main tag.
type SubTagRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	ParentID  uint   `json:"parent_id" binding:"required"`
	TagTypeID *uint  `json:"tag_type_id"`
}

// TagResponse represents a referenced tag pair.
type TagResponse struct {
	ID        uint   `json:"id"`
	ParentID  uint   `json:"parent_id"`
	ChildID   *uint  `json:"child_id,omitempty"`
	TagTypeID *uint  `json:"tag_type_id,omitempty"`
	Name      string `json:"name"`
}

func toTagResponse(t *models.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		ParentID:  t.ParentID,
		ChildID:   t.ChildID,
		TagTypeID: t.TagTypeID,
		Name:      t.DisplayName(),
	}
}

// ListTags returns all tag pairs.
// @Summary     List tags
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} TagResponse
// @Router      /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags()
	if err != nil {
		respondWithError(c, err)
		return
	}
	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, toTagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tags": out})
}

// CreateTag registers a (parent, child) tag pair.
// @Summary     Create a tag pair
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TagRequest true "Tag pair"
// @Success     201 {object} TagResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	tag, err := h.tagService.CreateTag(req.ParentID, req.ChildID, req.TagTypeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": toTagResponse(tag)})
}

// DeleteTag removes an unreferenced tag pair.
// @Summary     Delete a tag pair
// @Tags        tags
// @Security    BearerAuth
// @Param       tag_id path int true "Tag ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Tag still referenced"
// @Router      /tags/{tag_id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := parsePathID(c, "tag_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.tagService.DeleteTag(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateMainTag creates a top-level tag.
// @Summary     Create a main tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MainTagRequest true "Main tag"
// @Success     201 {object} models.MainTag
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /tags/main [post]
func (h *TagHandler) CreateMainTag(c *gin.Context) {
	var req MainTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	tag, err := h.tagService.CreateMainTag(req.Name, req.TagTypeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"main_tag": tag})
}

// UpdateMainTag renames a top-level tag.
// @Summary     Update a main tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       main_tag_id path int true "Main tag ID"
// @Param       request body MainTagRequest true "Main tag"
// @Success     200 {object} models.MainTag
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /tags/main/{main_tag_id} [put]
func (h *TagHandler) UpdateMainTag(c *gin.Context) {
	id, err := parsePathID(c, "main_tag_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req MainTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	tag, err := h.tagService.UpdateMainTag(id, req.Name, req.TagTypeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"main_tag": tag})
}

// CreateSubTag creates a refinement of a main tag.
// @Summary     Create a sub tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SubTagRequest true "Sub tag"
// @Success     201 {object} models.SubTag
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /tags/sub [post]
func (h *TagHandler) CreateSubTag(c *gin.Context) {
	var req SubTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	tag, err := h.tagService.CreateSubTag(req.Name, req.ParentID, req.TagTypeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sub_tag": tag})
}

// UpdateSubTag renames or re-parents a sub tag.
// @Summary     Update a sub tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       sub_tag_id path int true "Sub tag ID"
// @Param       request body SubTagRequest true "Sub tag"
// @Success     200 {object} models.SubTag
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /tags/sub/{sub_tag_id} [put]
func (h *TagHandler) UpdateSubTag(c *gin.Context) {
	id, err := parsePathID(c, "sub_tag_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req SubTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	tag, err := h.tagService.UpdateSubTag(id, req.Name, req.ParentID, req.TagTypeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sub_tag": tag})
}

// TagGraph returns two years of monthly totals for a tag.
// @Summary     Monthly tag totals
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Param       tag_id path int true "Tag ID"
// @Success     200 {object} services.TagGraph
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /tags/{tag_id}/graph [get]
func (h *TagHandler) TagGraph(c *gin.Context) {
	id, err := parsePathID(c, "tag_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	graph, err := h.tagService.Graph(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"graph": graph})
}
