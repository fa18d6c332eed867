package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/models"
)

// List renders /favorites, /watched or /watchlater. Anonymous visitors get
// the sign-in prompt and no list is read.
func (h *Handler) List(c *gin.Context) {
	category, err := models.ParseCategory(strings.TrimPrefix(c.FullPath(), "/"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	session := SessionFrom(c)
	data := listPage{
		Page:     h.page(c, category.DisplayName()),
		Category: category,
		Heading:  category.Heading(),
		Prompt:   signInPrompt(category),
	}
	if !session.SignedIn() {
		c.HTML(http.StatusOK, pageList, data)
		return
	}

	entries, err := h.memberships.List(c.Request.Context(), session.UID(), category)
	if err != nil {
		h.logger.Warn("Failed to load list",
			zap.String("userID", session.UID()),
			zap.String("category", string(category)),
			zap.Error(err))
		data.LoadFailed = true
	}
	data.Entries = entries
	c.HTML(http.StatusOK, pageList, data)
}

// Remove deletes one entry from a list and returns to the list page.
func (h *Handler) Remove(c *gin.Context) {
	session := SessionFrom(c)
	if !session.SignedIn() {
		setFlash(c, "error", FlashSignInFirst)
		redirect(c, "/login")
		return
	}

	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		setFlash(c, "error", FlashOperationFailed)
		redirect(c, "/")
		return
	}
	back := "/" + category.Slug()

	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil || movieID <= 0 {
		setFlash(c, "error", FlashOperationFailed)
		redirect(c, back)
		return
	}

	if err := h.memberships.Remove(c.Request.Context(), session.UID(), category, movieID); err != nil {
		h.logger.Warn("Remove failed", zap.String("userID", session.UID()), zap.Int("movieID", movieID), zap.Error(err))
		setFlash(c, "error", FlashOperationFailed)
		redirect(c, back)
		return
	}
	setFlash(c, "success", category.ToggleMessage(models.MembershipAbsent))
	redirect(c, back)
}
