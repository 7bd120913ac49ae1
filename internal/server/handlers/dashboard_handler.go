package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetDashboard renders the aggregate KPI view model.
func (h *Handler) GetDashboard(c *gin.Context) {
	dash, err := h.reportingSvc.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// ExportDashboard streams the whole dashboard as an xlsx workbook.
func (h *Handler) ExportDashboard(c *gin.Context) {
	buf, err := h.reportingSvc.ExportWorkbook(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("caserito-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// RefreshCache drops every memoized table so the next reads hit the store.
// This is the dashboard's "force reconnect" button.
func (h *Handler) RefreshCache(c *gin.Context) {
	h.store.Invalidate()
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}
