package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"crisis-response/internal/db"
)

func (s *Server) adminRouter() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	admin := engine.Group("/admin")
	admin.GET("/sessions", s.handleAdminSessions)
	admin.POST("/sessions/:id/restore", s.handleAdminRestore)
	return engine
}

func (s *Server) handleAdminSessions(c *gin.Context) {
	live := s.store.ListSummaries()
	liveRows := make([]gin.H, 0, len(live))
	for _, summary := range live {
		liveRows = append(liveRows, gin.H{
			"session_id": summary.ID,
			"code":       summary.Code,
			"status":     summary.Status,
			"players":    summary.Players,
		})
	}
	payload := gin.H{"live": liveRows}

	if s.db != nil {
		page, perPage := parsePagination(c, 20, 100)
		var total int64
		if err := s.db.Model(&db.Session{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to list sessions"})
			return
		}
		var records []db.Session
		if err := s.db.Order("id desc").Offset((page - 1) * perPage).Limit(perPage).Find(&records).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to list sessions"})
			return
		}
		stored := make([]gin.H, 0, len(records))
		for _, record := range records {
			stored = append(stored, gin.H{
				"id":            record.ID,
				"code":          record.Code,
				"status":        record.Status,
				"current_index": record.CurrentIndex,
				"created_at":    record.CreatedAt,
			})
		}
		payload["stored"] = stored
		payload["pagination"] = paginationPayload(page, perPage, total)
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleAdminRestore(c *gin.Context) {
	session, err := s.restoreSessionFromDB(c.Param("id"))
	if err != nil {
		log.Printf("admin restore failed id=%s error=%v", c.Param("id"), err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	var payload map[string]any
	if err := s.store.ViewSession(session.ID, func(session *Session) {
		payload = s.snapshot(session)
	}); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	log.Printf("session restored session_id=%s code=%s status=%s", session.ID, session.Code, session.Status)
	c.JSON(http.StatusOK, payload)
}
