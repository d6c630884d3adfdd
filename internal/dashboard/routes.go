package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ovelund/taskdeck/internal/session"
)

// transcriptView is the JSON shape of the history endpoint.
type transcriptView struct {
	Sending  bool              `json:"sending"`
	Messages []session.Message `json:"messages"`
}

func registerRoutes(router *gin.Engine, sess SessionSource, tasks TaskLister) {
	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "layout.html", gin.H{
			"title": "taskdeck",
		})
	})

	router.GET("/api/history", func(c *gin.Context) {
		view := transcriptView{Messages: []session.Message{}}
		if sess != nil {
			view.Sending = sess.Sending()
			view.Messages = sess.History()
		}
		c.JSON(http.StatusOK, view)
	})

	router.GET("/api/tasks", func(c *gin.Context) {
		if tasks == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task client not configured"})
			return
		}
		list, err := tasks.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": list})
	})

	router.GET("/api/events", func(c *gin.Context) {
		streamEvents(c, sess)
	})
}
