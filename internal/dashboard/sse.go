package dashboard

import (
	"time"

	"github.com/gin-gonic/gin"
)

// pollInterval is how often the event stream checks for new turns. A
// variable so tests can tighten it.
var pollInterval = 500 * time.Millisecond

// streamEvents pushes an SSE event whenever the transcript grows. The
// stream opens with a "connected" event so clients can tell the wire is
// live before the first turn arrives.
func streamEvents(c *gin.Context, sess SessionSource) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	seen := 0
	if sess != nil {
		seen = len(sess.History())
	}

	c.SSEvent("connected", gin.H{"ok": true})
	c.Writer.Flush()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
		if sess == nil {
			continue
		}
		history := sess.History()
		if len(history) > seen {
			c.SSEvent("turns", gin.H{
				"messages": history[seen:],
				"sending":  sess.Sending(),
			})
			c.Writer.Flush()
			seen = len(history)
		}
	}
}
