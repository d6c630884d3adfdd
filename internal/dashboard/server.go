// Package dashboard serves a read-only local web view of the current chat
// transcript and the remote task list.
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ovelund/taskdeck/internal/session"
	"github.com/ovelund/taskdeck/internal/taskapi"
)

// SessionSource exposes the conversation snapshot the dashboard renders.
type SessionSource interface {
	History() []session.Message
	Sending() bool
}

// TaskLister abstracts the task client's list call.
type TaskLister interface {
	List(ctx context.Context) ([]taskapi.Task, error)
}

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Session SessionSource // optional; transcript endpoints report empty without it
	Tasks   TaskLister    // optional; task endpoints report 503 without it
	Port    int
	Out     io.Writer
}

// Start launches the dashboard HTTP server. It blocks until ctx is
// cancelled, then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(opts)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// newRouter builds the gin engine with templates and routes registered.
func newRouter(opts StartOpts) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl := template.Must(template.ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, opts.Session, opts.Tasks)
	return router
}
