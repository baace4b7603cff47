// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"go.uber.org/zap"

	"github.com/genorisk/genorisk/internal/pipeline"
	"github.com/genorisk/genorisk/internal/report"
	"github.com/genorisk/genorisk/internal/task"
)

// Server runs analysis tasks submitted over HTTP. Uploads run in the
// background; clients poll task status and fetch results by task ID.
type Server struct {
	echo      *echo.Echo
	pipeline  *pipeline.Pipeline
	tasks     *task.Store
	uploadDir string
	logger    *zap.Logger
}

// New creates a server over the given pipeline and task store.
func New(p *pipeline.Pipeline, tasks *task.Store, uploadDir string) *Server {
	s := &Server{
		echo:      echo.New(),
		pipeline:  p,
		tasks:     tasks,
		uploadDir: uploadDir,
		logger:    zap.NewNop(),
	}

	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	s.echo.POST("/upload", s.handleUpload)
	s.echo.POST("/query_rsid", s.handleQueryRsID)
	s.echo.GET("/status/:task_id", s.handleStatus)
	s.echo.GET("/results/:task_id", s.handleResults)
	s.echo.GET("/results/:task_id/csv", s.handleResultsCSV)

	return s
}

// SetLogger sets the logger for request and task lifecycle messages.
func (s *Server) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Start listens on the given address until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server run under httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// handleUpload accepts a VCF upload and queues an analysis task. The
// uploaded file is removed once its run finishes, whatever the outcome.
func (s *Server) handleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no file part"})
	}
	if file.Filename == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no selected file"})
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "cannot store upload"})
	}

	h := s.tasks.Create()
	path := filepath.Join(s.uploadDir, h.ID()+".vcf")
	if err := saveUpload(file, path); err != nil {
		s.logger.Error("saving upload failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "cannot store upload"})
	}

	s.logger.Info("upload queued",
		zap.String("task_id", h.ID()),
		zap.String("filename", file.Filename))

	go s.runFile(h, path)

	return c.JSON(http.StatusAccepted, map[string]string{
		"status":  string(task.StatusQueued),
		"task_id": h.ID(),
	})
}

// handleQueryRsID queues an analysis of a single dbSNP identifier.
func (s *Server) handleQueryRsID(c echo.Context) error {
	rsid := c.FormValue("rsid")
	if rsid == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing rsid parameter"})
	}

	h := s.tasks.Create()
	s.logger.Info("rsid query queued",
		zap.String("task_id", h.ID()),
		zap.String("rsid", rsid))

	go s.runRsID(h, rsid)

	return c.JSON(http.StatusAccepted, map[string]string{
		"status":  string(task.StatusQueued),
		"task_id": h.ID(),
	})
}

// handleStatus reports task progress, including the result once completed.
func (s *Server) handleStatus(c echo.Context) error {
	t, err := s.tasks.Get(c.Param("task_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "invalid task id"})
	}

	if t.Status == task.StatusFailed {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"status":        t.Status,
			"error_message": t.Error,
		})
	}

	resp := map[string]any{
		"status":   t.Status,
		"progress": t.Progress,
	}
	if t.Status == task.StatusCompleted {
		resp["result"] = t.Result
	}
	return c.JSON(http.StatusOK, resp)
}

// handleResults returns the completed result payload.
func (s *Server) handleResults(c echo.Context) error {
	t, err := s.tasks.Get(c.Param("task_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "invalid task id"})
	}
	if t.Status != task.StatusCompleted {
		return c.JSON(http.StatusAccepted, map[string]any{
			"status":   t.Status,
			"progress": t.Progress,
		})
	}
	return c.JSON(http.StatusOK, t.Result)
}

// handleResultsCSV exports the completed result as a CSV download.
func (s *Server) handleResultsCSV(c echo.Context) error {
	t, err := s.tasks.Get(c.Param("task_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "invalid task id"})
	}
	if t.Status != task.StatusCompleted {
		return c.JSON(http.StatusAccepted, map[string]any{"status": t.Status})
	}
	res, ok := t.Result.(*pipeline.Result)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "result unavailable"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="genorisk-%s.csv"`, t.ID))
	c.Response().WriteHeader(http.StatusOK)
	return report.NewCSVWriter(c.Response()).WriteResult(res)
}

func (s *Server) runFile(h *task.Handle, path string) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("removing upload failed", zap.String("path", path), zap.Error(err))
		}
	}()

	res, err := s.pipeline.RunFile(context.Background(), path, h)
	if err != nil {
		s.logger.Error("task failed", zap.String("task_id", h.ID()), zap.Error(err))
		h.Fail(err.Error())
		return
	}
	h.Complete(res)
	s.logger.Info("task completed", zap.String("task_id", h.ID()))
}

func (s *Server) runRsID(h *task.Handle, rsid string) {
	res, err := s.pipeline.RunRsID(context.Background(), rsid, h)
	if err != nil {
		s.logger.Error("task failed", zap.String("task_id", h.ID()), zap.Error(err))
		h.Fail(err.Error())
		return
	}
	h.Complete(res)
	s.logger.Info("task completed", zap.String("task_id", h.ID()))
}

// saveUpload copies a multipart upload to disk.
func saveUpload(file *multipart.FileHeader, path string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}
