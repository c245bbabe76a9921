package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Raof-Rasti/timetabling-project/internal/client"
	"github.com/Raof-Rasti/timetabling-project/internal/store"
	"github.com/Raof-Rasti/timetabling-project/internal/table"
	"github.com/Raof-Rasti/timetabling-project/internal/workbook"
)

// singleResult feeds the single-upload result panel.
type singleResult struct {
	SoftScore    float64
	Counts       client.Counts
	Preview      table.Table
	DownloadURL  string
	DownloadName string
}

// singlePage is the render context of the single-upload page.
type singlePage struct {
	Error  string
	Result *singleResult
}

// captionedTable pairs one result table with its heading.
type captionedTable struct {
	Caption string
	Table   table.Table
}

// batchPage is the render context of the four-upload page.
type batchPage struct {
	Error  string
	Tables []captionedTable
}

// SinglePage renders the single-workbook upload form.
// GET /
func (s *Server) SinglePage(c *gin.Context) {
	c.HTML(http.StatusOK, "single.tmpl", singlePage{})
}

// SubmitSingle forwards one workbook to the scheduling service and renders
// score, counts, preview and download link.
// POST /schedule
func (s *Server) SubmitSingle(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.HTML(http.StatusBadRequest, "single.tmpl", singlePage{Error: msgFileRequired})
		return
	}

	subID := s.recordSubmission(store.KindSingle, fh.Filename)

	f, err := fh.Open()
	if err != nil {
		s.failSubmission(subID, msgRequestFailed)
		c.HTML(http.StatusBadRequest, "single.tmpl", singlePage{Error: msgRequestFailed})
		return
	}
	defer f.Close()

	res, err := s.single.Submit(c.Request.Context(), client.Upload{
		Filename: fh.Filename,
		Content:  f,
	})
	if err != nil {
		msg, status := describeError(err)
		s.log.Error().Err(err).Str("file", fh.Filename).Msg("schedule submission failed")
		s.failSubmission(subID, msg)
		c.HTML(status, "single.tmpl", singlePage{Error: msg})
		return
	}

	if s.store != nil {
		if err := s.store.CompleteSubmission(subID, res.SoftScore, res.Counts.Sessions, res.Counts.HardErrors, res.Counts.SoftDetails, res.Token); err != nil {
			s.log.Error().Err(err).Msg("record submission result")
		}
	}

	c.HTML(http.StatusOK, "single.tmpl", singlePage{
		Result: &singleResult{
			SoftScore:    res.SoftScore,
			Counts:       res.Counts,
			Preview:      table.Build(res.Preview),
			DownloadURL:  s.single.DownloadURL(res.Token),
			DownloadName: s.cfg.Download.Filename,
		},
	})
}

// BatchPage renders the four-workbook upload form.
// GET /batch
func (s *Server) BatchPage(c *gin.Context) {
	c.HTML(http.StatusOK, "batch.tmpl", batchPage{})
}

// batchFields maps upload fields to their rendered table captions, in
// display order.
var batchFields = []struct {
	field   string
	caption string
}{
	{client.FieldTeacher, "برنامهٔ استاد"},
	{client.FieldAllTeachers, "برنامهٔ همهٔ اساتید"},
	{client.FieldClass, "برنامهٔ کلاس"},
	{client.FieldAllClasses, "برنامهٔ همهٔ کلاس‌ها"},
}

// SubmitBatch forwards the four workbooks and renders the four tables.
// POST /schedule/batch
func (s *Server) SubmitBatch(c *gin.Context) {
	headers := make(map[string]*multipart.FileHeader, len(batchFields))
	for _, bf := range batchFields {
		fh, err := c.FormFile(bf.field)
		if err != nil {
			c.HTML(http.StatusBadRequest, "batch.tmpl", batchPage{Error: msgAllFilesRequired})
			return
		}
		headers[bf.field] = fh
	}

	names := make([]string, 0, len(batchFields))
	uploads := make(map[string]client.Upload, len(batchFields))
	for _, bf := range batchFields {
		fh := headers[bf.field]
		f, err := fh.Open()
		if err != nil {
			c.HTML(http.StatusBadRequest, "batch.tmpl", batchPage{Error: msgRequestFailed})
			return
		}
		defer f.Close()
		uploads[bf.field] = client.Upload{Filename: fh.Filename, Content: f}
		names = append(names, fh.Filename)
	}

	subID := s.recordSubmission(store.KindBatch, names...)

	res, err := s.batch.SubmitBatch(c.Request.Context(), uploads)
	if err != nil {
		msg, status := describeError(err)
		s.log.Error().Err(err).Msg("batch submission failed")
		s.failSubmission(subID, msg)
		c.HTML(status, "batch.tmpl", batchPage{Error: msg})
		return
	}

	if s.store != nil {
		if err := s.store.CompleteSubmission(subID, 0, 0, 0, 0, ""); err != nil {
			s.log.Error().Err(err).Msg("record submission result")
		}
	}

	c.HTML(http.StatusOK, "batch.tmpl", batchPage{
		Tables: []captionedTable{
			{batchFields[0].caption, table.Build(res.TeacherSchedule)},
			{batchFields[1].caption, table.Build(res.AllTeachers)},
			{batchFields[2].caption, table.Build(res.ClassSchedule)},
			{batchFields[3].caption, table.Build(res.AllClasses)},
		},
	})
}

// DownloadTemplate serves the empty input workbook.
// GET /template
func (s *Server) DownloadTemplate(c *gin.Context) {
	data, err := workbook.TemplateBytes()
	if err != nil {
		s.log.Error().Err(err).Msg("build template workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build template"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", workbook.TemplateFilename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// HistoryPage lists recent submissions.
// GET /history
func (s *Server) HistoryPage(c *gin.Context) {
	var subs []store.Submission
	if s.store != nil {
		var err error
		subs, err = s.store.RecentSubmissions(20)
		if err != nil {
			s.log.Error().Err(err).Msg("list submissions")
		}
	}
	c.HTML(http.StatusOK, "history.tmpl", gin.H{"Submissions": subs})
}

// recordSubmission writes the pending history row; history is best-effort
// and never blocks a submission.
func (s *Server) recordSubmission(kind string, filenames ...string) string {
	if s.store == nil {
		return ""
	}
	id, err := s.store.CreateSubmission(kind, filenames)
	if err != nil {
		s.log.Error().Err(err).Msg("record submission")
		return ""
	}
	return id
}

func (s *Server) failSubmission(id, message string) {
	if s.store == nil || id == "" {
		return
	}
	if err := s.store.FailSubmission(id, message); err != nil {
		s.log.Error().Err(err).Msg("record submission failure")
	}
}

// describeError maps a client error to the panel message and HTTP status.
// Service-reported errors keep their message and status; everything else
// collapses into the generic Persian text.
func describeError(err error) (string, int) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		return apiErr.Message, status
	}
	return msgRequestFailed, http.StatusBadGateway
}
