package server

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/entity"
)

// createReport accepts one submission (multipart or form-encoded), runs the
// pipeline, and returns the persisted record. Uploads are vetted against the
// extension and media-type allow-lists and the size ceiling before anything
// touches the pipeline.
func (s *Server) createReport(c *gin.Context) {
	sub := entity.Submission{
		InputMethod: constants.InputMethod(c.PostForm("inputMethod")),
		Source:      c.PostForm("source"),
	}

	switch sub.InputMethod {
	case constants.InputPaste:
		sub.PastedText = c.PostForm("crimeText")

	case constants.InputManual:
		if raw := c.PostForm("manualData"); raw != "" {
			var m entity.ManualFields
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				s.respondError(c, common.ValidationErrorf("manualData is not valid JSON: %v", err))
				return
			}
			sub.ManualFields = &m
		}

	case constants.InputUpload:
		fh, err := c.FormFile("file")
		if err != nil {
			s.respondError(c, common.ValidationErrorf("a file is required for upload submissions"))
			return
		}
		stored, err := s.acceptUpload(c, fh)
		if err != nil {
			s.respondError(c, err)
			return
		}
		sub.UploadedFile = stored
	}

	rec, err := s.processor.Process(c.Request.Context(), sub)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    rec,
		"message": "report processed successfully",
	})
}

// acceptUpload enforces the upload contract and stores the file under a
// fresh name in the upload directory. From here the pipeline run owns the
// stored file.
func (s *Server) acceptUpload(c *gin.Context, fh *multipart.FileHeader) (*entity.UploadedFile, error) {
	ext := filepath.Ext(fh.Filename)
	if !constants.IsAllowedExt(ext) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, constants.NormalizeExt(ext))
	}
	declared := fh.Header.Get("Content-Type")
	if !constants.IsAllowedMIMEType(declared) {
		return nil, fmt.Errorf("%w: media type %q", common.ErrUnsupportedFormat, declared)
	}
	if fh.Size > constants.MaxUploadBytes {
		return nil, common.ValidationErrorf("file exceeds the %d byte limit", constants.MaxUploadBytes)
	}

	name := uuid.New().String() + "." + constants.NormalizeExt(ext)
	dst := filepath.Join(s.uploadDir, name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		s.logger.Error("upload.save_failed", "name", fh.Filename, "error", err)
		return nil, common.WrapError(err, "save upload")
	}

	s.logger.Info("upload.stored", "name", name, "original", fh.Filename, "bytes", fh.Size)
	return &entity.UploadedFile{
		Path:         dst,
		OriginalName: fh.Filename,
		MIMEType:     declared,
	}, nil
}

// listReports returns all records, newest first.
func (s *Server) listReports(c *gin.Context) {
	recs, err := s.reports.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": recs})
}

// getReport returns a single record by id.
func (s *Server) getReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, common.ValidationErrorf("id must be a UUID"))
		return
	}
	rec, err := s.reports.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

// exportReports streams an XLSX workbook of all records.
func (s *Server) exportReports(c *gin.Context) {
	b, err := s.exporter.ExportReportsXLSX(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reports.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}
