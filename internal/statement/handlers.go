package statement

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cardsight/cardsight/internal/extraction"
)

// maxUploadSize caps statement uploads at 16MB.
const maxUploadSize = int64(16 << 20)

// corsError writes an error response with CORS headers set.
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"error":   message,
	})
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "API is running",
	})
}

// handleParse accepts a multipart PDF upload and runs the extraction
// pipeline. Non-fatal parse failures still return 200 with success=false;
// fatal pipeline errors become a 500.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large (max 16MB)")
			return
		}
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file")
		return
	}

	response, err := s.service.ProcessStatement(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// handleHistory returns retained parse records, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.History()
	if err != nil {
		slog.Error("Error listing history", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"history": records,
	})
}

// handleClearHistory removes all retained parse records.
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearHistory(); err != nil {
		slog.Error("Error clearing history", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "History cleared",
	})
}

// handleStats aggregates the retained history.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats()
	if err != nil {
		slog.Error("Error computing stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if stats.TotalParsed == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "No statements parsed yet",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

// handleSupportedIssuers lists the issuers the keyword heuristics know.
func (s *Server) handleSupportedIssuers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"issuers": s.service.SupportedIssuers(),
	})
}

// exportRequest is the posted parse result an export encodes.
type exportRequest struct {
	Data *extraction.Fields `json:"data"`
}

func decodeExportRequest(w http.ResponseWriter, r *http.Request) *extraction.Fields {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil
	}
	if req.Data == nil {
		writeError(w, http.StatusBadRequest, "No parse result provided")
		return nil
	}
	return req.Data
}

func setAttachmentHeaders(w http.ResponseWriter, contentType, filename string) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// handleExportCSV encodes a posted parse result as a CSV attachment.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	fields := decodeExportRequest(w, r)
	if fields == nil {
		return
	}

	setAttachmentHeaders(w, "text/csv", exportFilename("csv", time.Now()))
	if err := WriteCSV(w, fields); err != nil {
		slog.Error("Error writing CSV export", "error", err)
	}
}

// handleExportJSON returns a posted parse result as an indented JSON
// attachment.
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error encoding result")
		return
	}

	setAttachmentHeaders(w, "application/json", exportFilename("json", time.Now()))
	if _, err := w.Write(out); err != nil {
		slog.Error("Error writing JSON export", "error", err)
	}
}

// handleExportExcel encodes a posted parse result as an Excel attachment.
func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	fields := decodeExportRequest(w, r)
	if fields == nil {
		return
	}

	wb, err := BuildWorkbook(fields)
	if err != nil {
		slog.Error("Error building workbook", "error", err)
		writeError(w, http.StatusInternalServerError, "Error building workbook")
		return
	}
	defer wb.Close()

	setAttachmentHeaders(w,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		exportFilename("xlsx", time.Now()))
	if err := wb.Write(w); err != nil {
		slog.Error("Error writing Excel export", "error", err)
	}
}
