package statement

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cardsight/cardsight/internal/extraction"
)

func multipartUpload(filename string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(content)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		db     *mockDB
		parser *mockParser
		server *Server
		rec    *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		db = &mockDB{}
		parser = &mockParser{}
		server = NewServer(NewService(db, parser), BasicAuth{})
		rec = httptest.NewRecorder()
	})

	decodeBody := func() map[string]any {
		var payload map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &payload)).To(Succeed())
		return payload
	}

	Describe("GET /api/health", func() {
		It("reports liveness", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody()).To(HaveKeyWithValue("status", "ok"))
		})
	})

	Describe("POST /api/parse", func() {
		When("a PDF parses successfully", func() {
			BeforeEach(func() {
				parser.result = successResult("Chase", "500", "25", 100.0)
				body, contentType := multipartUpload("jan.pdf", []byte("%PDF-1.4"))
				req := httptest.NewRequest("POST", "/api/parse", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(rec, req)
			})

			It("returns the parse result", func() {
				Expect(rec.Code).To(Equal(http.StatusOK))
				payload := decodeBody()
				Expect(payload).To(HaveKeyWithValue("success", true))
				data := payload["data"].(map[string]any)
				Expect(data).To(HaveKeyWithValue("issuer", "Chase"))
			})

			It("records the parse in history", func() {
				Expect(db.records).To(HaveLen(1))
				Expect(db.records[0].Filename).To(Equal("jan.pdf"))
			})
		})

		It("rejects non-PDF uploads", func() {
			body, contentType := multipartUpload("malware.exe", []byte("MZ"))
			req := httptest.NewRequest("POST", "/api/parse", body)
			req.Header.Set("Content-Type", contentType)
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody()).To(HaveKeyWithValue("error", "Only PDF files are allowed"))
		})

		It("rejects uploads past the 16MB cap", func() {
			parser.result = successResult("Chase", "500", "25", 100.0)
			body, contentType := multipartUpload("big.pdf", bytes.Repeat([]byte("x"), int(maxUploadSize)+1))
			req := httptest.NewRequest("POST", "/api/parse", body)
			req.Header.Set("Content-Type", contentType)
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusRequestEntityTooLarge))
			Expect(decodeBody()).To(HaveKeyWithValue("error", "File too large (max 16MB)"))
			Expect(db.records).To(BeEmpty())
		})

		It("rejects requests without a file part", func() {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			Expect(writer.WriteField("note", "no file here")).To(Succeed())
			Expect(writer.Close()).To(Succeed())
			req := httptest.NewRequest("POST", "/api/parse", body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody()).To(HaveKeyWithValue("error", "No file provided"))
		})

		It("returns 500 on fatal pipeline errors", func() {
			parser.err = extraction.ErrUpstreamService
			body, contentType := multipartUpload("jan.pdf", []byte("%PDF-1.4"))
			req := httptest.NewRequest("POST", "/api/parse", body)
			req.Header.Set("Content-Type", contentType)
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decodeBody()).To(HaveKeyWithValue("success", false))
		})

		It("returns a failed result as a normal 200", func() {
			parser.result = &extraction.ParseResult{Success: false, Error: "Could not extract text from PDF"}
			body, contentType := multipartUpload("blank.pdf", []byte("%PDF-1.4"))
			req := httptest.NewRequest("POST", "/api/parse", body)
			req.Header.Set("Content-Type", contentType)
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody()).To(HaveKeyWithValue("success", false))
			Expect(db.records).To(BeEmpty())
		})
	})

	Describe("/api/history", func() {
		It("returns retained records", func() {
			db.records = []*Record{{ID: "1", Filename: "jan.pdf"}}
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			payload := decodeBody()
			Expect(payload).To(HaveKeyWithValue("success", true))
			Expect(payload["history"].([]any)).To(HaveLen(1))
		})

		It("clears history on DELETE", func() {
			db.records = []*Record{{ID: "1"}}
			server.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/history", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody()).To(HaveKeyWithValue("message", "History cleared"))
			Expect(db.records).To(BeEmpty())
		})
	})

	Describe("GET /api/stats", func() {
		It("reports no data before any parse", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			payload := decodeBody()
			Expect(payload).To(HaveKeyWithValue("success", false))
			Expect(payload).To(HaveKeyWithValue("error", "No statements parsed yet"))
		})

		It("aggregates retained history", func() {
			db.records = []*Record{
				{ID: "1", Result: successResult("Chase", "1000", "50", 100.0)},
			}
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			payload := decodeBody()
			Expect(payload).To(HaveKeyWithValue("success", true))
			stats := payload["stats"].(map[string]any)
			Expect(stats).To(HaveKeyWithValue("total_parsed", float64(1)))
			Expect(stats).To(HaveKeyWithValue("total_balance_parsed", float64(1000)))
		})
	})

	Describe("GET /api/supported-issuers", func() {
		It("lists the issuers", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/supported-issuers", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			issuers := decodeBody()["issuers"].([]any)
			Expect(issuers).To(HaveLen(7))
			Expect(issuers[6]).To(Equal("Any Bank (AI-Powered)"))
		})
	})

	Describe("exports", func() {
		exportBody := func() *bytes.Buffer {
			payload := map[string]any{
				"data": map[string]any{
					"issuer":          "Chase",
					"card_last4":      "1234",
					"statement_date":  "2024-01-01",
					"due_date":        "",
					"total_balance":   "500.00",
					"minimum_payment": "25.00",
				},
			}
			body, err := json.Marshal(payload)
			Expect(err).NotTo(HaveOccurred())
			return bytes.NewBuffer(body)
		}

		It("renders CSV with missing values as N/A", func() {
			server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/export/csv", exportBody()))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/csv"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring(`attachment; filename="statement_`))

			lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(Equal("Issuer,Card Last 4,Statement Date,Due Date,Total Balance,Minimum Payment"))
			Expect(lines[1]).To(Equal("Chase,1234,2024-01-01,N/A,500.00,25.00"))
		})

		It("rejects an export without a parse result", func() {
			server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/export/csv", strings.NewReader(`{}`)))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody()).To(HaveKeyWithValue("error", "No parse result provided"))
		})

		It("renders indented JSON", func() {
			server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/export/json", exportBody()))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(rec.Body.String()).To(ContainSubstring("\n  \"data\""))
		})

		It("renders an Excel workbook", func() {
			server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/export/excel", exportBody()))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
			// xlsx files are zip archives
			Expect(rec.Body.Bytes()[:2]).To(Equal([]byte("PK")))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			server = NewServer(NewService(db, parser), BasicAuth{Username: "admin", Password: "secret"})
		})

		It("rejects unauthenticated API requests", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
		})

		It("rejects wrong credentials", func() {
			req := httptest.NewRequest("GET", "/api/history", nil)
			req.SetBasicAuth("admin", "wrong")
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts valid credentials", func() {
			req := httptest.NewRequest("GET", "/api/history", nil)
			req.SetBasicAuth("admin", "secret")
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("leaves the health endpoint open", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})
