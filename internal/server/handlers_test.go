package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Raof-Rasti/timetabling-project/internal/config"
	"github.com/Raof-Rasti/timetabling-project/internal/store"
)

// newTestServer wires a gateway against the given upstream handler and
// returns the gateway plus a counter of upstream requests.
func newTestServer(t *testing.T, upstream http.HandlerFunc) (*Server, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(api.Close)

	st, err := store.New(filepath.Join(t.TempDir(), "frontend.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = api.URL
	cfg.Server.DevMode = false

	return NewServer(cfg, st), &calls
}

// multipartBody builds a multipart form with the given file fields.
func multipartBody(t *testing.T, files map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".xlsx")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doPost(s *Server, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func doGet(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestSubmitWithoutFileShowsValidationAndSkipsUpstream(t *testing.T) {
	s, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	body, ct := multipartBody(t, map[string]string{}) // no file field
	w := doPost(s, "/schedule", body, ct)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), msgFileRequired) {
		t.Errorf("validation message missing from page")
	}
	if calls.Load() != 0 {
		t.Errorf("no upstream request may be issued, got %d", calls.Load())
	}
}

func TestSubmitRendersResultPanel(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("upstream did not receive file field: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"soft_score": 4.2,
			"counts": {"sessions": 42, "hard_errors": 1, "soft_details": 3},
			"token": "tok42",
			"preview": [{"Day": "Mon", "Slot": 1}, {"Day": "Tue"}]
		}`))
	})

	body, ct := multipartBody(t, map[string]string{"file": "workbook"})
	w := doPost(s, "/schedule", body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body:\n%s", w.Code, w.Body.String())
	}
	page := w.Body.String()

	for _, want := range []string{
		`id="softScore">4.2<`,
		`id="countSessions">42<`,
		`id="countHard">1<`,
		`id="countSoft">3<`,
		`/api/download/tok42`,
		`download="schedule_output.xlsx"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	// header order follows the first row's key order
	headerRe := regexp.MustCompile(`<th>Day</th><th>Slot</th>`)
	if !headerRe.MatchString(page) {
		t.Errorf("preview header not in first-row key order")
	}
	if !strings.Contains(page, "<td>Mon</td><td>1</td>") {
		t.Errorf("first preview row not rendered")
	}
	// second row lacks Slot: renders an empty cell
	if !strings.Contains(page, "<td>Tue</td><td></td>") {
		t.Errorf("missing key should render an empty cell")
	}
}

func TestSubmitSurfacesServerError(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid file"}`))
	})

	body, ct := multipartBody(t, map[string]string{"file": "bad"})
	w := doPost(s, "/schedule", body, ct)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `id="error"`) {
		t.Errorf("error panel not rendered")
	}
	if !strings.Contains(w.Body.String(), "invalid file") {
		t.Errorf("server error text not shown verbatim")
	}
	if strings.Contains(w.Body.String(), `id="result"`) {
		t.Errorf("error and result panels are mutually exclusive")
	}
}

func TestBatchSubmitMissingOneFile(t *testing.T) {
	s, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	body, ct := multipartBody(t, map[string]string{
		"file_teacher":      "a",
		"file_all_teachers": "b",
		"file_class":        "c",
		// file_all_classes missing
	})
	w := doPost(s, "/schedule/batch", body, ct)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), msgAllFilesRequired) {
		t.Errorf("validation message missing")
	}
	if calls.Load() != 0 {
		t.Errorf("no upstream request may be issued, got %d", calls.Load())
	}
}

func TestBatchSubmitRendersFourTables(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		for _, field := range []string{"file_teacher", "file_all_teachers", "file_class", "file_all_classes"} {
			if _, _, err := r.FormFile(field); err != nil {
				t.Errorf("upstream missing field %q: %v", field, err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"teacher_schedule": [{"day": "Sat", "slot": "08:00-09:30"}],
			"all_teachers": [{"teacher": "x", "day": "Sun"}],
			"class_schedule": [{"error": "class not found"}],
			"all_classes": []
		}`))
	})

	body, ct := multipartBody(t, map[string]string{
		"file_teacher":      "a",
		"file_all_teachers": "b",
		"file_class":        "c",
		"file_all_classes":  "d",
	})
	w := doPost(s, "/schedule/batch", body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body:\n%s", w.Code, w.Body.String())
	}
	page := w.Body.String()

	if !strings.Contains(page, `id="tables-container"`) {
		t.Fatalf("tables container missing")
	}
	if !strings.Contains(page, "<td>Sat</td><td>08:00-09:30</td>") {
		t.Errorf("teacher schedule row missing")
	}
	// error-flagged and empty tables render the placeholder row with no header
	if got := strings.Count(page, "داده‌ای برای نمایش وجود ندارد"); got != 2 {
		t.Errorf("placeholder row count = %d, want 2", got)
	}
	if strings.Contains(page, "<th>error</th>") {
		t.Errorf("error marker must not become a header column")
	}
}

func TestResubmissionReplacesContent(t *testing.T) {
	fail := true
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid file"}`))
			return
		}
		w.Write([]byte(`{"soft_score": 1, "counts": {"sessions": 1, "hard_errors": 0, "soft_details": 0}, "token": "t", "preview": []}`))
	})

	body, ct := multipartBody(t, map[string]string{"file": "x"})
	first := doPost(s, "/schedule", body, ct)
	if !strings.Contains(first.Body.String(), "invalid file") {
		t.Fatalf("first submission should fail")
	}

	fail = false
	body, ct = multipartBody(t, map[string]string{"file": "x"})
	second := doPost(s, "/schedule", body, ct)
	if strings.Contains(second.Body.String(), "invalid file") {
		t.Errorf("stale error text leaked into the second render")
	}
	if !strings.Contains(second.Body.String(), `id="result"`) {
		t.Errorf("second submission should render the result panel")
	}
}

func TestSubmissionHistoryIsRecorded(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"soft_score": 2.5, "counts": {"sessions": 10, "hard_errors": 0, "soft_details": 1}, "token": "tok", "preview": []}`))
	})

	body, ct := multipartBody(t, map[string]string{"file": "x"})
	doPost(s, "/schedule", body, ct)

	subs, err := s.store.RecentSubmissions(5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(subs) != 1 || subs[0].Status != store.StatusDone || subs[0].Token != "tok" {
		t.Fatalf("history = %+v", subs)
	}

	page := doGet(s, "/history")
	if page.Code != http.StatusOK {
		t.Fatalf("history status = %d", page.Code)
	}
	if !strings.Contains(page.Body.String(), "file.xlsx") {
		t.Errorf("history page missing filename")
	}
}

func TestTemplateDownload(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	w := doGet(s, "/template")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "timetable_input.xlsx") {
		t.Errorf("content disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("served template is not a valid workbook: %v", err)
	}
	defer f.Close()
	found := false
	for _, name := range f.GetSheetList() {
		if name == "courses" {
			found = true
		}
	}
	if !found {
		t.Errorf("courses sheet missing from template")
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	w := doGet(s, "/healthz")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("healthz = %d %s", w.Code, w.Body.String())
	}
}

func TestFormPagesRender(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	single := doGet(s, "/")
	if single.Code != http.StatusOK || !strings.Contains(single.Body.String(), `name="file"`) {
		t.Fatalf("single page broken: %d", single.Code)
	}
	if strings.Contains(single.Body.String(), `id="error"`) {
		t.Errorf("fresh page must not show an error panel")
	}

	batch := doGet(s, "/batch")
	for _, field := range []string{"file_teacher", "file_all_teachers", "file_class", "file_all_classes"} {
		if !strings.Contains(batch.Body.String(), `name="`+field+`"`) {
			t.Errorf("batch page missing input %q", field)
		}
	}
}

func TestDownloadLinkIsAbsolute(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"soft_score": 0, "counts": {"sessions": 0, "hard_errors": 0, "soft_details": 0}, "token": "abc", "preview": []}`))
	})

	body, ct := multipartBody(t, map[string]string{"file": "x"})
	w := doPost(s, "/schedule", body, ct)

	re := regexp.MustCompile(`href="([^"]+/api/download/abc)"`)
	m := re.FindStringSubmatch(w.Body.String())
	if m == nil {
		t.Fatalf("download link not found in page")
	}
	u, err := url.Parse(m[1])
	if err != nil || !u.IsAbs() {
		t.Errorf("download link %q is not absolute", m[1])
	}
}
