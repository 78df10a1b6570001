package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/tourneybe/internal/config"
	"github.com/s-min-sys/tourneybe/internal/storage"
	"github.com/sgostarter/i/l"
	"github.com/stretchr/testify/assert"
)

const (
	utTeacherPass = "Arkvic"
	utSignKey     = "ut-sign-key"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Listen:         ":0",
		DataRoot:       t.TempDir(),
		TeacherPass:    utTeacherPass,
		SessionSignKey: utSignKey,
	}

	s := &Server{
		cfg:      cfg,
		logger:   l.NewNopLoggerWrapper(),
		sessions: newSessionManager(cfg.SessionSignKey),
		storage:  storage.NewStorage(cfg.DataRoot, false, nil),
	}

	return s, s.buildEngine()
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader

	if body != nil {
		d, _ := json.Marshal(body)
		reader = bytes.NewReader(d)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func doStaff(r *gin.Engine, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func utLogin(t *testing.T, r *gin.Engine, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	form := url.Values{"password": {password}}

	req := httptest.NewRequest(http.MethodPost, "/teacher/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return w, cookie
		}
	}

	return w, nil
}

func utSubmitBody(name1, name2 string) SubmitRequest {
	return SubmitRequest{
		Group: "yes",
		P1: MemberEntry{
			Name: name1, Form: "Watt", Year: "Year 7", Experience: "lots",
			Past: "no", Reason: "fun", Fee: "yes", Email: "one.player",
		},
		P2: MemberEntry{
			Name: name2, Form: "Tolkien", Year: "Year 8", Experience: "none",
			Past: "yes", Reason: "friends", Fee: "no", Email: "two.player",
		},
	}
}

func TestSubmitValidation(t *testing.T) {
	s, r := newTestServer(t)

	cases := []struct {
		mutate func(*SubmitRequest)
		msg    string
	}{
		{func(req *SubmitRequest) { req.P1.Name = "" }, msgMissingP1Name},
		{func(req *SubmitRequest) { req.Group = "no" }, msgNoGroup},
		{func(req *SubmitRequest) { req.P2.Name = "" }, msgMissingP2},
		{func(req *SubmitRequest) { req.P1.Email = "a@b.com" }, msgEmailHasAt},
		{func(req *SubmitRequest) { req.P2.Email = "a@" }, msgEmailHasAt},
		{func(req *SubmitRequest) { req.P1.Fee, req.P2.Fee = "no", "no" }, msgFeeIneligible},
	}

	for _, one := range cases {
		body := utSubmitBody("John Smith", "Jane Smith")
		one.mutate(&body)

		w := doJSON(r, http.MethodPost, "/submit", body)
		assert.EqualValues(t, http.StatusBadRequest, w.Code)

		var resp SubmitResponse

		assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.OK)
		assert.EqualValues(t, one.msg, resp.Message)
	}

	// rejected submissions never persist anything
	groups, err := s.storage.GetGroups()
	assert.Nil(t, err)
	assert.EqualValues(t, 0, len(groups))
}

func TestSubmitSuccess(t *testing.T) {
	s, r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/submit", utSubmitBody("John Smith", "Jane Smith"))
	assert.EqualValues(t, http.StatusOK, w.Code)

	var resp SubmitResponse

	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.NotEqualValues(t, "", resp.ID)

	groups, err := s.storage.GetGroups()
	assert.Nil(t, err)
	assert.EqualValues(t, 1, len(groups))
	assert.EqualValues(t, 2, len(groups[0].Members))
	assert.True(t, groups[0].GroupFeePaid)
	assert.True(t, groups[0].Members[0].FeePaid)
	assert.False(t, groups[0].Members[1].FeePaid)
	assert.EqualValues(t, "one.player@arkvictoria.org", groups[0].Members[0].Email)
}

func TestLogin(t *testing.T) {
	_, r := newTestServer(t)

	w, cookie := utLogin(t, r, "wrong")
	assert.EqualValues(t, http.StatusOK, w.Code)
	assert.Nil(t, cookie)
	assert.Contains(t, w.Body.String(), msgWrongPassword)

	w, cookie = utLogin(t, r, utTeacherPass)
	assert.EqualValues(t, http.StatusFound, w.Code)
	assert.EqualValues(t, "/teacher/dashboard", w.Header().Get("Location"))
	assert.NotNil(t, cookie)
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.TeacherPass = ""

	r := s.buildEngine()

	w, cookie := utLogin(t, r, "")
	assert.EqualValues(t, http.StatusOK, w.Code)
	assert.Nil(t, cookie)
	assert.Contains(t, w.Body.String(), msgWrongPassword)
}

func TestTeacherPageRedirects(t *testing.T) {
	_, r := newTestServer(t)

	w := doStaff(r, http.MethodGet, "/teacher", nil)
	assert.EqualValues(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Teacher access")

	_, cookie := utLogin(t, r, utTeacherPass)

	w = doStaff(r, http.MethodGet, "/teacher", cookie)
	assert.EqualValues(t, http.StatusFound, w.Code)
	assert.EqualValues(t, "/teacher/dashboard", w.Header().Get("Location"))
}

func TestStaffRoutesRequireSession(t *testing.T) {
	_, r := newTestServer(t)

	w := doStaff(r, http.MethodGet, "/teacher/dashboard", nil)
	assert.EqualValues(t, http.StatusFound, w.Code)
	assert.EqualValues(t, "/teacher", w.Header().Get("Location"))

	w = doStaff(r, http.MethodPost, "/teacher/delete/123", nil)
	assert.EqualValues(t, http.StatusUnauthorized, w.Code)

	w = doStaff(r, http.MethodGet, "/teacher/export.csv", nil)
	assert.EqualValues(t, http.StatusUnauthorized, w.Code)

	// a forged cookie is no better than none
	forged := &http.Cookie{Name: sessionCookieName, Value: "forged"}

	w = doStaff(r, http.MethodGet, "/teacher/export.csv", forged)
	assert.EqualValues(t, http.StatusUnauthorized, w.Code)
}

func TestDashboard(t *testing.T) {
	_, r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/submit", utSubmitBody("Alice Smith", "<script>alert(1)</script>"))
	assert.EqualValues(t, http.StatusOK, w.Code)

	_, cookie := utLogin(t, r, utTeacherPass)
	assert.NotNil(t, cookie)

	w = doStaff(r, http.MethodGet, "/teacher/dashboard", cookie)
	assert.EqualValues(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Alice Smith")
	assert.Contains(t, body, "1 groups")

	// user text is escaped before it hits the page
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")

	// search narrows case-insensitively
	w = doStaff(r, http.MethodGet, "/teacher/dashboard?q=SMITH", cookie)
	assert.EqualValues(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice Smith")

	w = doStaff(r, http.MethodGet, "/teacher/dashboard?q=nomatch", cookie)
	assert.EqualValues(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0 groups")
	assert.NotContains(t, w.Body.String(), "Alice Smith")
}

func TestDelete(t *testing.T) {
	s, r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/submit", utSubmitBody("Alice Smith", "Bob Jones"))
	assert.EqualValues(t, http.StatusOK, w.Code)

	var resp SubmitResponse

	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))

	_, cookie := utLogin(t, r, utTeacherPass)

	w = doStaff(r, http.MethodPost, "/teacher/delete/"+resp.ID, cookie)
	assert.EqualValues(t, http.StatusFound, w.Code)
	assert.EqualValues(t, "/teacher/dashboard", w.Header().Get("Location"))

	groups, err := s.storage.GetGroups()
	assert.Nil(t, err)
	assert.EqualValues(t, 0, len(groups))

	// deleting again, or an id that never existed, redirects all the same
	w = doStaff(r, http.MethodPost, "/teacher/delete/"+resp.ID, cookie)
	assert.EqualValues(t, http.StatusFound, w.Code)

	w = doStaff(r, http.MethodPost, "/teacher/delete/not-an-id", cookie)
	assert.EqualValues(t, http.StatusFound, w.Code)
}

func TestExportCSV(t *testing.T) {
	_, r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/submit", utSubmitBody(`Alice "Ace" Smith`, "Bob Jones"))
	assert.EqualValues(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/submit", utSubmitBody("Carol White", "Dave Green"))
	assert.EqualValues(t, http.StatusOK, w.Code)

	_, cookie := utLogin(t, r, utTeacherPass)

	w = doStaff(r, http.MethodGet, "/teacher/export.csv", cookie)
	assert.EqualValues(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.EqualValues(t, "attachment; filename=entries.csv", w.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	assert.Nil(t, err)
	assert.EqualValues(t, 3, len(records)) // header + two groups

	for _, record := range records {
		assert.EqualValues(t, 14, len(record))
	}

	assert.EqualValues(t, "First Name", records[0][0])
	assert.EqualValues(t, "CreatedAt", records[0][13])

	// newest first, quoted quotes round-trip
	assert.EqualValues(t, "Carol White", records[1][0])
	assert.EqualValues(t, `Alice "Ace" Smith`, records[2][0])
	assert.EqualValues(t, "yes", records[2][4])
	assert.EqualValues(t, "no", records[2][10])
	assert.EqualValues(t, "yes", records[2][12])
	assert.NotEqualValues(t, "", records[2][13])

	// every field is quoted on the wire
	firstLine := strings.Split(w.Body.String(), "\n")[0]
	assert.True(t, strings.HasPrefix(firstLine, `"First Name"`))
}

func TestLogout(t *testing.T) {
	_, r := newTestServer(t)

	_, cookie := utLogin(t, r, utTeacherPass)
	assert.NotNil(t, cookie)

	w := doStaff(r, http.MethodGet, "/teacher/dashboard", cookie)
	assert.EqualValues(t, http.StatusOK, w.Code)

	w = doStaff(r, http.MethodGet, "/teacher/logout", cookie)
	assert.EqualValues(t, http.StatusFound, w.Code)
	assert.EqualValues(t, "/teacher", w.Header().Get("Location"))

	// the old cookie is dead server-side
	w = doStaff(r, http.MethodGet, "/teacher/dashboard", cookie)
	assert.EqualValues(t, http.StatusFound, w.Code)
	assert.EqualValues(t, "/teacher", w.Header().Get("Location"))
}

func TestHealthy(t *testing.T) {
	_, r := newTestServer(t)

	w := doStaff(r, http.MethodGet, "/healthy", nil)
	assert.EqualValues(t, http.StatusNoContent, w.Code)
}

func TestIndexPage(t *testing.T) {
	_, r := newTestServer(t)

	w := doStaff(r, http.MethodGet, "/", nil)
	assert.EqualValues(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Poxel.io Tournament Entry")
}
