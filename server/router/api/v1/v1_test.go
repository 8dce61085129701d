package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/grindlist/grindlist/internal/profile"
	"github.com/grindlist/grindlist/store"
	"github.com/grindlist/grindlist/store/test"
)

const testSecret = "testing-secret"

func newTestServer(t *testing.T) (*echo.Echo, *APIV1Service) {
	t.Helper()
	ctx := context.Background()

	p := &profile.Profile{Mode: "dev", Driver: "sqlite", Secret: testSecret}
	st := test.NewTestingStore(ctx, t)

	e := echo.New()
	service := NewAPIV1Service(testSecret, p, st)
	service.RegisterRoutes(e)
	return e, service
}

func newAuthedRequest(t *testing.T, method, target, userID string, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	token, err := GenerateAccessToken(userID, testSecret, time.Now().Add(time.Hour))
	require.NoError(t, err)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

func seedCatalog(t *testing.T, st *store.Store) {
	t.Helper()
	creates := []*store.Question{}
	for _, difficulty := range store.Difficulties {
		for i := 0; i < 6; i++ {
			id := fmt.Sprintf("%s-%d", difficulty, i)
			creates = append(creates, &store.Question{
				ID:         id,
				QuestionID: id,
				Title:      "Problem " + id,
				Link:       "https://example.com/problems/" + id,
				Difficulty: difficulty,
			})
		}
	}
	_, err := st.CreateQuestions(context.Background(), creates)
	require.NoError(t, err)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/daily-questions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/daily-questions", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	e, _ := newTestServer(t)

	token, err := GenerateAccessToken("user-1", testSecret, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/daily-questions", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetDailyQuestions(t *testing.T) {
	e, service := newTestServer(t)
	seedCatalog(t, service.Store)

	req := newAuthedRequest(t, http.MethodGet, "/api/v1/daily-questions", "user-1", "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	require.Equal(t, "no-cache", rec.Header().Get("Pragma"))

	body := &dailyQuestionsResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), body))
	require.True(t, body.Success)
	require.Len(t, body.DailyQuestions, 6)
	require.NotZero(t, body.RefreshedAt)

	// Default counts: three easy, two medium, one hard.
	byDifficulty := map[string]int{}
	for _, q := range body.DailyQuestions {
		byDifficulty[q.Difficulty]++
	}
	require.Equal(t, map[string]int{"Easy": 3, "Medium": 2, "Hard": 1}, byDifficulty)
}

func TestGetDailyQuestionsEmptyCatalog(t *testing.T) {
	e, _ := newTestServer(t)

	req := newAuthedRequest(t, http.MethodGet, "/api/v1/daily-questions", "user-1", "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := &errorResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), body))
	require.Equal(t, "No questions available", body.Error)
}

func TestGetDailyQuestionsRefreshRateLimited(t *testing.T) {
	e, service := newTestServer(t)
	seedCatalog(t, service.Store)

	var last int
	for i := 0; i < 10; i++ {
		req := newAuthedRequest(t, http.MethodGet, "/api/v1/daily-questions?refresh=true", "user-1", "")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		last = rec.Code
		if last == http.StatusTooManyRequests {
			break
		}
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestBatchOperationsRoundTrip(t *testing.T) {
	e, service := newTestServer(t)
	seedCatalog(t, service.Store)

	body := `{"operations":[
		{"id":"Easy-0","type":"star","value":true},
		{"id":"Medium-0","type":"complete","value":true},
		{"id":"Easy-0","type":"star","value":false}
	]}`
	req := newAuthedRequest(t, http.MethodPost, "/api/v1/questions/batch-operations", "user-1", body)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Net effect: star toggled on then off, one completion remains.
	req = newAuthedRequest(t, http.MethodGet, "/api/v1/user-progress", "user-1", "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	progress := &userProgressResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), progress))
	require.Empty(t, progress.StarredQuestions)
	require.Len(t, progress.CompletedQuestions, 1)
	require.Equal(t, "Medium-0", progress.CompletedQuestions[0].ID)
	require.True(t, progress.CompletedQuestions[0].Completed)
}

func TestBatchOperationsRejectsEmptyArray(t *testing.T) {
	e, _ := newTestServer(t)

	req := newAuthedRequest(t, http.MethodPost, "/api/v1/questions/batch-operations", "user-1", `{"operations":[]}`)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchOperationsRejectsUnknownType(t *testing.T) {
	e, _ := newTestServer(t)

	body := `{"operations":[{"id":"Easy-0","type":"favorite","value":true}]}`
	req := newAuthedRequest(t, http.MethodPost, "/api/v1/questions/batch-operations", "user-1", body)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchOperationsRejectsMissingID(t *testing.T) {
	e, _ := newTestServer(t)

	body := `{"operations":[{"type":"star","value":true}]}`
	req := newAuthedRequest(t, http.MethodPost, "/api/v1/questions/batch-operations", "user-1", body)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserPreferencesRoundTrip(t *testing.T) {
	e, _ := newTestServer(t)

	// Defaults before anything is set.
	req := newAuthedRequest(t, http.MethodGet, "/api/v1/user-preferences", "user-1", "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	prefs := &userPreferencesResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), prefs))
	require.Equal(t, 3, prefs.EasyCount)
	require.Equal(t, 2, prefs.MediumCount)
	require.Equal(t, 1, prefs.HardCount)

	// An explicit zero must stick instead of falling back to the default.
	body := `{"easyCount":0,"mediumCount":5,"hardCount":2}`
	req = newAuthedRequest(t, http.MethodPost, "/api/v1/user-preferences", "user-1", body)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = newAuthedRequest(t, http.MethodGet, "/api/v1/user-preferences", "user-1", "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), prefs))
	require.Equal(t, 0, prefs.EasyCount)
	require.Equal(t, 5, prefs.MediumCount)
	require.Equal(t, 2, prefs.HardCount)
}

func TestUpdateUserPreferencesRejectsOutOfRange(t *testing.T) {
	e, _ := newTestServer(t)

	for _, body := range []string{
		`{"easyCount":6,"mediumCount":2,"hardCount":1}`,
		`{"easyCount":3,"mediumCount":-1,"hardCount":1}`,
	} {
		req := newAuthedRequest(t, http.MethodPost, "/api/v1/user-preferences", "user-1", body)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestUpdateUserPreferencesRejectsMissingField(t *testing.T) {
	e, _ := newTestServer(t)

	req := newAuthedRequest(t, http.MethodPost, "/api/v1/user-preferences", "user-1", `{"easyCount":3,"mediumCount":2}`)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportQuestionsCSV(t *testing.T) {
	e, _ := newTestServer(t)

	csv := "ID,Title,Question_Link,Difficulty\n" +
		"1,Two Sum,https://example.com/two-sum,Easy\n" +
		"2,LRU Cache,https://example.com/lru-cache,Medium\n"
	body, contentType := multipartFile(t, "file", "questions.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions/import", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	token, err := GenerateAccessToken("user-1", testSecret, time.Now().Add(time.Hour))
	require.NoError(t, err)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := &importQuestionsResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	require.True(t, resp.Success)
	require.Equal(t, 2, resp.Count)
}

func TestImportQuestionsRejectsBadDifficulty(t *testing.T) {
	e, _ := newTestServer(t)

	csv := "ID,Title,Question_Link,Difficulty\n" +
		"1,Two Sum,https://example.com/two-sum,Impossible\n"
	body, contentType := multipartFile(t, "file", "questions.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions/import", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	token, err := GenerateAccessToken("user-1", testSecret, time.Now().Add(time.Hour))
	require.NoError(t, err)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartFile(t *testing.T, field, filename, content string) (body, contentType string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.String(), writer.FormDataContentType()
}
