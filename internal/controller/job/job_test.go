package job

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/shivpratapmithapalli/jobassist/internal/auth"
	"github.com/shivpratapmithapalli/jobassist/internal/database"
	"github.com/shivpratapmithapalli/jobassist/internal/middleware"
	"github.com/shivpratapmithapalli/jobassist/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

func jobRouter(t *testing.T) *gin.Engine {
	t.Helper()
	tokens := auth.NewTestTokenService(t)
	controller := NewJobController(testDB)

	r := gin.New()
	jobs := r.Group("/jobs", middleware.RequireAuth(testDB, tokens))
	jobs.POST("", controller.CreateJob)
	jobs.GET("", controller.GetJobs)
	jobs.GET("/count", controller.CountJobs)
	jobs.GET("/:id", controller.GetJobByID)
	jobs.PUT("/:id", controller.UpdateJob)
	jobs.DELETE("/:id", controller.DeleteJob)
	return r
}

func aliceToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestUserAlice.Email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

// createJob posts a minimal job for the token's owner and returns its ID.
// Company names are unique per test so list assertions stay independent.
func createJob(t *testing.T, r *gin.Engine, token, title, company string) uint {
	t.Helper()
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":        title,
		"company_name": company,
	}, token, r, "/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, resp["id"])
	return uint(resp["id"].(float64))
}

func TestCreateJob_success(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":        "Site Reliability Engineer",
		"company_name": "OrbitalPay",
		"job_type":     "FULL_TIME",
		"notes":        "Found via newsletter",
	}, token, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Site Reliability Engineer", resp["title"])
	assert.Equal(t, "OrbitalPay", resp["company_name"])
	assert.Equal(t, "SAVED", resp["application_status"])
	assert.Equal(t, float64(database.TestUserAlice.ID), resp["user_id"])
}

func TestCreateJob_missingTitle(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"company_name": "NoTitle Inc",
	}, token, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_unknownField(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title":        "QA Engineer",
		"company_name": "StrictCo",
		"user_id":      database.TestUserBob.ID,
	}, token, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_invalidStatus(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":              "QA Engineer",
		"company_name":       "EnumCo",
		"application_status": "GHOSTED",
	}, token, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["message"], "GHOSTED")
}

func pageContent(t *testing.T, resp map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := resp["content"].([]interface{})
	require.True(t, ok, "response has no content array: %v", resp)
	content := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		content = append(content, item.(map[string]interface{}))
	}
	return content
}

func TestGetJobs_filterByStatus(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?status=APPLIED", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	content := pageContent(t, resp)
	require.NotEmpty(t, content)
	companies := []string{}
	for _, job := range content {
		assert.Equal(t, "APPLIED", job["application_status"])
		companies = append(companies, job["company_name"].(string))
	}
	assert.Contains(t, companies, database.TestJobApplied.CompanyName)
}

func TestGetJobs_filterByCompanyScopedToOwner(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	// Bob also tracks a TechNova job; it must never surface for Alice.
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?company=technova", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	content := pageContent(t, resp)
	require.NotEmpty(t, content)
	for _, job := range content {
		assert.Equal(t, float64(database.TestUserAlice.ID), job["user_id"])
		assert.Contains(t, job["company_name"], "TechNova")
	}
}

func TestGetJobs_invalidStatus(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/jobs?status=nope", http.MethodGet)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobs_invalidCreatedAfter(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/jobs?created_after=yesterday", http.MethodGet)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobs_pagination(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?page=0&size=1", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	content := pageContent(t, resp)
	assert.Len(t, content, 1)
	assert.Equal(t, float64(0), resp["page"])
	assert.Equal(t, float64(1), resp["size"])
	assert.GreaterOrEqual(t, resp["total_elements"].(float64), float64(3))
}

func TestGetJobs_deadlineWithin(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?deadline_within=7", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	content := pageContent(t, resp)
	companies := []string{}
	for _, job := range content {
		companies = append(companies, job["company_name"].(string))
	}
	// The DataForge deadline is three days out, the TechNova one a month.
	assert.Contains(t, companies, database.TestJobApplied.CompanyName)
	assert.NotContains(t, companies, database.TestJobSaved.CompanyName)
}

func TestGetJobs_filterByTitleCaseInsensitive(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?title=platform", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	content := pageContent(t, resp)
	require.NotEmpty(t, content)
	companies := []string{}
	for _, job := range content {
		assert.Contains(t, job["title"], "Platform")
		companies = append(companies, job["company_name"].(string))
	}
	assert.Contains(t, companies, database.TestJobApplied.CompanyName)
}

func TestGetJobs_createdDateRange(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)
	createJob(t, r, token, "Backend Developer", "ChronoWorks")

	now := time.Now().UTC()
	after := now.Add(-time.Hour).Format(time.RFC3339)
	before := now.Add(time.Hour).Format(time.RFC3339)

	rec, resp := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/jobs?created_after=%s&created_before=%s&size=100", after, before), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	companies := []string{}
	for _, job := range pageContent(t, resp) {
		companies = append(companies, job["company_name"].(string))
	}
	assert.Contains(t, companies, "ChronoWorks")

	// A window entirely in the future matches nothing.
	futureAfter := now.Add(time.Hour).Format(time.RFC3339)
	rec, resp = testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/jobs?created_after=%s", futureAfter), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pageContent(t, resp))
	assert.Equal(t, float64(0), resp["total_elements"])
}

func TestGetJobs_sortOrder(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	createdTimes := func(endpoint string) []time.Time {
		rec, resp := testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodGet)
		require.Equal(t, http.StatusOK, rec.Code)
		times := []time.Time{}
		for _, job := range pageContent(t, resp) {
			parsed, err := time.Parse(time.RFC3339, job["created_at"].(string))
			require.NoError(t, err)
			times = append(times, parsed)
		}
		return times
	}

	asc := createdTimes("/jobs?desc=false&size=100")
	require.NotEmpty(t, asc)
	for i := 1; i < len(asc); i++ {
		assert.False(t, asc[i].Before(asc[i-1]), "ascending order violated at index %d", i)
	}

	desc := createdTimes("/jobs?size=100")
	require.NotEmpty(t, desc)
	for i := 1; i < len(desc); i++ {
		assert.False(t, desc[i].After(desc[i-1]), "descending order violated at index %d", i)
	}
}

func TestGetJobByID_owned(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/jobs/%d", database.TestJobSaved.ID), http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestJobSaved.Title, resp["title"])
	assert.Equal(t, database.TestJobSaved.CompanyName, resp["company_name"])
}

func TestGetJobByID_foreignJobReadsAsNotFound(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, resp := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/jobs/%d", database.TestJobForeign.ID), http.MethodGet)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", resp["message"])
}

func TestUpdateJob_partialUpdate(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)
	id := createJob(t, r, token, "Backend Developer", "PatchWorks")

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"application_status": "APPLIED",
		"notes":              "Submitted on the careers page",
	}, token, r, fmt.Sprintf("/jobs/%d", id), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APPLIED", resp["application_status"])
	assert.Equal(t, "Submitted on the careers page", resp["notes"])
	assert.Equal(t, "Backend Developer", resp["title"])
	assert.Equal(t, "PatchWorks", resp["company_name"])
}

func TestUpdateJob_invalidStatus(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)
	id := createJob(t, r, token, "Backend Developer", "EnumPatch")

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"application_status": "MAYBE",
	}, token, r, fmt.Sprintf("/jobs/%d", id), http.MethodPut)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateJob_foreignJobReadsAsNotFound(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"notes": "should never land",
	}, token, r, fmt.Sprintf("/jobs/%d", database.TestJobForeign.ID), http.MethodPut)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteJob(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)
	id := createJob(t, r, token, "Backend Developer", "Ephemeral Ltd")

	rec, resp := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/jobs/%d", id), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Job deleted", resp["message"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/jobs/%d", id), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteJob_foreignJobReadsAsNotFound(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/jobs/%d", database.TestJobForeign.ID), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Bob's job is untouched.
	bobToken, err := auth.GetAccessToken(t, testDB, database.TestUserBob.Email, database.TestSeedPassword)
	require.NoError(t, err)
	rec, _ = testutil.MakeJSONRequest(nil, bobToken, r,
		fmt.Sprintf("/jobs/%d", database.TestJobForeign.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCountJobs_byStatus(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	// No test creates INTERVIEWED jobs, so the seeded one is the only match.
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs/count?status=INTERVIEWED", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])
}

func TestCountJobs_invalidStatus(t *testing.T) {
	r := jobRouter(t)
	token := aliceToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/jobs/count?status=bogus", http.MethodGet)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
