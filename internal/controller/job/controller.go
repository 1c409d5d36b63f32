// Package job provides HTTP handlers for tracked job applications. Every
// query is scoped to the authenticated user; a job belonging to someone else
// is indistinguishable from one that does not exist.
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shivpratapmithapalli/jobassist/internal/apperror"
	"github.com/shivpratapmithapalli/jobassist/internal/database"
	"github.com/shivpratapmithapalli/jobassist/internal/model"
	"github.com/shivpratapmithapalli/jobassist/internal/utilities"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// JobController handles job tracking endpoints
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{
		DB: db,
	}
}

func validateJobInfo(info *model.EditableJobInfo) error {
	if info.JobType != "" && !info.JobType.Valid() {
		return apperror.Validation(fmt.Sprintf("Job type '%s' not allowed", info.JobType), nil)
	}
	if info.ApplicationStatus != "" && !info.ApplicationStatus.Valid() {
		return apperror.Validation(fmt.Sprintf("Application status '%s' not allowed", info.ApplicationStatus), nil)
	}
	return nil
}

// CreateJob records a new tracked application for the authenticated user.
// @Summary Create a job based on given json structure
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Input job information"
// @Success 201 {object} model.Job "Successfully created job"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job struct or enum value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Job creation failed", err.Error()))
		return
	}

	job := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&job.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Job creation failed", fmt.Sprintf("Invalid request body: %s", err.Error()),
		))
		return
	}

	if strings.TrimSpace(job.Title) == "" || strings.TrimSpace(job.CompanyName) == "" {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Job creation failed", "Title and company name must be provided",
		))
		return
	}
	if err := validateJobInfo(&job.EditableJobInfo); err != nil {
		utilities.RenderError(c, "Job creation failed", err)
		return
	}
	if job.ApplicationStatus == "" {
		job.ApplicationStatus = model.StatusSaved
	}

	job.UserID = user.ID
	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Job creation failed", fmt.Sprint("Failed to create job: ", err),
		))
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobs fetches the caller's jobs that match the query, paginated.
// @Summary Get the caller's jobs based on query
// @Description Every query parameter is optional
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Application status, exact match"
// @Param company query string false "Company name substring, case insensitive"
// @Param title query string false "Title substring, case insensitive"
// @Param created_after query string false "RFC 3339 lower bound on creation time"
// @Param created_before query string false "RFC 3339 upper bound on creation time"
// @Param deadline_within query integer false "Only jobs whose deadline falls within this many days from now"
// @Param page query integer false "Zero-based page index"
// @Param size query integer false "Page size, default 10, max 100"
// @Param desc query boolean false "Sort by creation time descending if true (default true)"
// @Success 200 {object} model.JobPage "One page of matching jobs"
// @Failure 400 {object} utilities.ErrorResponse "Invalid filter value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetJobs(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Job listing failed", err.Error()))
		return
	}

	rawStatus := c.Query("status")
	rawCompany := c.Query("company")
	rawTitle := c.Query("title")
	rawCreatedAfter := c.Query("created_after")
	rawCreatedBefore := c.Query("created_before")
	rawDeadlineWithin := c.Query("deadline_within")
	rawDesc := c.DefaultQuery("desc", "true")

	query := jc.DB.Model(&model.Job{}).Where("user_id = ?", user.ID)

	if rawStatus != "" {
		if !model.ApplicationStatus(rawStatus).Valid() {
			c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
				"Job listing failed", fmt.Sprintf("Application status '%s' not allowed", rawStatus),
			))
			return
		}
		query = query.Where("application_status = ?", rawStatus)
	}

	if rawCompany != "" {
		query = query.Where("company_name ILIKE ?", "%"+rawCompany+"%")
	}

	if rawTitle != "" {
		query = query.Where("title ILIKE ?", "%"+rawTitle+"%")
	}

	if rawCreatedAfter != "" {
		after, err := time.Parse(time.RFC3339, rawCreatedAfter)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
				"Job listing failed", "created_after must be an RFC 3339 timestamp",
			))
			return
		}
		query = query.Where("created_at >= ?", after)
	}

	if rawCreatedBefore != "" {
		before, err := time.Parse(time.RFC3339, rawCreatedBefore)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
				"Job listing failed", "created_before must be an RFC 3339 timestamp",
			))
			return
		}
		query = query.Where("created_at <= ?", before)
	}

	if rawDeadlineWithin != "" {
		days, err := strconv.Atoi(rawDeadlineWithin)
		if err != nil || days < 0 {
			c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
				"Job listing failed", "deadline_within must be a non-negative number of days",
			))
			return
		}
		now := time.Now()
		query = query.Where("deadline BETWEEN ? AND ?", now, now.AddDate(0, 0, days))
	}

	page, size := pagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Job listing failed", fmt.Sprint("Failed to fetch jobs: ", err.Error()),
		))
		return
	}

	jobs := []model.Job{}
	result := query.
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: "created_at"},
			Desc:   strings.ToLower(rawDesc) != "false",
		}).
		Limit(size).
		Offset(page * size).
		Find(&jobs)
	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Job listing failed", fmt.Sprint("Failed to fetch jobs: ", err.Error()),
		))
		return
	}

	c.JSON(http.StatusOK, model.JobPage{
		Content:       jobs,
		Page:          page,
		Size:          size,
		TotalElements: total,
	})
}

// GetJobByID fetches one of the caller's jobs by its ID.
// @Summary Get a job by ID
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the desired job"
// @Success 200 {object} model.Job
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or owned by another user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Job fetch failed", err.Error()))
		return
	}

	job, ok := jc.findOwnedJob(c, "Job fetch failed", user.ID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob applies the non-empty fields of the request to one of the
// caller's jobs as a single transaction.
// @Summary Update a job by ID
// @Description Only non-empty fields are applied; absent fields keep their stored values
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job to update"
// @Param Job body model.EditableJobInfo true "Partial job fields"
// @Success 200 {object} model.Job "Updated job"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job struct or enum value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or owned by another user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Job update failed", err.Error()))
		return
	}

	job, ok := jc.findOwnedJob(c, "Job update failed", user.ID)
	if !ok {
		return
	}

	var info model.EditableJobInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Job update failed", fmt.Sprintf("Invalid request body: %s", err.Error()),
		))
		return
	}
	if err := validateJobInfo(&info); err != nil {
		utilities.RenderError(c, "Job update failed", err)
		return
	}

	utilities.MergeNonEmpty(&job.EditableJobInfo, &info)

	err = jc.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Save(&job).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Job update failed", fmt.Sprintf("Failed to update job: %s", err.Error()),
		))
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob removes one of the caller's jobs.
// @Summary Delete a job by ID
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job to delete"
// @Success 200 {object} utilities.MessageResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or owned by another user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Job deletion failed", err.Error()))
		return
	}

	job, ok := jc.findOwnedJob(c, "Job deletion failed", user.ID)
	if !ok {
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Job deletion failed", fmt.Sprintf("Failed to delete job: %s", err.Error()),
		))
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job deleted"})
}

// CountJobs returns how many jobs the caller tracks, optionally restricted
// to one application status. Used for dashboard summaries.
// @Summary Count the caller's jobs
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Application status, exact match"
// @Success 200 {object} model.JobCountResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid status value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/count [get]
func (jc *JobController) CountJobs(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Job count failed", err.Error()))
		return
	}

	query := jc.DB.Model(&model.Job{}).Where("user_id = ?", user.ID)

	if rawStatus := c.Query("status"); rawStatus != "" {
		if !model.ApplicationStatus(rawStatus).Valid() {
			c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
				"Job count failed", fmt.Sprintf("Application status '%s' not allowed", rawStatus),
			))
			return
		}
		query = query.Where("application_status = ?", rawStatus)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Job count failed", fmt.Sprintf("Failed to count jobs: %s", err.Error()),
		))
		return
	}

	c.JSON(http.StatusOK, model.JobCountResponse{Count: count})
}

// findOwnedJob loads the job named by the :id param if it belongs to userID.
// Ownership is part of the lookup itself so a foreign job reads as not found.
// Writes the error response and returns ok=false on failure.
func (jc *JobController) findOwnedJob(c *gin.Context, label string, userID uint) (model.Job, bool) {
	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.
		Where("id = ? AND user_id = ?", id, userID).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RenderError(c, label, apperror.NotFound("Job not found", err))
			return job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			label, fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		))
		return job, false
	}
	return job, true
}

func pagination(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
