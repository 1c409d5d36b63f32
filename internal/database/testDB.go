package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/shivpratapmithapalli/jobassist/internal/model"
	"github.com/shivpratapmithapalli/jobassist/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seed data for handler tests.
var (
	TestUserAlice m.User
	TestUserBob   m.User

	// Plain password shared by all seeded users
	TestSeedPassword = "SeedPass123!"

	// Alice owns the first three jobs, Bob the fourth.
	TestJobSaved       m.Job
	TestJobApplied     m.Job
	TestJobInterviewed m.Job
	TestJobForeign     m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts two users and their jobs if the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := []m.User{
		{
			Name:              "Alice Nguyen",
			Email:             "alice@example.com",
			Password:          hashedPwd,
			Phone:             "0100000001",
			Location:          "Seattle, WA",
			CurrentRole:       "Backend Engineer",
			ExperienceLevel:   m.ExperienceMid,
			SalaryExpectation: "120k-140k",
			EmailVerified:     true,
			ProfileCompleted:  true,
		},
		{
			Name:            "Bob Somsak",
			Email:           "bob@example.com",
			Password:        hashedPwd,
			ExperienceLevel: m.ExperienceEntry,
			EmailVerified:   true,
		},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	TestUserAlice = users[0]
	TestUserBob = users[1]

	applied := time.Now().AddDate(0, 0, -7)
	nearDeadline := time.Now().AddDate(0, 0, 3)
	farDeadline := time.Now().AddDate(0, 1, 0)

	jobs := []m.Job{
		{
			UserID: TestUserAlice.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:             "Backend Engineer",
				CompanyName:       "TechNova",
				JobURL:            "https://technova.example.com/careers/42",
				Location:          "Seattle, WA (Hybrid)",
				SalaryRange:       "120k-150k",
				JobType:           m.JobTypeFullTime,
				ApplicationStatus: m.StatusSaved,
				JobDescription:    "Go services and database layers.",
				Requirements:      "Go; SQL; Postgres",
				Deadline:          &farDeadline,
			},
		},
		{
			UserID: TestUserAlice.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:             "Platform Engineer",
				CompanyName:       "DataForge",
				Location:          "Remote",
				SalaryRange:       "130k-160k",
				JobType:           m.JobTypeFullTime,
				ApplicationStatus: m.StatusApplied,
				Notes:             "Referred by Dana",
				AppliedDate:       &applied,
				Deadline:          &nearDeadline,
			},
		},
		{
			UserID: TestUserAlice.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:             "Senior Backend Engineer",
				CompanyName:       "CloudWeave",
				Location:          "New York, NY",
				JobType:           m.JobTypeContract,
				ApplicationStatus: m.StatusInterviewed,
			},
		},
		{
			UserID: TestUserBob.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:             "Data Analyst",
				CompanyName:       "TechNova",
				Location:          "Chicago, IL",
				JobType:           m.JobTypeInternship,
				ApplicationStatus: m.StatusSaved,
			},
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}

	TestJobSaved = jobs[0]
	TestJobApplied = jobs[1]
	TestJobInterviewed = jobs[2]
	TestJobForeign = jobs[3]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	if err := db.First(&TestUserAlice, "email = ?", "alice@example.com").Error; err != nil {
		return err
	}
	if err := db.First(&TestUserBob, "email = ?", "bob@example.com").Error; err != nil {
		return err
	}

	var jobs []m.Job
	if err := db.Order("id ASC").Limit(4).Find(&jobs).Error; err != nil {
		return err
	}
	if len(jobs) > 0 {
		TestJobSaved = jobs[0]
	}
	if len(jobs) > 1 {
		TestJobApplied = jobs[1]
	}
	if len(jobs) > 2 {
		TestJobInterviewed = jobs[2]
	}
	if len(jobs) > 3 {
		TestJobForeign = jobs[3]
	}

	return nil
}
