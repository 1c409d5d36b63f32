package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/shivpratapmithapalli/jobassist/internal/auth"
	"github.com/shivpratapmithapalli/jobassist/internal/database"
)

// Server contain port which server are running on, database instance and
// token service
type Server struct {
	port int

	DB     *database.DBinstanceStruct
	Tokens *auth.TokenService
}

// NewServer construct new Server instance
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialized: %s", err)
	}

	// A bad signing key is a deployment error; refuse to serve rather than
	// fail on the first registration.
	tokens, err := auth.NewTokenService(auth.TokenConfigFromEnv())
	if err != nil {
		log.Fatalf("Token service failed to initialized: %s", err)
	}

	s := &Server{
		port:   port,
		DB:     db,
		Tokens: tokens,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
