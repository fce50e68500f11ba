// Package helper_test boots the full application against disposable
// PostgreSQL and Redis containers for the end-to-end suites. Each test
// package calls SetupTestServer with its own base port so the suites can run
// in parallel.
package helper_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/go-redis/redis"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ivkudzin/unimatch/internal"
	"github.com/ivkudzin/unimatch/internal/config"
	"github.com/ivkudzin/unimatch/internal/entity"
	"github.com/ivkudzin/unimatch/pkg/http_util"
	"github.com/ivkudzin/unimatch/pkg/initdata"
	"github.com/ivkudzin/unimatch/pkg/jwt"
)

const (
	BotToken  = "7000000001:AAtest-token-for-e2e"
	JWTSecret = "e2e-test-secret"
)

// nextUserID hands out unique Telegram user ids across a test binary.
var nextUserID int64 = 1000

func NewUserID() int64 {
	return atomic.AddInt64(&nextUserID, 1)
}

// TestServerResources holds everything a suite needs to talk to the running
// server and to inspect state underneath it.
type TestServerResources struct {
	Cancel        context.CancelFunc
	Config        *config.Config
	Pool          *dockertest.Pool
	DBResource    *dockertest.Resource
	RedisResource *dockertest.Resource
	BaseURL       string
	ORM           *gorm.DB
	Redis         *redis.Client
	Tokens        *jwt.Manager
}

// SetupTestServer starts postgres and redis containers, configures the
// environment, boots the application and waits for it to become healthy.
// basePort is the HTTP port; basePort+1 and basePort+2 are bound to postgres
// and redis.
func SetupTestServer(ctx context.Context, basePort int) (*TestServerResources, error) {
	ctx, cancel := context.WithCancel(ctx)

	if err := setTestEnv(basePort); err != nil {
		cancel()
		return nil, err
	}

	cfg, err := config.NewConfig("TEST")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}

	pool, dbResource, redisResource, err := setupDockerResources(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not set up Docker resources: %w", err)
	}

	cleanup := func() {
		pool.Purge(redisResource)
		pool.Purge(dbResource)
		cancel()
	}

	var gormDB *gorm.DB
	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		gormDB, err = connectToPostgres(cfg)
		return err
	}); err != nil {
		cleanup()
		return nil, fmt.Errorf("could not connect to postgres: %w", err)
	}

	var redisClient *redis.Client
	if err := pool.Retry(func() error {
		redisClient, err = connectToRedis(cfg)
		return err
	}); err != nil {
		cleanup()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	// The server runs migrations itself on startup.
	go internal.Run(ctx, os.Stdout, []string{"unimatch", "TEST"})

	baseURL := "http://localhost:" + cfg.Get("PORT")
	if !waitForServer(ctx, baseURL) {
		cleanup()
		return nil, fmt.Errorf("server did not start within timeout")
	}

	return &TestServerResources{
		Cancel:        cancel,
		Config:        cfg,
		Pool:          pool,
		DBResource:    dbResource,
		RedisResource: redisResource,
		BaseURL:       baseURL,
		ORM:           gormDB,
		Redis:         redisClient,
		Tokens:        jwt.NewManager(JWTSecret, jwt.DefaultTTL),
	}, nil
}

// CleanupTestServer stops the server and purges the containers.
func (resources *TestServerResources) CleanupTestServer() {
	if resources == nil {
		return
	}

	if resources.Cancel != nil {
		resources.Cancel()
	}

	if resources.Pool != nil {
		if resources.DBResource != nil {
			if err := resources.Pool.Purge(resources.DBResource); err != nil {
				log.Printf("Could not purge PostgreSQL: %s", err)
			}
		}
		if resources.RedisResource != nil {
			if err := resources.Pool.Purge(resources.RedisResource); err != nil {
				log.Printf("Could not purge Redis: %s", err)
			}
		}
	}
}

func setTestEnv(basePort int) error {
	uploadDir := filepath.Join(os.TempDir(), fmt.Sprintf("unimatch-uploads-%d", basePort))
	env := map[string]string{
		"PORT":                    strconv.Itoa(basePort),
		"TEST_POSTGRES_HOST":      "localhost",
		"TEST_POSTGRES_PORT":      strconv.Itoa(basePort + 1),
		"TEST_POSTGRES_USER":      "unimatch",
		"TEST_POSTGRES_PASSWORD":  "unimatch",
		"TEST_POSTGRES_DB_NAME":   "unimatch_test",
		"TEST_REDIS_HOST":         "localhost",
		"TEST_REDIS_PORT":         strconv.Itoa(basePort + 2),
		"TEST_JWT_SECRET":         JWTSecret,
		"TEST_TELEGRAM_BOT_TOKEN": BotToken,
		"TEST_UPLOAD_DIR":         uploadDir,
		"TEST_LOG_LEVEL":          "warn",
		"TEST_LOG_FORMAT":         "text",
	}
	for k, v := range env {
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}

func setupDockerResources(cfg *config.Config) (*dockertest.Pool, *dockertest.Resource, *dockertest.Resource, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	dbOptions := &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", cfg.Get("POSTGRES_USER")),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", cfg.Get("POSTGRES_PASSWORD")),
			fmt.Sprintf("POSTGRES_DB=%s", cfg.Get("POSTGRES_DB_NAME")),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("POSTGRES_PORT"))}},
		},
	}
	dbResource, err := pool.RunWithOptions(dbOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start postgres: %w", err)
	}

	redisOptions := &dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
		PortBindings: map[docker.Port][]docker.PortBinding{
			"6379/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("REDIS_PORT"))}},
		},
	}
	redisResource, err := pool.RunWithOptions(redisOptions)
	if err != nil {
		pool.Purge(dbResource)
		return nil, nil, nil, fmt.Errorf("could not start redis: %w", err)
	}

	return pool, dbResource, redisResource, nil
}

func connectToPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Get("POSTGRES_HOST"),
		cfg.Get("POSTGRES_PORT"),
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"))

	gormDB, err := gorm.Open(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	return gormDB, sqlDB.Ping()
}

func connectToRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Get("REDIS_HOST") + ":" + cfg.Get("REDIS_PORT"),
	})
	return client, client.Ping().Err()
}

func waitForServer(ctx context.Context, baseURL string) bool {
	loopContext, cancelLoopContext := context.WithTimeout(ctx, 120*time.Second)
	defer cancelLoopContext()

	for {
		select {
		case <-loopContext.Done():
			return false
		default:
			resp, err := http.Get(baseURL + "/healthz")
			if err != nil {
				time.Sleep(1 * time.Second)
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				log.Println("server is ready")
				return true
			}
			time.Sleep(1 * time.Second)
		}
	}
}

// Token mints a bearer token directly, bypassing the init data exchange.
// Most suites use this; the auth suite exercises the real exchange.
func (resources *TestServerResources) Token(t *testing.T, userID int64) string {
	t.Helper()

	token, err := resources.Tokens.CreateToken(userID)
	if err != nil {
		t.Fatalf("Failed to mint token: %s", err)
	}
	return token
}

// SignedInitData forges valid Telegram init data for the test bot token.
func SignedInitData(userID int64, username string) string {
	userJSON := fmt.Sprintf(`{"id":%d,"username":%q,"first_name":"Test","last_name":"User"}`, userID, username)
	fields := map[string]string{
		"user":      userJSON,
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	}
	hash := initdata.Sign(fields, BotToken)

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

// Authenticate exchanges forged init data for a bearer token via the API.
func Authenticate(t *testing.T, baseURL string, userID int64, username string) entity.AuthResponse {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/auth", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	req.Header.Set("Authorization", "tma "+SignedInitData(userID, username))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response, err := http_util.DecodeBody[entity.AuthResponse](bodyBytes)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return response
}

// UpsertProfile creates or updates the caller's profile via the API.
func UpsertProfile(t *testing.T, baseURL, token string, req entity.UpsertProfileRequest) (entity.Profile, int) {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/v1/profiles", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return entity.Profile{}, resp.StatusCode
	}

	profile, err := http_util.DecodeBody[entity.Profile](bodyBytes)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return profile, resp.StatusCode
}

// Swipe sends a like or pass against a profile and returns the response
// along with the HTTP status, so callers can assert on conflicts too.
func Swipe(t *testing.T, baseURL, token string, profileID int64, action string) (entity.SwipeResponse, int) {
	t.Helper()

	requestURL := fmt.Sprintf("%s/v1/profiles/%d/%s", baseURL, profileID, action)
	req, err := http.NewRequest(http.MethodPost, requestURL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return entity.SwipeResponse{}, resp.StatusCode
	}

	response, err := http_util.DecodeBody[entity.SwipeResponse](bodyBytes)
	if err != nil {
		t.Fatalf("Failed to decode response: %s", err)
	}
	return response, resp.StatusCode
}

// GetProfiles fetches a list endpoint (/v1/profiles, /v1/likes/incoming,
// /v1/matches) and unwraps the profile list.
func GetProfiles(t *testing.T, baseURL, token, endpoint string) []entity.Profile {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, baseURL+endpoint, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response, err := http_util.DecodeBody[http_util.HTTPResponse[entity.ProfileListResponse]](bodyBytes)
	if err != nil {
		t.Fatalf("Failed to decode response: %s", err)
	}
	return response.Data.Profiles
}

// PopulateProfiles seeds active profiles directly through the ORM.
func PopulateProfiles(db *gorm.DB, count int) ([]entity.Profile, error) {
	genders := []entity.Gender{entity.GenderFemale, entity.GenderMale, entity.GenderOther}

	profiles := make([]entity.Profile, 0, count)
	for i := 0; i < count; i++ {
		profile := entity.Profile{
			UserID:     NewUserID(),
			Username:   faker.Username(),
			Name:       faker.Name(),
			Gender:     genders[i%len(genders)],
			Age:        entity.MinAge + i%(entity.MaxAge-entity.MinAge),
			City:       faker.Word(),
			University: faker.Word() + " University",
			Interests:  entity.StringList{faker.Word(), faker.Word()},
			Goals:      entity.StringList{faker.Word()},
			Bio:        strings.TrimSpace(faker.Sentence()),
			IsActive:   true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
