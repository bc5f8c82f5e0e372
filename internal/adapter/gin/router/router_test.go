package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"places-service/internal/adapter/cache"
	"places-service/internal/adapter/db/postgres"
	"places-service/internal/adapter/geocode"
	"places-service/internal/adapter/gin/handler"
	"places-service/internal/adapter/gin/middleware"
	"places-service/internal/adapter/repository/cached"
	"places-service/internal/adapter/storage"
	placeusecase "places-service/internal/usecase/place"
	userusecase "places-service/internal/usecase/user"
	redisclient "places-service/pkg/redis"
	"places-service/pkg/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

const googleplex = `{"status":"OK","results":[{"geometry":{"location":{"lat":37.4224764,"lng":-122.0842499}}}]}`

type APISuite struct {
	suite.Suite
	db        *gorm.DB
	router    *gin.Engine
	uploadDir string
	redis     *miniredis.Miniredis
	log       *zap.Logger
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	t := s.T()
	s.log = zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	s.Require().NoError(db.AutoMigrate(postgres.Models()...))
	s.db = db

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("address"), "Amphitheatre") {
			_, _ = w.Write([]byte(googleplex))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	t.Cleanup(geo.Close)

	mr := miniredis.RunT(t)
	s.redis = mr
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s.uploadDir = filepath.Join(t.TempDir(), "uploads", "images")
	images, err := storage.NewLocalImageStore(s.uploadDir, 500000, s.log)
	s.Require().NoError(err)

	tokens := security.NewTokenService(testSecret, time.Hour)
	placeCache := cache.NewRedisPlaceCache(rdb, time.Minute, s.log)

	userRepo := postgres.NewUserRepoPG(db, s.log)
	placeRepo := cached.NewCachedPlaceRepository(postgres.NewPlaceRepoPG(db, s.log), placeCache, s.log)

	placeUC := placeusecase.New(
		placeRepo,
		userRepo,
		postgres.NewTransactor(db, s.log),
		geocode.NewGoogle(geo.Client(), geo.URL, "test-key", time.Second, s.log),
		images,
		placeCache,
		s.log,
	)
	userUC := userusecase.New(userRepo, security.NewPasswordHasher(4), tokens, s.log)

	s.router = SetupRouter(
		handler.NewUserHandler(userUC, images, s.log),
		handler.NewPlaceHandler(placeUC, images, s.log),
		Options{
			UploadDir:   s.uploadDir,
			CORSOrigin:  "*",
			ServiceName: "places-service",
			Tokens:      tokens,
			Files:       images,
			RateLimiter: middleware.NewRateLimiter(nil, middleware.RateLimiterConfig{Enabled: false}, s.log),
			Probes: map[string]Pinger{
				"database": postgres.NewProbe(db),
				"redis":    &redisclient.Client{Client: rdb},
			},
			Log: s.log,
		},
	)
}

func (s *APISuite) multipart(method, path, token string, fields map[string]string, file []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		s.Require().NoError(w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("image", "upload.png")
		s.Require().NoError(err)
		_, err = part.Write(file)
		s.Require().NoError(err)
	}
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) do(method, path, token, jsonBody string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if jsonBody != "" {
		body = strings.NewReader(jsonBody)
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if jsonBody != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *APISuite) message(rec *httptest.ResponseRecorder) string {
	var body handler.ErrorResponse
	s.decode(rec, &body)
	return body.Message
}

func (s *APISuite) signUp(name, email string) handler.AuthResponse {
	rec := s.multipart(http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	}, pngBytes)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var auth handler.AuthResponse
	s.decode(rec, &auth)
	s.Require().NotEmpty(auth.Token)
	return auth
}

func (s *APISuite) userPlaces(userID string) []string {
	rec := s.do(http.MethodGet, "/api/users", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var body handler.ListUsersResponse
	s.decode(rec, &body)
	for _, u := range body.Users {
		if u.ID == userID {
			return u.Places
		}
	}
	s.FailNow("user not listed", userID)
	return nil
}

func (s *APISuite) uploads() []os.DirEntry {
	entries, err := os.ReadDir(s.uploadDir)
	s.Require().NoError(err)
	return entries
}

func (s *APISuite) createPlace(token, address string) *httptest.ResponseRecorder {
	return s.multipart(http.MethodPost, "/api/places", token, map[string]string{
		"title":       "Googleplex",
		"description": "Headquarters of a search company",
		"address":     address,
	}, pngBytes)
}

func (s *APISuite) TestOwnershipScenario() {
	a := s.signUp("A", "a@x.com")
	b := s.signUp("B", "b@x.com")

	rec := s.createPlace(a.Token, "1600 Amphitheatre Parkway")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created handler.PlaceEnvelope
	s.decode(rec, &created)
	p := created.Place
	s.Equal(a.UserID, p.Creator)
	s.InDelta(37.4224764, p.Location.Lat, 1e-9)
	s.InDelta(-122.0842499, p.Location.Lng, 1e-9)

	// bidirectional consistency
	rec = s.do(http.MethodGet, "/api/places/"+p.ID, "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal([]string{p.ID}, s.userPlaces(a.UserID))

	rec = s.do(http.MethodGet, "/api/places/user/"+a.UserID, "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var listed handler.PlacesEnvelope
	s.decode(rec, &listed)
	s.Len(listed.Places, 1)

	// the stored image is served
	s.True(strings.HasPrefix(p.Image, "uploads/images/"))
	rec = s.do(http.MethodGet, "/"+p.Image, "", "")
	s.Equal(http.StatusOK, rec.Code)

	// B cannot touch A's place
	rec = s.do(http.MethodPatch, "/api/places/"+p.ID, b.Token, `{"title":"Mine","description":"Not really"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("You are not allowed to edit this place.", s.message(rec))

	rec = s.do(http.MethodDelete, "/api/places/"+p.ID, b.Token, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("You are not allowed to delete this place.", s.message(rec))

	// A can update
	rec = s.do(http.MethodPatch, "/api/places/"+p.ID, a.Token, `{"title":"GP","description":"Updated description"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodGet, "/api/places/"+p.ID, "", "")
	var fetched handler.PlaceEnvelope
	s.decode(rec, &fetched)
	s.Equal("GP", fetched.Place.Title)

	// A deletes
	rec = s.do(http.MethodDelete, "/api/places/"+p.ID, a.Token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Deleted successfully", s.message(rec))

	rec = s.do(http.MethodGet, "/api/places/"+p.ID, "", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Empty(s.userPlaces(a.UserID))

	rec = s.do(http.MethodGet, "/api/places/user/"+a.UserID, "", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Could not find a place for provided user id.", s.message(rec))

	_, err := os.Stat(filepath.Join(s.uploadDir, filepath.Base(p.Image)))
	s.True(os.IsNotExist(err), "place image should be removed")
}

func (s *APISuite) TestDuplicateSignUp() {
	first := s.signUp("A", "a@x.com")
	before := len(s.uploads())

	rec := s.multipart(http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Impostor", "email": "A@X.com", "password": "other123",
	}, pngBytes)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("Email already exists, try with other email.", s.message(rec))
	s.Len(s.uploads(), before, "upload of the rejected sign-up is removed")

	// the first account still logs in with its own password
	rec = s.do(http.MethodPost, "/api/users/login", "", `{"email":"a@x.com","password":"secret1"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var auth handler.AuthResponse
	s.decode(rec, &auth)
	s.Equal(first.UserID, auth.UserID)

	rec = s.do(http.MethodPost, "/api/users/login", "", `{"email":"a@x.com","password":"other123"}`)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("Wrong User Credentials.", s.message(rec))
}

func (s *APISuite) TestCreateIsAtomic() {
	a := s.signUp("A", "a@x.com")
	s.Require().NoError(s.db.Exec(
		`CREATE TRIGGER reject_owner_write BEFORE INSERT ON user_places
		 BEGIN SELECT RAISE(ABORT, 'owner write rejected'); END`).Error)

	rec := s.createPlace(a.Token, "1600 Amphitheatre Parkway")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("Creating place failed, please try again.", s.message(rec))

	var count int64
	s.Require().NoError(s.db.Model(&postgres.PlaceSchema{}).Count(&count).Error)
	s.Zero(count)
	s.Empty(s.userPlaces(a.UserID))
	s.Len(s.uploads(), 1, "only the avatar remains")
}

func (s *APISuite) TestCreateRejections() {
	a := s.signUp("A", "a@x.com")

	rec := s.createPlace("", "1600 Amphitheatre Parkway")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Authentication failed!", s.message(rec))

	rec = s.createPlace(a.Token, "Atlantis")
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("Could not find location for the specified address.", s.message(rec))

	rec = s.multipart(http.MethodPost, "/api/places", a.Token, map[string]string{
		"title": "", "description": "abc", "address": "1600 Amphitheatre Parkway",
	}, pngBytes)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = s.multipart(http.MethodPost, "/api/places", a.Token, map[string]string{
		"title": "x", "description": "long enough", "address": "1600 Amphitheatre Parkway",
	}, []byte("plain text"))
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("Invalid mime type!", s.message(rec))

	s.Len(s.uploads(), 1, "failed creates leave no images behind")
}

func (s *APISuite) TestMalformedIDs() {
	a := s.signUp("A", "a@x.com")

	rec := s.do(http.MethodGet, "/api/places/not-an-id", "", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Could not find a place for provided id.", s.message(rec))

	rec = s.do(http.MethodDelete, "/api/places/not-an-id", a.Token, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestMiscRoutes() {
	rec := s.do(http.MethodGet, "/api/awake", "", "")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"redis":"up"`)

	rec = s.do(http.MethodGet, "/metrics", "", "")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/nothing/here", "", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Could not find this route.", s.message(rec))
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *APISuite) TestHealthReportsDownDependency() {
	s.redis.Close()

	rec := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("unhealthy", body.Status)
	s.Equal("down", body.Checks["redis"])
	s.Equal("up", body.Checks["database"])
}

func TestSwaggerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)
	r := SetupRouter(&handler.UserHandler{}, &handler.PlaceHandler{}, Options{
		SwaggerFile: filepath.Join("..", "..", "..", "..", "api", "swagger", "places.swagger.json"),
		RateLimiter: middleware.NewRateLimiter(nil, middleware.RateLimiterConfig{}, log),
		Log:         log,
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/places/{pid}"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
