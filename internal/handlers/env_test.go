package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/phuwanat/devicehub/internal/hash"
	authmw "github.com/phuwanat/devicehub/internal/middleware/auth"
	"github.com/phuwanat/devicehub/internal/models"
	"github.com/phuwanat/devicehub/internal/service/token"
)

var testSecret = []byte("test_secret")

type fakePublisher struct {
	events []map[string]interface{}
}

func (p *fakePublisher) PublishEvent(_ context.Context, _, _ string, event interface{}) error {
	if m, ok := event.(map[string]interface{}); ok {
		p.events = append(p.events, m)
	}
	return nil
}

type fakeIndexer struct {
	indexed []models.Device
	deleted []uint
}

func (f *fakeIndexer) IndexDevice(_ context.Context, d models.Device) error {
	f.indexed = append(f.indexed, d)
	return nil
}

func (f *fakeIndexer) DeleteDevice(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	A       *AuthHandler
	D       *DeviceHandler
	F       *FavoriteHandler
	P       *ProfileHandler
	S       *StatsHandler
	Pub     *fakePublisher
	Indexer *fakeIndexer
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Device{}, &models.Favorite{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)
	pub := &fakePublisher{}
	idx := &fakeIndexer{}

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		A:       &AuthHandler{DB: db, JWTSecret: testSecret, Producer: pub},
		D:       &DeviceHandler{DB: db, Producer: pub, Search: idx},
		F:       &FavoriteHandler{DB: db, Producer: pub},
		P:       &ProfileHandler{DB: db, Producer: pub},
		S:       &StatsHandler{DB: db},
		Pub:     pub,
		Indexer: idx,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser stamps the context the way RequireLogin would after verifying a token.
func (env *testEnv) asUser(c echo.Context, u models.User) {
	authmw.SetUserContext(c, &token.Claims{UserID: u.ID, Role: u.Role, Username: u.Username})
}

func (env *testEnv) createUser(username, password, role string) models.User {
	hashed, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{Username: username, PasswordHash: hashed, Role: role}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) createDevice(name, category string, price float64) models.Device {
	device := models.Device{
		Name:     name,
		Category: category,
		Brand:    "acme",
		Model:    "x1",
		Price:    price,
	}
	require.NoError(env.T, env.DB.Create(&device).Error)
	return device
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
