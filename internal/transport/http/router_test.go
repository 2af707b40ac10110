package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/phuwanat/devicehub/internal/handlers"
	"github.com/phuwanat/devicehub/internal/models"
)

var testSecret = []byte("test_secret")

type nopPublisher struct{}

func (nopPublisher) PublishEvent(context.Context, string, string, interface{}) error { return nil }

type nopIndexer struct{}

func (nopIndexer) IndexDevice(context.Context, models.Device) error { return nil }
func (nopIndexer) DeleteDevice(context.Context, uint) error         { return nil }

func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Device{}, &models.Favorite{}))

	e := echo.New()
	Register(e, &Deps{
		DB:              db,
		JWTSecret:       testSecret,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: testSecret, Producer: nopPublisher{}},
		DeviceHandler:   &handlers.DeviceHandler{DB: db, Producer: nopPublisher{}, Search: nopIndexer{}},
		FavoriteHandler: &handlers.FavoriteHandler{DB: db, Producer: nopPublisher{}},
		ProfileHandler:  &handlers.ProfileHandler{DB: db, Producer: nopPublisher{}},
		StatsHandler:    &handlers.StatsHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{},
	})
	return e, db
}

func do(e *echo.Echo, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, e *echo.Echo, username, password, role string) string {
	rec := do(e, http.MethodPost, "/register", "", map[string]string{
		"username": username, "password": password, "role": role,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestDeviceMutationsRequireAdmin(t *testing.T) {
	e, _ := newServer(t)
	userToken := loginAs(t, e, "alice", "secret1", "")

	payload := map[string]interface{}{"name": "ThinkPad X1", "price": 1899.0}

	rec := do(e, http.MethodPost, "/devices", "", payload)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/devices", userToken, payload)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPut, "/devices/1", userToken, payload)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodDelete, "/devices/1", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/users/stats", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminDeviceFlow(t *testing.T) {
	e, _ := newServer(t)
	adminToken := loginAs(t, e, "boss", "secret1", "admin")

	rec := do(e, http.MethodPost, "/devices", adminToken, map[string]interface{}{
		"name": "ThinkPad X1", "category": "laptop", "price": 1899.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(e, http.MethodGet, "/devices/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodDelete, "/devices/1", adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/devices/1", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavoriteFlow(t *testing.T) {
	e, db := newServer(t)
	userToken := loginAs(t, e, "alice", "secret1", "")

	device := models.Device{Name: "Galaxy S24", Category: "phone", Price: 999}
	require.NoError(t, db.Create(&device).Error)

	rec := do(e, http.MethodPost, "/favorites", userToken, map[string]interface{}{"deviceId": device.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/favorites", userToken, map[string]interface{}{"deviceId": device.ID})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodGet, "/favorites", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var devices []models.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &devices))
	require.Len(t, devices, 1)
	require.Equal(t, device.ID, devices[0].ID)

	rec = do(e, http.MethodDelete, "/favorites/1", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodDelete, "/favorites/1", userToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := loginAs(t, e, "alice", "secret1", "")
	rec = do(e, http.MethodGet, "/profile", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp["username"])
}

func TestHealthEndpoints(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
