// internal/handlers/handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pharmatrace/pharmatrace-backend/internal/config"
	"github.com/pharmatrace/pharmatrace-backend/internal/database"
	"github.com/pharmatrace/pharmatrace-backend/internal/middleware"
	"github.com/pharmatrace/pharmatrace-backend/internal/services"
	"github.com/pharmatrace/pharmatrace-backend/internal/utils"
)

// HandlerTestSuite drives the HTTP surface end to end against an in-memory
// database. Routes are wired by hand so the rate limiters and audit
// middleware stay out of the way.
type HandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	registry *services.RegistryService
	auth     *services.AuthService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(database.RunMigrations(db))
	suite.Require().NoError(database.SeedInitialData(db))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	suite.auth = services.NewAuthService(db, cfg)
	suite.registry = services.NewRegistryService(db)
	medicineService := services.NewMedicineService(db)
	provenanceService := services.NewProvenanceService(db)
	stageService := services.NewStageService(db, provenanceService)

	authHandler := NewAuthHandler(suite.auth)
	participantHandler := NewParticipantHandler(suite.registry)
	medicineHandler := NewMedicineHandler(medicineService, nil)
	stageHandler := NewStageHandler(stageService)
	trackHandler := NewTrackHandler(provenanceService)

	r := gin.New()
	v1 := r.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)

	participants := v1.Group("/participants")
	participants.GET("/:role", participantHandler.List)
	participants.GET("/:role/count", participantHandler.Count)
	participants.GET("/:role/:id", participantHandler.Get)
	participants.POST("/:role", middleware.AuthRequired(), participantHandler.Register)
	participants.PUT("/:role/:id/toggle", middleware.AuthRequired(), participantHandler.Toggle)

	medicines := v1.Group("/medicines")
	medicines.GET("", medicineHandler.List)
	medicines.GET("/count", medicineHandler.Count)
	medicines.GET("/:id", medicineHandler.Get)
	medicines.POST("", middleware.AuthRequired(), medicineHandler.Create)
	medicines.POST("/:id/documents", middleware.AuthRequired(), medicineHandler.UploadDocument)
	medicines.PUT("/:id/supply", middleware.AuthRequired(), stageHandler.SupplyRawMaterial)
	medicines.PUT("/:id/manufacture", middleware.AuthRequired(), stageHandler.Manufacture)
	medicines.PUT("/:id/distribute", middleware.AuthRequired(), stageHandler.Distribute)
	medicines.PUT("/:id/retail", middleware.AuthRequired(), stageHandler.Retail)
	medicines.PUT("/:id/sell", middleware.AuthRequired(), stageHandler.MarkSold)

	track := v1.Group("/track")
	track.GET("/:id", trackHandler.Trace)
	track.GET("/:id/stage", trackHandler.StageLabel)

	suite.router = r
}

// signUp creates an account and returns its bearer token and engine address.
func (suite *HandlerTestSuite) signUp(username string) (token, address string) {
	authResponse, err := suite.auth.Register(&services.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "Str0ng!pass",
	})
	suite.Require().NoError(err)
	return authResponse.AccessToken, authResponse.Account.Address
}

func (suite *HandlerTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (suite *HandlerTestSuite) TestRegisterAndToggleParticipant() {
	token, _ := suite.signUp("operator")

	w := suite.request(http.MethodPost, "/v1/participants/supplier", token, gin.H{
		"address": "0xsupplier",
		"name":    "RawMat Co",
		"place":   "Pune",
	})
	suite.Equal(http.StatusCreated, w.Code)
	body := decodeBody(suite.T(), w)
	participant := body["data"].(map[string]interface{})["participant"].(map[string]interface{})
	suite.Equal(float64(1), participant["id"])
	suite.Equal(true, participant["active"])

	// Count and get are public
	w = suite.request(http.MethodGet, "/v1/participants/supplier/count", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	body = decodeBody(suite.T(), w)
	suite.Equal(float64(1), body["data"].(map[string]interface{})["count"])

	w = suite.request(http.MethodPut, "/v1/participants/supplier/1/toggle", token, nil)
	suite.Equal(http.StatusOK, w.Code)
	body = decodeBody(suite.T(), w)
	suite.Equal(false, body["data"].(map[string]interface{})["active"])

	// Writes need a token
	w = suite.request(http.MethodPut, "/v1/participants/supplier/1/toggle", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestUnknownRoleIs404() {
	w := suite.request(http.MethodGet, "/v1/participants/wholesaler/count", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestIdZeroIs404() {
	w := suite.request(http.MethodGet, "/v1/participants/supplier/0", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCustodyChainOverHTTP() {
	manToken, manAddress := suite.signUp("manufacturer")
	supToken, supAddress := suite.signUp("supplier")

	// Enrol both accounts' addresses in the registry
	w := suite.request(http.MethodPost, "/v1/participants/manufacturer", manToken, gin.H{
		"address": manAddress, "name": "MediCorp", "place": "Pune",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	w = suite.request(http.MethodPost, "/v1/participants/supplier", manToken, gin.H{
		"address": supAddress, "name": "RawMat Co", "place": "Pune",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	// Only a manufacturer may order a batch
	w = suite.request(http.MethodPost, "/v1/medicines", supToken, gin.H{
		"name": "Paracetamol", "description": "500mg batch",
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, "/v1/medicines", manToken, gin.H{
		"name": "Paracetamol", "description": "500mg batch",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	body := decodeBody(suite.T(), w)
	medicine := body["data"].(map[string]interface{})["medicine"].(map[string]interface{})
	suite.Equal(float64(1), medicine["id"])

	// Out-of-order manufacture conflicts
	w = suite.request(http.MethodPut, "/v1/medicines/1/manufacture", manToken, nil)
	suite.Equal(http.StatusConflict, w.Code)

	// Supply, then manufacture
	w = suite.request(http.MethodPut, "/v1/medicines/1/supply", supToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body = decodeBody(suite.T(), w)
	suite.Equal("Raw Material Supplied", body["data"].(map[string]interface{})["stage_label"])

	// The supplier's token cannot drive the manufacture step
	w = suite.request(http.MethodPut, "/v1/medicines/1/manufacture", supToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPut, "/v1/medicines/1/manufacture", manToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	// Public trace shows the chain so far
	w = suite.request(http.MethodGet, "/v1/track/1", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body = decodeBody(suite.T(), w)
	trace := body["data"].(map[string]interface{})
	suite.Equal("Manufactured", trace["stage"])
	suite.NotNil(trace["supplier"])
	suite.NotNil(trace["manufacturer"])
	suite.Nil(trace["distributor"])

	w = suite.request(http.MethodGet, "/v1/track/1/stage", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body = decodeBody(suite.T(), w)
	suite.Equal("Manufactured", body["data"].(map[string]interface{})["stage"])
}

func (suite *HandlerTestSuite) TestTrackUnknownMedicine() {
	w := suite.request(http.MethodGet, "/v1/track/42", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestStageEndpointsRequireAuth() {
	w := suite.request(http.MethodPut, "/v1/medicines/1/supply", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestAuthFlow() {
	w := suite.request(http.MethodPost, "/v1/auth/register", "", gin.H{
		"username": "walleteer",
		"email":    "walleteer@example.com",
		"password": "Str0ng!pass",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	body := decodeBody(suite.T(), w)
	data := body["data"].(map[string]interface{})
	token := data["token"].(string)
	account := data["account"].(map[string]interface{})
	suite.Len(account["address"], 42) // "0x" + 40 hex chars

	w = suite.request(http.MethodGet, "/v1/auth/me", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPost, "/v1/auth/login", "", gin.H{
		"email":    "walleteer@example.com",
		"password": "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/v1/auth/login", "", gin.H{
		"email":    "walleteer@example.com",
		"password": "Str0ng!pass",
	})
	suite.Equal(http.StatusOK, w.Code)
}

// The suite runs without a storage service; uploads must refuse cleanly
// instead of panicking on the missing backend.
func (suite *HandlerTestSuite) TestUploadWithoutStorageIs503() {
	token, _ := suite.signUp("operator")

	w := suite.request(http.MethodPost, "/v1/medicines/1/documents", token, nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	body := decodeBody(suite.T(), w)
	errObj := body["error"].(map[string]interface{})
	suite.Equal("SERVICE_UNAVAILABLE", errObj["code"])
}

func (suite *HandlerTestSuite) TestMedicineListAndCount() {
	manToken, manAddress := suite.signUp("manufacturer")
	w := suite.request(http.MethodPost, "/v1/participants/manufacturer", manToken, gin.H{
		"address": manAddress, "name": "MediCorp", "place": "Pune",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	for _, name := range []string{"Paracetamol", "Ibuprofen"} {
		w = suite.request(http.MethodPost, "/v1/medicines", manToken, gin.H{
			"name": name, "description": "batch",
		})
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w = suite.request(http.MethodGet, "/v1/medicines/count", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	body := decodeBody(suite.T(), w)
	suite.Equal(float64(2), body["data"].(map[string]interface{})["count"])

	w = suite.request(http.MethodGet, "/v1/medicines?page=1&limit=10", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	body = decodeBody(suite.T(), w)
	entries := body["data"].([]interface{})
	suite.Len(entries, 2)
	first := entries[0].(map[string]interface{})
	suite.Equal("Ordered", first["stage_label"])
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
