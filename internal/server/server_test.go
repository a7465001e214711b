package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"donna/internal/model"
	"donna/internal/whatsapp"
)

func testServer(appSecret string) *Server {
	config := model.WhatsAppConfig{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		VerifyToken:   "verify-me",
		AppSecret:     appSecret,
		APIVersion:    "v18.0",
	}
	return New(whatsapp.NewClient(config), nil, config)
}

func TestVerifyHandshake(t *testing.T) {
	srv := testServer("")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=challenge-42", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "challenge-42", rec.Body.String())
}

func TestVerifyHandshakeWrongToken(t *testing.T) {
	srv := testServer("")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-42", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	srv := testServer("app-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":"x"}`))
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookRejectsNonMessageEvent(t *testing.T) {
	srv := testServer("app-secret")
	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"statuses":[{"status":"delivered"}]}}]}]}`

	mac := hmac.New(sha256.New, []byte("app-secret"))
	mac.Write([]byte(body))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookRejectsGarbageBody(t *testing.T) {
	srv := testServer("")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
