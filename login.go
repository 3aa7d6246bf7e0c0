package bearerauth

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/ghgc/bearerauth/cognito"
	"github.com/ghgc/bearerauth/telemetry"
)

// maxLoginBodyBytes bounds the login request body.
const maxLoginBodyBytes = 64 << 10

// Login response messages other than cognito.LoginFailedMessage.
const (
	MessageCredentialsRequired = "username and password are required"
	MessageProviderError       = "Something went wrong while contacting the identity provider."
)

// Exchanger exchanges credentials for tokens. *cognito.Exchanger implements it.
type Exchanger interface {
	Exchange(ctx context.Context, username, password string) (*cognito.AuthResult, error)
}

// LoginRequest is the JSON body accepted by the login handler. Form
// encoded bodies with the same field names are accepted too.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginHandler struct {
	exchanger Exchanger
	logger    telemetry.Logger
}

// LoginOption configures NewLoginHandler.
type LoginOption func(*loginHandler)

// WithLoginLogger sets the logger of the login handler.
func WithLoginLogger(logger telemetry.Logger) LoginOption {
	return func(h *loginHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewLoginHandler serves POST requests that exchange a username and
// password for tokens. Responses:
//   - 200 with the token bundle
//   - 400 when a credential is missing or the body is unreadable
//   - 401 with cognito.LoginFailedMessage when the provider rejects them
//   - 500 when the provider call fails
func NewLoginHandler(exchanger Exchanger, opts ...LoginOption) http.Handler {
	h := &loginHandler{exchanger: exchanger, logger: telemetry.NopLogger{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *loginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, messageBody{Message: http.StatusText(http.StatusMethodNotAllowed)})
		return
	}

	req, err := decodeLoginRequest(w, r)
	if err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: MessageCredentialsRequired})
		return
	}

	result, err := h.exchanger.Exchange(r.Context(), req.Username, req.Password)
	switch {
	case err != nil:
		var providerErr *cognito.ProviderError
		if !errors.As(err, &providerErr) {
			h.logger.Error("unexpected credential exchange failure", "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: MessageProviderError})
	case result.Failed():
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: result.Message})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func decodeLoginRequest(w http.ResponseWriter, r *http.Request) (LoginRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)

	var req LoginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxLoginBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, err
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
	}
	return req, nil
}
