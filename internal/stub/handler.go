package stub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/openrestauth/pkg/authsdk"
	"github.com/aussiebroadwan/openrestauth/pkg/cryptox"
	"github.com/aussiebroadwan/openrestauth/pkg/httpx"
	"github.com/aussiebroadwan/openrestauth/pkg/slogx"
)

// Error codes written by the stub endpoint.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeUnsupportedType    = "unsupported_type"
	CodeServerError        = "server_error"
)

const maxRequestBody = 64 << 10

var (
	errMethodNotAllowed   = authsdk.NewError(CodeInvalidRequest, "only POST is supported")
	errMalformedBody      = authsdk.NewError(CodeInvalidRequest, "request body must be a JSON object")
	errInvalidCredentials = authsdk.NewError(CodeInvalidCredentials, "invalid credentials")
	errInvalidToken       = authsdk.NewError(CodeInvalidToken, "access token is invalid or expired")
	errServer             = authsdk.NewError(CodeServerError, "internal server error")
)

// request holds the union of every login method's fields.
type request struct {
	Type        string `json:"type"`
	Instance    string `json:"instance"`
	AppKey      string `json:"appKey"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	IDToken     string `json:"idToken"`
	ClientID    string `json:"clientId"`
	AccessToken string `json:"accessToken"`
}

// Handler serves the authentication endpoint.
type Handler struct {
	Directory *Directory
	Tokens    *TokenIssuer
	Hasher    cryptox.PasswordHasher
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httpx.WriteError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		log.Debug("malformed request body", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, errMalformedBody)
		return
	}

	method, err := authsdk.ParseLoginMethod(req.Type)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, authsdk.NewError(
			CodeUnsupportedType,
			"unsupported request type "+strconv.Quote(req.Type),
		))
		return
	}

	log = log.With("type", method.String())

	var (
		user    authsdk.UserRef
		authErr *authsdk.Error
	)
	switch method {
	case authsdk.MethodOpenrest:
		user, authErr = h.loginOpenrest(req)
	case authsdk.MethodGoogle:
		user, authErr = h.loginFederated(method, req.IDToken, req.ClientID)
	case authsdk.MethodFacebook:
		user, authErr = h.loginFederated(method, req.AccessToken, "")
	case authsdk.MethodWix:
		user, authErr = h.loginFederated(method, req.Instance, req.AppKey)
	case authsdk.MethodAuthenticate:
		user, authErr = h.authenticate(req.AccessToken)
	}
	if authErr != nil {
		log.Info("authentication failed", "code", authErr.Code)
		httpx.WriteError(w, http.StatusUnauthorized, authErr)
		return
	}

	token := req.AccessToken
	if method != authsdk.MethodAuthenticate {
		token, err = h.Tokens.Issue(user)
		if err != nil {
			log.Error("failed to issue access token", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, errServer)
			return
		}
	}

	log.Info("authenticated", "ns", user.NS, "user_id", user.ID)
	httpx.WriteValue(w, authsdk.LoginValue{User: user, AccessToken: token})
}

func (h *Handler) loginOpenrest(req request) (authsdk.UserRef, *authsdk.Error) {
	account, ok := h.Directory.FindUser(req.Username)
	if !ok {
		return authsdk.UserRef{}, errInvalidCredentials
	}
	if err := h.Hasher.VerifyPassword(req.Password, account.PasswordHash); err != nil {
		return authsdk.UserRef{}, errInvalidCredentials
	}
	return authsdk.UserRef{NS: NamespaceOpenrest, ID: account.ID}, nil
}

func (h *Handler) loginFederated(method authsdk.LoginMethod, token, audience string) (authsdk.UserRef, *authsdk.Error) {
	if token == "" {
		return authsdk.UserRef{}, errInvalidCredentials
	}
	user, ok := h.Directory.FindFederated(method, token, audience)
	if !ok {
		return authsdk.UserRef{}, errInvalidCredentials
	}
	return user, nil
}

func (h *Handler) authenticate(token string) (authsdk.UserRef, *authsdk.Error) {
	user, err := h.Tokens.Verify(token)
	if err != nil {
		return authsdk.UserRef{}, errInvalidToken
	}
	return user, nil
}
