package cognito

// LoginFailedMessage is returned for every set of credentials the provider
// rejects, so callers cannot tell unknown users from wrong passwords.
const LoginFailedMessage = "Login failed, please make sure the credentials are correct."

// AuthResult is the token bundle issued for valid credentials, or a failure
// marker carrying only Message. The JSON field names follow the provider's
// AuthenticationResult.
type AuthResult struct {
	AccessToken  string `json:"AccessToken,omitempty"`
	IDToken      string `json:"IdToken,omitempty"`
	RefreshToken string `json:"RefreshToken,omitempty"`
	TokenType    string `json:"TokenType,omitempty"`
	ExpiresIn    int32  `json:"ExpiresIn,omitempty"`

	Message string `json:"message,omitempty"`
}

// Failed reports whether the provider rejected the credentials.
func (r *AuthResult) Failed() bool {
	return r != nil && r.Message != "" && r.AccessToken == ""
}

func loginFailed() *AuthResult {
	return &AuthResult{Message: LoginFailedMessage}
}
