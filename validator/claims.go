package validator

// Claim names this package reads or writes.
const (
	SubjectClaim  = "sub"
	AudienceClaim = "aud"
	ClientIDClaim = "client_id"
)

// Claims is the decoded payload of a verified token. Numbers are json.Number.
type Claims map[string]any

// Subject returns the sub claim, or "" when it is absent or not a string.
func (c Claims) Subject() string {
	sub, _ := c[SubjectClaim].(string)
	return sub
}

// Normalize returns a copy of claims in which an absent aud is set to the
// value of client_id. Cognito access tokens carry the app client in
// client_id instead of aud. Claims without client_id, or that already have
// aud, are copied unchanged. Normalize is idempotent and never fails.
func Normalize(claims Claims) Claims {
	normalized := make(Claims, len(claims)+1)
	for k, v := range claims {
		normalized[k] = v
	}

	if clientID, ok := normalized[ClientIDClaim]; ok {
		if _, hasAudience := normalized[AudienceClaim]; !hasAudience {
			normalized[AudienceClaim] = clientID
		}
	}
	return normalized
}

// ResolveIdentity returns the caller's subject.
func ResolveIdentity(claims Claims) (string, error) {
	sub := claims.Subject()
	if sub == "" {
		return "", &MissingSubjectError{}
	}
	return sub, nil
}
