/*
Package cognito exchanges a username and password for tokens using the
Cognito AdminInitiateAuth operation with the ADMIN_USER_PASSWORD_AUTH flow.

Credentials the provider rejects are not an error: Exchange returns an
AuthResult whose Failed method reports true and whose Message is the
generic LoginFailedMessage. Every other failure, including timeouts and
throttling, is returned as *ProviderError.

	exchanger, err := cognito.NewFromConfig(ctx, cognito.ProviderConfig{
	    Region:     "us-west-2",
	    UserPoolID: "us-west-2_abc",
	    ClientID:   "app-client",
	})
	if err != nil {
	    log.Fatal(err)
	}

	result, err := exchanger.Exchange(ctx, username, password)
	switch {
	case err != nil:
	    // provider unavailable or misconfigured
	case result.Failed():
	    // wrong credentials
	default:
	    // result.AccessToken, result.IDToken, ...
	}
*/
package cognito
