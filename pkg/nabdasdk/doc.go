/*
Package nabdasdk is the client SDK for the Nabda OTP backend.

# Client vs Session

The package is organized around two types:

  - Client: the HTTP gateway. Every backend call goes through Client.Do,
    which attaches the stored bearer credential, unwraps {success, data}
    envelopes and returns typed errors.
  - Session: the single owner of the signed-in identity. It hydrates from the
    token store, runs the login, OTP and logout flows, and exposes its state
    through Snapshot.

Both share one tokenstore.Store:

	store := tokenstore.New(storage, cookies)
	client := nabdasdk.NewClient("https://api.nabdaotp.com", store)
	session := nabdasdk.NewSession(client)

	session.Hydrate(ctx)
	if session.State() != nabdasdk.StateAuthenticated {
		_, err := session.Login(ctx, email, password)
		...
	}

# Errors

Non-2xx responses are returned as *APIError. A 401 additionally clears the
token store before returning, and matches ErrUnauthorized:

	page, err := client.Messages(ctx, nabdasdk.MessagesQuery{Page: 1})
	if errors.Is(err, nabdasdk.ErrUnauthorized) {
		// signed out; the next protected navigation redirects to login
	}

ClassifyAuthError maps login and OTP failures onto the three messages the
auth forms distinguish.
*/
package nabdasdk
