// Package client provides a Go SDK for the kintone record REST API.
//
// The client resolves per-application connection parameters from a named
// registry, selects the authentication header, derives the endpoint URL
// (including the guest space segment) and builds requests for the four
// record operations: create, search, update and delete. Responses are
// returned exactly as the transport produced them; interpreting status codes
// and bodies is left to the caller.
//
// # Quick Start
//
//	apps := client.Registry{
//	    "customers": {AppID: 12, APIToken: "token"},
//	    "partners":  {AppID: 7, GuestID: client.Int64(3)},
//	}
//	c := client.New("example", apps)
//	resp, err := c.Search(ctx, "customers", `name = "Alice"`)
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
//
// # Authentication
//
// A client either carries one credential for every app, or defers to the
// per-app API token at call time. Client credentials always win:
//
//	c := client.New("example", apps,
//	    client.WithCredential(client.UserPasswordCredential("user", "pass")),
//	)
//
// A pre-encoded value is equivalent to the username/password pair it encodes:
//
//	client.EncodedCredential(client.EncodeBasic("user", "pass"))
//
// When neither is available the call fails with an *AuthenticationError and
// nothing is sent.
//
// # Endpoints
//
// A subdomain ending in ".com" is used verbatim as the host; anything else is
// suffixed with ".cybozu.com" (see WithDomain). Apps in a guest space are
// addressed under /k/guest/{guestId}/v1.
//
// # Transport
//
// Any value with a Do(*http.Request) method can carry the requests. The
// default is a plain *http.Client, which already returns non-2xx responses as
// ordinary responses rather than errors.
package client
