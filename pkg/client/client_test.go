package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApps() Registry {
	return Registry{
		"customers": {AppID: 5, APIToken: "app-token", DisplayName: "Customers"},
		"partners":  {AppID: 9, GuestID: Int64(3), APIToken: "guest-token"},
		"notoken":   {AppID: 11},
		"broken":    {DisplayName: "no id"},
	}
}

// okDoer records the request it receives and answers with status.
func okDoer(status int, got **http.Request) DoerFunc {
	return func(req *http.Request) (*http.Response, error) {
		*got = req
		return &http.Response{
			StatusCode: status,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(`{}`)),
			Request:    req,
		}, nil
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		subdomain string
		guestID   *int64
		want      string
	}{
		{"bare subdomain", "example", nil, "https://example.cybozu.com/k/v1"},
		{"fully qualified", "records.example.com", nil, "https://records.example.com/k/v1"},
		{"guest space", "example", Int64(42), "https://example.cybozu.com/k/guest/42/v1"},
		{"fully qualified guest", "kintone.example.com", Int64(7), "https://kintone.example.com/k/guest/7/v1"},
		{"com inside name", "example.company", nil, "https://example.company.cybozu.com/k/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Endpoint(tt.subdomain, DefaultDomain, tt.guestID))
		})
	}
}

func TestAppEndpoint_UsesDomainOption(t *testing.T) {
	c := New("example", testApps(), WithDomain(".kintone.com"))
	got, err := c.AppEndpoint("partners")
	require.NoError(t, err)
	assert.Equal(t, "https://example.kintone.com/k/guest/3/v1", got)

	c = New("example", testApps(), WithDomain(""))
	got, err = c.AppEndpoint("customers")
	require.NoError(t, err)
	assert.Equal(t, "https://example.cybozu.com/k/v1", got)
}

func TestCredential_PathsAreEquivalent(t *testing.T) {
	fromPair := UserPasswordCredential("alice", "s3cret")
	fromEncoded := EncodedCredential(EncodeBasic("alice", "s3cret"))

	assert.True(t, fromPair.IsSet())
	assert.True(t, fromEncoded.IsSet())
	assert.Equal(t, "YWxpY2U6czNjcmV0", fromPair.Value())
	assert.Equal(t, fromPair.Value(), fromEncoded.Value())

	var a, b *http.Request
	c1 := New("example", testApps(), WithCredential(fromPair), WithHTTPClient(okDoer(200, &a)))
	c2 := New("example", testApps(), WithCredential(fromEncoded), WithHTTPClient(okDoer(200, &b)))
	_, err := c1.Search(context.Background(), "customers", "")
	require.NoError(t, err)
	_, err = c2.Search(context.Background(), "customers", "")
	require.NoError(t, err)
	assert.Equal(t, a.Header, b.Header)
}

func TestCredential_StringHidesSecret(t *testing.T) {
	assert.Equal(t, "none", NoCredential().String())
	assert.Equal(t, "encoded", EncodedCredential("abc").String())
	assert.Equal(t, "password(alice)", UserPasswordCredential("alice", "pw").String())
	assert.False(t, EncodedCredential("").IsSet())
}

func TestAuthHeader_ClientCredentialWins(t *testing.T) {
	var got *http.Request
	c := New("example", testApps(),
		WithCredential(UserPasswordCredential("alice", "pw")),
		WithHTTPClient(okDoer(200, &got)),
	)

	_, err := c.Search(context.Background(), "customers", "")
	require.NoError(t, err)
	assert.Equal(t, EncodeBasic("alice", "pw"), got.Header.Get(HeaderAuthorization))
	assert.Empty(t, got.Header.Get(HeaderAPIToken))

	// Apps without a token still work under client credentials.
	_, err = c.Search(context.Background(), "notoken", "")
	require.NoError(t, err)
	assert.Equal(t, EncodeBasic("alice", "pw"), got.Header.Get(HeaderAuthorization))
}

func TestAuthHeader_AppToken(t *testing.T) {
	var got *http.Request
	c := New("example", testApps(), WithHTTPClient(okDoer(200, &got)))

	_, err := c.Search(context.Background(), "partners", "")
	require.NoError(t, err)
	assert.Equal(t, "guest-token", got.Header.Get(HeaderAPIToken))
	assert.Empty(t, got.Header.Get(HeaderAuthorization))
}

func TestAuthHeader_NoCredentialFailsBeforeSending(t *testing.T) {
	var calls atomic.Int32
	c := New("example", testApps(), WithHTTPClient(DoerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("must not be called")
	})))

	ctx := context.Background()
	_, err := c.Create(ctx, "notoken", []Record{{"a": "b"}})
	require.Error(t, err)
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "notoken", authErr.App)
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.True(t, IsAuthenticationError(err))

	_, err = c.NewSearchRequest(ctx, "notoken", "")
	assert.ErrorIs(t, err, ErrNoCredential)
	_, err = c.Update(ctx, "notoken", nil)
	assert.ErrorIs(t, err, ErrNoCredential)
	_, err = c.Destroy(ctx, "notoken", []int64{1})
	assert.ErrorIs(t, err, ErrNoCredential)

	assert.Equal(t, int32(0), calls.Load())
}

func TestConfigurationErrors(t *testing.T) {
	ctx := context.Background()
	c := New("example", testApps(), WithCredential(EncodedCredential("abc")))

	_, err := c.Search(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrUnknownApp)
	assert.True(t, IsConfigurationError(err))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "missing", cfgErr.App)
	assert.Equal(t, ErrUnknownApp, cfgErr.Err)

	_, err = c.Search(ctx, "broken", "")
	assert.ErrorIs(t, err, ErrMissingAppID)

	empty := New("", testApps(), WithCredential(EncodedCredential("abc")))
	_, err = empty.Destroy(ctx, "customers", []int64{1})
	assert.ErrorIs(t, err, ErrEmptySubdomain)
	assert.Contains(t, err.Error(), `"customers"`)
}

func TestNewSearchRequest(t *testing.T) {
	c := New("example", testApps())
	query := `name = "Alice"`

	req, err := c.NewSearchRequest(context.Background(), "customers", query)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://example.cybozu.com/k/v1/records.json", req.URL.Scheme+"://"+req.URL.Host+req.URL.Path)
	assert.Equal(t, "app=5&query=name%20%3D%20%22Alice%22&totalCount=true", req.URL.RawQuery)
	assert.Equal(t, query, req.URL.Query().Get("query"))
	assert.Nil(t, req.Body)
	assert.Empty(t, req.Header.Get("Content-Type"))
}

func TestNewSearchRequest_EncodesReservedCharacters(t *testing.T) {
	c := New("example", testApps())
	query := `status in ("A&B", "C+D") order by $id desc limit 10`

	req, err := c.NewSearchRequest(context.Background(), "customers", query)
	require.NoError(t, err)
	assert.Equal(t, query, req.URL.Query().Get("query"))
	assert.NotContains(t, req.URL.RawQuery, "+")
}

func TestNewDestroyRequest_IndexedIDs(t *testing.T) {
	c := New("example", testApps())

	req, err := c.NewDestroyRequest(context.Background(), "partners", []int64{10, 20, 30})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/k/guest/3/v1/records.json", req.URL.Path)
	assert.Equal(t, "app=9&ids[0]=10&ids[1]=20&ids[2]=30", req.URL.RawQuery)
	assert.Nil(t, req.Body)
}

func TestNewDestroyRequest_PreservesOrder(t *testing.T) {
	c := New("example", testApps())

	req, err := c.NewDestroyRequest(context.Background(), "customers", []int64{30, 10, 20})
	require.NoError(t, err)
	assert.Equal(t, "app=5&ids[0]=30&ids[1]=10&ids[2]=20", req.URL.RawQuery)
}

func TestPayloadRequests_RoundTrip(t *testing.T) {
	records := []Record{
		{"name": map[string]any{"value": "Alice"}},
		{"id": "12", "record": map[string]any{"status": map[string]any{"value": "done"}}},
	}
	c := New("example", testApps())

	builders := map[string]func(context.Context, string, []Record) (*http.Request, error){
		http.MethodPost: c.NewCreateRequest,
		http.MethodPut:  c.NewUpdateRequest,
	}
	for method, build := range builders {
		t.Run(method, func(t *testing.T) {
			req, err := build(context.Background(), "customers", records)
			require.NoError(t, err)
			assert.Equal(t, method, req.Method)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "app-token", req.Header.Get(HeaderAPIToken))
			assert.Empty(t, req.URL.RawQuery)

			raw, err := io.ReadAll(req.Body)
			require.NoError(t, err)

			var decoded struct {
				App     int64    `json:"app"`
				Records []Record `json:"records"`
			}
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, int64(5), decoded.App)
			assert.Equal(t, records, decoded.Records)
		})
	}
}

func TestNewCreateRequest_NilRecordsEncodeAsEmptyArray(t *testing.T) {
	c := New("example", testApps())
	req, err := c.NewCreateRequest(context.Background(), "customers", nil)
	require.NoError(t, err)
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"app":5,"records":[]}`, string(raw))
}

func TestOperations_ReturnErrorResponsesUnchanged(t *testing.T) {
	var got *http.Request
	c := New("example", testApps(), WithHTTPClient(okDoer(http.StatusBadRequest, &got)))

	resp, err := c.Update(context.Background(), "customers", []Record{{"id": "1"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, http.MethodPut, got.Method)
}

func TestOperations_TransportErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("dial tcp: no such host")
	c := New("example", testApps(), WithHTTPClient(DoerFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})))

	resp, err := c.Destroy(context.Background(), "customers", []int64{1})
	assert.Nil(t, resp)
	assert.Same(t, boom, err)
}

func TestOperations_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/k/v1/records.json", r.URL.Path)
		assert.Equal(t, "app-token", r.Header.Get(HeaderAPIToken))
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"app":5,"records":[{"title":{"value":"x"}}]}`, string(body))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ids":["1"],"revisions":["1"]}`))
		case http.MethodGet:
			assert.Equal(t, "true", r.URL.Query().Get("totalCount"))
			_, _ = w.Write([]byte(`{"records":[],"totalCount":"0"}`))
		case http.MethodDelete:
			assert.Equal(t, "7", r.URL.Query().Get("ids[0]"))
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"GAIA_RE01","message":"not found"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	// Redirect the https endpoint to the local test server.
	doer := DoerFunc(func(req *http.Request) (*http.Response, error) {
		req.URL.Scheme = "http"
		req.URL.Host = srv.Listener.Addr().String()
		req.Host = ""
		return srv.Client().Do(req)
	})
	c := New("example", testApps(), WithHTTPClient(doer))
	ctx := context.Background()

	resp, err := c.Create(ctx, "customers", []Record{{"title": map[string]any{"value": "x"}}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = c.Search(ctx, "customers", "")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"records":[],"totalCount":"0"}`, string(body))

	resp, err = c.Destroy(ctx, "customers", []int64{7})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestClient_RegistryIsCopied(t *testing.T) {
	apps := testApps()
	c := New("example", apps)
	apps["customers"] = AppConfig{AppID: 99}
	delete(apps, "partners")

	got, ok := c.App("customers")
	require.True(t, ok)
	assert.Equal(t, int64(5), got.AppID)
	_, ok = c.App("partners")
	assert.True(t, ok)
}

func TestClient_ConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	c := New("example", testApps(), WithHTTPClient(DoerFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header)}, nil
	})))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app := "customers"
			if i%2 == 0 {
				app = "partners"
			}
			resp, err := c.Search(context.Background(), app, "")
			if assert.NoError(t, err) {
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(32), calls.Load())
}
