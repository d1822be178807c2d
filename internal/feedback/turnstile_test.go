package feedback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnstileVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.PostFormValue("secret"))
		assert.Equal(t, "10.0.0.1", r.PostFormValue("remoteip"))

		if r.PostFormValue("response") == "valid-token" {
			w.Write([]byte(`{"success": true}`))
			return
		}
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	verifier := NewTurnstileVerifier("test-secret", srv.URL)

	ok, err := verifier.Verify(context.Background(), "valid-token", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifier.Verify(context.Background(), "bad-token", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "a rejected token is not an error")
}

func TestTurnstileVerifyUpstreamFailureIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	verifier := NewTurnstileVerifier("test-secret", srv.URL)

	_, err := verifier.Verify(context.Background(), "any-token", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestTurnstileVerifyMalformedResponseIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	verifier := NewTurnstileVerifier("test-secret", srv.URL)

	_, err := verifier.Verify(context.Background(), "any-token", "")
	require.Error(t, err)
}
