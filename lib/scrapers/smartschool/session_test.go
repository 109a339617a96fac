package smartschool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCommandEnvelope(t *testing.T) {
	envelope := buildCommandEnvelope("agenda", "get lessons", map[string]string{
		"classID":  "0",
		"gridType": "1",
	})

	require.Contains(t, envelope, "<subsystem>agenda</subsystem>")
	require.Contains(t, envelope, "<action>get lessons</action>")
	require.Contains(t, envelope, `<param name="classID">0</param>`)
	require.Contains(t, envelope, `<param name="gridType">1</param>`)

	// params render in a deterministic order
	again := buildCommandEnvelope("agenda", "get lessons", map[string]string{
		"gridType": "1",
		"classID":  "0",
	})
	require.Equal(t, envelope, again)
}

func newLoginServer(t testing.TB) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join("testdata", "login.html"))
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token := r.PostForm.Get("login_form[_token]")
		username := r.PostForm.Get("login_form[_username]")
		password := r.PostForm.Get("login_form[_password]")

		if token != "d3adb33f-token" || username != "bumba" || password != "delu" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>start</body></html>"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoginUsernamePassword(t *testing.T) {
	server := newLoginServer(t)
	ctx := context.Background()

	client, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	err = client.LoginUsernamePassword(ctx, "bumba", "delu")
	require.NoError(t, err)
}

func TestLoginInvalidCredentials(t *testing.T) {
	server := newLoginServer(t)
	ctx := context.Background()

	client, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	err = client.LoginUsernamePassword(ctx, "bumba", "wrong")
	require.ErrorIs(t, err, InvalidCredentials)
}

func TestLoginMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no form here</body></html>"))
	}))
	t.Cleanup(server.Close)
	ctx := context.Background()

	client, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	err = client.LoginUsernamePassword(ctx, "bumba", "delu")
	require.ErrorIs(t, err, LoginFailed)
}
