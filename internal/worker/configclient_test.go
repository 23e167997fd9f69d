package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadvoice/internal/agent"

	"github.com/stretchr/testify/assert"
)

func TestConfigClientProfile(t *testing.T) {
	acme := agent.DefaultProfile("en-IN", "vidya")
	acme.ID = "acme"
	acme.Name = "Acme Realty"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/config/acme":
			json.NewEncoder(w).Encode(acme)
		case "/api/config/partial":
			w.Write([]byte(`{"id":"partial","name":"Half"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fallback := agent.DefaultProfile("hi-IN", "arya")
	c := NewConfigClient(srv.URL+"/", fallback)

	got := c.Profile(context.Background(), "acme")
	assert.Equal(t, "Acme Realty", got.Name)
	assert.Equal(t, "en-IN", got.Language)

	assert.Equal(t, fallback, c.Profile(context.Background(), "partial"))
	assert.Equal(t, fallback, c.Profile(context.Background(), "ghost"))
}

func TestConfigClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	fallback := agent.DefaultProfile("", "")
	c := NewConfigClient(url, fallback)
	assert.Equal(t, agent.DefaultID, c.Profile(context.Background(), "acme").ID)
}
