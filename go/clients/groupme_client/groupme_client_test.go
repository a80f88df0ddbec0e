package groupme_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/draftwatch/go/clients"
)

func TestPostBotMessage(t *testing.T) {
	t.Run("posts form encoded bot message", func(t *testing.T) {
		var gotBotID, gotText string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, BotPostEndpoint, r.URL.Path)
			assert.NoError(t, r.ParseForm())
			gotBotID = r.PostForm.Get(BotIDField)
			gotText = r.PostForm.Get(TextField)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client := NewGroupMeClient(server.URL)
		err := client.PostBotMessage(context.Background(), "bot-123", "1.1: Alice, WR, Foxes - 1 overall")
		require.NoError(t, err)
		require.Equal(t, "bot-123", gotBotID)
		require.Equal(t, "1.1: Alice, WR, Foxes - 1 overall", gotText)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewGroupMeClient(server.URL)
		err := client.PostBotMessage(context.Background(), "missing-bot", "hello")
		var statusErr *clients.StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})
}
