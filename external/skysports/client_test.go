package skysports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/acordafut/standings-engine/internal/platform/logging"
)

const standingsPage = `<html><body>
<table class="standing-table__table"><tbody>
<tr>
  <td>1</td><td><a href="/liverpool">Liverpool</a></td>
  <td>25</td><td>18</td><td>4</td><td>3</td><td>56</td><td>21</td><td>35</td><td>58</td>
</tr>
<tr><td colspan="10">advert</td></tr>
<tr>
  <td>2</td><td>Arsenal</td>
  <td>25</td><td>16</td><td>6</td><td>3</td><td>52</td><td>22</td><td>30</td><td>54</td>
</tr>
</tbody></table>
</body></html>`

func newTestClient(t *testing.T, handler http.Handler, retries int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: retries,
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestClient_Fetch_ParsesStandingsTable(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/premier-league-table" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(standingsPage))
	}), 0)

	rows, err := client.Fetch(context.Background(), "premier-league-table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Name != "Liverpool" || first.Games != 25 || first.GoalDifference != 35 || first.Points != 58 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if rows[1].Name != "Arsenal" || rows[1].Points != 54 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestClient_Fetch_RetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(standingsPage))
	}), 2)

	rows, err := client.Fetch(context.Background(), "premier-league-table")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || calls.Load() != 2 {
		t.Fatalf("expected success on second attempt, rows=%d calls=%d", len(rows), calls.Load())
	}
}

func TestClient_Fetch_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}), 3)

	if _, err := client.Fetch(context.Background(), "gone-table"); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt for 404, got %d", calls.Load())
	}
}

func TestClient_Fetch_PageWithoutTable(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}), 0)

	if _, err := client.Fetch(context.Background(), "premier-league-table"); err == nil {
		t.Fatalf("expected error for page without standings table")
	}
}

func TestClient_Fetch_EmptySlug(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.Fetch(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty slug")
	}
}
