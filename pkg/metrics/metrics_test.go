package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var testCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "randori_metrics_test_total",
	Help: "Counter used by the metrics package tests",
})

func TestWriteTextfile(t *testing.T) {
	testCounter.Inc()
	path := filepath.Join(t.TempDir(), "randori_export.prom")

	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "randori_metrics_test_total") {
		t.Errorf("textfile missing test counter:\n%s", data)
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.prom")
	if err := WriteTextfile(path); err == nil {
		t.Error("WriteTextfile() into a missing directory should fail")
	}
}

func TestPush(t *testing.T) {
	testCounter.Inc()

	var (
		mu      sync.Mutex
		method  string
		urlPath string
		body    string
	)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, urlPath, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	if err := Push(context.Background(), gateway.URL, "cron-host"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if method != http.MethodPut {
		t.Errorf("method = %s, want PUT", method)
	}
	if urlPath != "/metrics/job/"+JobName+"/instance/cron-host" {
		t.Errorf("path = %s", urlPath)
	}
	if body == "" {
		t.Error("push body is empty")
	}
}

func TestPush_GatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gateway.Close()

	if err := Push(context.Background(), gateway.URL, ""); err == nil {
		t.Error("Push() should fail when the gateway answers 500")
	}
}
