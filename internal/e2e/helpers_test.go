package e2e

import (
    "bytes"
    "io"
    "net/http"
    "net/http/httptest"
    "sync"
    "testing"
    "time"

    "github.com/rs/zerolog"

    "errgate/internal/httpapi"
    "errgate/internal/upstream"
)

// syncBuffer lets the server goroutines and the test read logs safely.
type syncBuffer struct {
    mu  sync.Mutex
    buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.buf.String()
}

// newGateway starts errgate in front of upstreamURL and returns the server and its log sink.
func newGateway(t *testing.T, upstreamURL string, opts httpapi.Options, mopts httpapi.MuxOptions) (*httptest.Server, *syncBuffer) {
    t.Helper()
    logs := &syncBuffer{}
    ic := httpapi.NewInterceptor(zerolog.New(logs), opts)
    client, err := upstream.New(upstreamURL, 2*time.Second)
    if err != nil {
        t.Fatalf("upstream client: %v", err)
    }
    srv := httptest.NewServer(httpapi.NewMux(ic, client, mopts))
    t.Cleanup(srv.Close)
    return srv, logs
}

func httpGet(t *testing.T, url string, header http.Header) (*http.Response, []byte) {
    t.Helper()
    req, err := http.NewRequest(http.MethodGet, url, nil)
    if err != nil {
        t.Fatalf("new request: %v", err)
    }
    for k, v := range header {
        req.Header[k] = v
    }
    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        t.Fatalf("GET %s: %v", url, err)
    }
    defer resp.Body.Close()
    b, _ := io.ReadAll(resp.Body)
    return resp, b
}
