package logging

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"pizza-service/internal/config"
	"pizza-service/internal/httpx"

	"github.com/rs/zerolog"
)

// remoteWriter batches JSON log lines and pushes them to a Loki-style
// endpoint. Pushes run in their own goroutine and never block the caller.
type remoteWriter struct {
	client    *httpx.Client
	url       string
	apiKey    string
	service   string
	batchSize int
	timeout   time.Duration
	now       func() time.Time
	errLog    zerolog.Logger

	mu      sync.Mutex
	pending []remoteEntry
	closed  bool

	inflight sync.WaitGroup
	stop     chan struct{}
	done     chan struct{}
}

type remoteEntry struct {
	ts    time.Time
	level string
	line  string
}

type pushRequest struct {
	Streams []pushStream `json:"streams"`
}

type pushStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

func newRemoteWriter(client *httpx.Client, cfg config.LogConfig) *remoteWriter {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	timeout := cfg.PushTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	w := &remoteWriter{
		client:    client,
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		service:   cfg.Service,
		batchSize: batch,
		timeout:   timeout,
		now:       time.Now,
		errLog:    zerolog.New(os.Stderr).With().Timestamp().Logger(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.loop(cfg.FlushInterval)
	return w
}

func (w *remoteWriter) loop(interval time.Duration) {
	defer close(w.done)
	if interval <= 0 {
		<-w.stop
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *remoteWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line == "" {
		return len(p), nil
	}
	entry := remoteEntry{ts: w.now(), level: lineLevel(p), line: line}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return len(p), nil
	}
	w.pending = append(w.pending, entry)
	var batch []remoteEntry
	if len(w.pending) >= w.batchSize {
		batch, w.pending = w.pending, nil
	}
	w.mu.Unlock()

	if batch != nil {
		w.push(batch)
	}
	return len(p), nil
}

func (w *remoteWriter) flush() {
	w.mu.Lock()
	batch := w.pending
	w.pending = nil
	w.mu.Unlock()
	if len(batch) > 0 {
		w.push(batch)
	}
}

func (w *remoteWriter) push(batch []remoteEntry) {
	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		headers := map[string]string{"Authorization": "Bearer " + w.apiKey}
		if err := w.client.PostJSON(ctx, w.url, headers, w.encode(batch)); err != nil {
			// Reporting through the global logger would feed the failure back into this writer.
			w.errLog.Warn().Err(err).Int("lines", len(batch)).Msg("log push failed")
		}
	}()
}

// encode groups entries into one stream per level, keeping first-seen order.
func (w *remoteWriter) encode(batch []remoteEntry) pushRequest {
	var req pushRequest
	index := make(map[string]int)
	for _, e := range batch {
		i, ok := index[e.level]
		if !ok {
			i = len(req.Streams)
			index[e.level] = i
			req.Streams = append(req.Streams, pushStream{
				Stream: map[string]string{"component": w.service, "level": e.level},
			})
		}
		req.Streams[i].Values = append(req.Streams[i].Values, [2]string{strconv.FormatInt(e.ts.UnixNano(), 10), e.line})
	}
	return req
}

// Close stops the flush loop, pushes what is still buffered and waits for
// in-flight pushes until ctx is done.
func (w *remoteWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	batch := w.pending
	w.pending = nil
	w.mu.Unlock()

	close(w.stop)
	<-w.done
	if len(batch) > 0 {
		w.push(batch)
	}

	waited := make(chan struct{})
	go func() {
		w.inflight.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func lineLevel(p []byte) string {
	var fields struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal(p, &fields); err != nil || fields.Level == "" {
		return zerolog.InfoLevel.String()
	}
	return strings.ToLower(fields.Level)
}
