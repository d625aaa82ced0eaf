package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"pizza-service/internal/config"
	"pizza-service/internal/httpx"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	writer   io.Writer = os.Stdout
	remote   *remoteWriter
)

// Init configures the global zerolog logger and the shared writer used by
// request logs. A failing log file falls back to stdout. With a push URL set,
// every JSON line is also batched to that endpoint until Shutdown.
func Init(cfg config.LogConfig) {
	closeRemote(context.Background())

	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var fileErr error
	if path := strings.TrimSpace(cfg.File); path != "" {
		fw, err := newRotatingWriter(path, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			out = io.MultiWriter(os.Stdout, fw)
		}
	}
	var console io.Writer = out
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: out}
	}
	if cfg.PushEnabled() {
		rw := newRemoteWriter(httpx.NewClient(cfg.PushTimeout), cfg)
		out = io.MultiWriter(out, rw)
		console = io.MultiWriter(console, rw)
		writerMu.Lock()
		remote = rw
		writerMu.Unlock()
	}
	setWriter(out)

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(console).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	if n := cfg.SampleEvery; n > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(n)})
	}
	log.Logger = logger

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("open log file failed; logging to stdout")
	}
	if cfg.PushEnabled() && cfg.APIKey == "" {
		log.Warn().Msg("LOG_API_KEY not set; log pushes carry an empty bearer token")
	}
}

// Shutdown pushes buffered log lines and waits for in-flight pushes until
// ctx is done. It is a no-op when no push URL is configured.
func Shutdown(ctx context.Context) error {
	return closeRemote(ctx)
}

func closeRemote(ctx context.Context) error {
	writerMu.Lock()
	rw := remote
	remote = nil
	writerMu.Unlock()
	if rw == nil {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rw.timeout)
		defer cancel()
	}
	return rw.Close(ctx)
}

// Writer returns the sink the global logger writes to.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}

func setWriter(w io.Writer) {
	writerMu.Lock()
	defer writerMu.Unlock()
	writer = w
}

// LevelForStatus maps an HTTP status code to the level its log line is emitted at.
func LevelForStatus(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
