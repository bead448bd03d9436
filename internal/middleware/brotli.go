package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type BrotliConfig struct {
	Quality   int
	MinLength int
	// ContentTypes lists media type prefixes worth compressing. Workbook
	// exports are zip archives already and are passed through.
	ContentTypes []string
}

var DefaultBrotliConfig = BrotliConfig{
	Quality:      5,
	MinLength:    1024,
	ContentTypes: []string{"application/json", "text/"},
}

// brotliWriter holds back the first MinLength bytes so small bodies and
// non-compressible types go out untouched.
type brotliWriter struct {
	gin.ResponseWriter
	cfg  *BrotliConfig
	pool *sync.Pool

	buf     []byte
	decided bool
	enc     *brotli.Writer
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	if w.decided {
		if w.enc != nil {
			return w.enc.Write(data)
		}
		return w.ResponseWriter.Write(data)
	}

	w.buf = append(w.buf, data...)
	if len(w.buf) < w.cfg.MinLength {
		return len(data), nil
	}
	if err := w.decide(true); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *brotliWriter) Flush() {
	if !w.decided {
		_ = w.decide(len(w.buf) >= w.cfg.MinLength)
	}
	if w.enc != nil {
		_ = w.enc.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *brotliWriter) decide(largeEnough bool) error {
	w.decided = true
	h := w.ResponseWriter.Header()
	if largeEnough && h.Get("Content-Encoding") == "" && w.compressible(h.Get("Content-Type")) {
		h.Set("Content-Encoding", "br")
		h.Del("Content-Length")
		w.enc = w.pool.Get().(*brotli.Writer)
		w.enc.Reset(w.ResponseWriter)
	}

	buf := w.buf
	w.buf = nil
	if len(buf) == 0 {
		return nil
	}
	var err error
	if w.enc != nil {
		_, err = w.enc.Write(buf)
	} else {
		_, err = w.ResponseWriter.Write(buf)
	}
	return err
}

func (w *brotliWriter) compressible(contentType string) bool {
	for _, prefix := range w.cfg.ContentTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

func (w *brotliWriter) finish() error {
	if !w.decided {
		if err := w.decide(false); err != nil {
			return err
		}
	}
	if w.enc == nil {
		return nil
	}
	err := w.enc.Close()
	w.pool.Put(w.enc)
	w.enc = nil
	return err
}

func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = DefaultBrotliConfig.Quality
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}
	if len(cfg.ContentTypes) == 0 {
		cfg.ContentTypes = DefaultBrotliConfig.ContentTypes
	}
	pool := &sync.Pool{New: func() any { return brotli.NewWriterLevel(nil, cfg.Quality) }}

	return func(c *gin.Context) {
		// The handshake fails if the response is wrapped.
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		w := &brotliWriter{ResponseWriter: c.Writer, cfg: &cfg, pool: pool}
		c.Writer = w
		defer func() {
			if err := w.finish(); err != nil {
				_ = c.Error(err)
			}
		}()
		c.Next()
	}
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
