package middleware

import (
    "bytes"
    "crypto/sha1"
    "encoding/binary"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/minjae-dev/resume-hub/internal/config"
)

// captureWriter tees the response body into a buffer while
// forwarding it to the client, so a successful response can be
// stored after the handler returns.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
        cw.buf.Write(b)
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// cacheKey builds a stable key from the matched route and its path
// parameters, so /resumes/5/logs and /resumes/6/logs never collide.
func cacheKey(prefix string, c echo.Context) string {
    parts := []string{c.Request().Method, c.Path()}
    for _, name := range c.ParamNames() {
        parts = append(parts, name, c.Param(name))
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodeEntry packs [4 bytes status][body]; decodeEntry reverses it.
func encodeEntry(status int, body []byte) []byte {
    out := make([]byte, 4+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    copy(out[4:], body)
    return out
}

func decodeEntry(bs []byte) (status int, body []byte, ok bool) {
    if len(bs) < 4 {
        return 0, nil, false
    }
    return int(binary.BigEndian.Uint32(bs[0:4])), bs[4:], true
}

// ResponseCache returns middleware that serves eligible responses
// from Redis. It is registered after the auth gates on read-only
// routes, so only requests that already passed authentication and
// authorization can be answered from the cache. With a nil client or
// a disabled config it degrades to a pass-through.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := cacheKey(cfg.Prefix, c)

            if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
                if status, body, ok := decodeEntry(bs); ok {
                    return c.JSONBlob(status, body)
                }
            }

            cw := &captureWriter{
                ResponseWriter: c.Response().Writer,
                status:         http.StatusOK,
                limit:          int64(cfg.MaxBodyBytes),
            }
            c.Response().Writer = cw
            if err := next(c); err != nil {
                return err
            }

            // Only 200 responses that fit the size limit are cached.
            if cw.status == http.StatusOK && (cw.limit <= 0 || cw.size <= cw.limit) {
                _ = rdb.Set(c.Request().Context(), key, encodeEntry(cw.status, cw.buf.Bytes()), ttl).Err()
            }
            return nil
        }
    }
}
