package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/workforce-portal/internal/config"
)

// cachedResponse is what a cache entry holds.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h"`
	Body   []byte      `json:"b"`
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	return json.Marshal(cachedResponse{Status: status, Header: header, Body: body})
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	var r cachedResponse
	if err := json.Unmarshal(bs, &r); err != nil || r.Status == 0 {
		return 0, nil, nil, false
	}
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	return r.Status, r.Header, r.Body, true
}

// recorder tees the response body into buf until it grows past limit.
type recorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// replayable reports whether a response header belongs to the resource
// rather than to the request that produced it.
func replayable(name string) bool {
	switch http.CanonicalHeaderKey(name) {
	case echo.HeaderContentLength, echo.HeaderXRequestID, "X-Cache", "Retry-After":
		return false
	}
	return !strings.HasPrefix(http.CanonicalHeaderKey(name), "X-Ratelimit-")
}

// cacheKeyFrom hashes the matched route, plus the raw query unless the
// strategy is "route".
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	id := r.Method + " " + c.Path()
	if cfg.KeyStrategy != "route" {
		id += "?" + r.URL.RawQuery
	}
	sum := sha1.Sum([]byte(id))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:])
}

// NewRedisCache serves repeated reads from Redis.  Only 200 responses that
// fit MaxBodyBytes are stored.  Whoever writes the cached resource must call
// InvalidatePrefix with the same config.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)
			res := c.Response()

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					cacheLookups.WithLabelValues("hit").Inc()
					for k, vals := range hdr {
						res.Header()[k] = vals
					}
					res.Header().Set("X-Cache", "HIT")
					return c.Blob(status, res.Header().Get(echo.HeaderContentType), body)
				}
			}

			cacheLookups.WithLabelValues("miss").Inc()
			rec := &recorder{ResponseWriter: res.Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			res.Writer = rec
			res.Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}

			hdr := make(http.Header)
			for k, vals := range res.Header() {
				if replayable(k) {
					hdr[k] = append([]string(nil), vals...)
				}
			}
			payload, err := encodePayload(rec.status, hdr, rec.buf.Bytes())
			if err == nil {
				err = rdb.Set(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err()
			}
			if err != nil {
				c.Logger().Warnf("cache store %s: %v", key, err)
			}
			return nil
		}
	}
}

// InvalidatePrefix deletes every cached response under cfg.Prefix, walking
// the keyspace with SCAN.  A nil client is a no-op.
func InvalidatePrefix(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, cfg.Prefix+":*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return rdb.Del(ctx, batch...).Err()
	}
	return nil
}
