package pkgrouter

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkglog"
)

// Generator produces correlation IDs for requests that arrive without one.
type Generator interface {
	Generate() string
}

const (
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is honoured when a proxy in front already assigned an ID.
	HeaderRequestID = "X-Request-ID"

	maxCIDLength = 128
)

// normalizeCID trims v and rejects values that could forge log lines or headers.
func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if strings.IndexFunc(v, unicode.IsControl) >= 0 {
		return ""
	}
	if len(v) > maxCIDLength {
		return v[:maxCIDLength]
	}
	return v
}

func middlewareCorrelationID(uid Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := incomingCID(r)
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func incomingCID(r *http.Request) string {
	for _, header := range []string{HeaderCorrelationID, HeaderRequestID} {
		if cid := normalizeCID(r.Header.Get(header)); cid != "" {
			return cid
		}
	}
	return ""
}
