package middleware

import (
	"net/http"

	"github.com/mssola/useragent"

	"ndoors/pkg/requestcontext"
)

// Device derives a compact "Browser x.y on Platform" label from the
// User-Agent. The label ends up on lifecycle events so a recruiter dispute
// ("I never clicked decline") has something to check against.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithDeviceLabel(r.Context(), DeviceLabel(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceLabel renders a raw User-Agent into a short human-readable label.
// Unknown agents come out as "unknown".
func DeviceLabel(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	label := name
	if version != "" {
		label += " " + version
	}
	if platform := ua.Platform(); platform != "" {
		label += " on " + platform
	}
	return label
}
