package middleware

import (
	"mime"
	"net/http"
	"strings"
)

const (
	MethodOverrideParam  = "_method"
	MethodOverrideHeader = "X-HTTP-Method-Override"
)

// MethodOverride lets HTML forms reach PUT, PATCH and DELETE routes: a POST
// carrying _method (query or url-encoded form field) or the override header is
// dispatched with that method. It wraps the router because routing happens
// before gin middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if method := overrideMethod(r); method != "" {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	candidates := []string{
		r.Header.Get(MethodOverrideHeader),
		r.URL.Query().Get(MethodOverrideParam),
	}
	if isFormBody(r) {
		if err := r.ParseForm(); err == nil {
			candidates = append(candidates, r.PostForm.Get(MethodOverrideParam))
		}
	}

	for _, candidate := range candidates {
		switch method := strings.ToUpper(strings.TrimSpace(candidate)); method {
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			return method
		}
	}
	return ""
}

func isFormBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}
