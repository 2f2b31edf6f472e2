package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type contextKey string

const (
	buyerIDKey   contextKey = "buyer_id"
	requestIDKey contextKey = "request_id"
)

// BuyerMiddleware reads the buyer identity from the X-Buyer-ID header.
// Session issuance is outside this subsystem; whatever fronts this API is
// expected to have authenticated the header value already.
func BuyerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if buyerID := r.Header.Get("X-Buyer-ID"); buyerID != "" {
			ctx := context.WithValue(r.Context(), buyerIDKey, buyerID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getBuyerIDFromContext(ctx context.Context) string {
	if buyerID, ok := ctx.Value(buyerIDKey).(string); ok {
		return buyerID
	}
	return ""
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
