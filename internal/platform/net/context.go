// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyPolicyVersion ctxKey = "policy_version"

// WithRequest annotates context with the request id and the policy version
// the caller asked for
func WithRequest(ctx context.Context, reqID, policyVersion string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if policyVersion != "" {
		ctx = context.WithValue(ctx, keyPolicyVersion, policyVersion)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// PolicyVersion returns the requested policy version on the context if present
func PolicyVersion(ctx context.Context) string {
	if v, ok := ctx.Value(keyPolicyVersion).(string); ok {
		return v
	}
	return ""
}
