package responses

import "context"

// Success wraps every successful analytics payload.
type Success struct {
	Data any `json:"data"`
}

// Failure wraps a rejected request. RequestID echoes the X-Request-Id header so a client can quote
// it when reporting a failed upload.
type Failure struct {
	Error Problem `json:"error"`
}

type Problem struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
