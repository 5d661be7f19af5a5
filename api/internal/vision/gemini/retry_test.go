package gemini

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type netTimeout struct{}

func (netTimeout) Error() string   { return "i/o timeout" }
func (netTimeout) Timeout() bool   { return true }
func (netTimeout) Temporary() bool { return true }

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 500", &googleapi.Error{Code: 500}, true},
		{"http 503 wrapped", fmt.Errorf("call: %w", &googleapi.Error{Code: 503}), true},
		{"http 429", &googleapi.Error{Code: 429}, true},
		{"http 400", &googleapi.Error{Code: 400}, false},
		{"http 403 bad key", &googleapi.Error{Code: 403}, false},
		{"grpc unavailable", status.Error(codes.Unavailable, "try later"), true},
		{"grpc exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "bad image"), false},
		{"grpc permission denied", status.Error(codes.PermissionDenied, "API key not valid"), false},
		{"net timeout", netTimeout{}, true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}
