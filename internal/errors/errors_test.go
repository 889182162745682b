// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "direct invalid token error",
			err:      ErrInvalidToken,
			sentinel: ErrInvalidToken,
			want:     true,
		},
		{
			name:     "wrapped network error",
			err:      fmt.Errorf("connection failed: %w", ErrNetworkFailure),
			sentinel: ErrNetworkFailure,
			want:     true,
		},
		{
			name:     "transport fetch error matches transport sentinel",
			err:      NewTransportError(503, "503 Service Unavailable"),
			sentinel: ErrTransport,
			want:     true,
		},
		{
			name:     "wrapped client fetch error matches client sentinel",
			err:      fmt.Errorf("search: %w", NewClientError(errors.New("dial tcp: connection refused"))),
			sentinel: ErrClient,
			want:     true,
		},
		{
			name:     "transport error does not match client sentinel",
			err:      NewTransportError(500, ""),
			sentinel: ErrClient,
			want:     false,
		},
		{
			name:     "client error exposes its cause",
			err:      NewClientError(ErrNetworkFailure),
			sentinel: ErrNetworkFailure,
			want:     true,
		},
		{
			name:     "nil error",
			err:      nil,
			sentinel: ErrInvalidToken,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestTransportErrorMessage(t *testing.T) {
	tests := []struct {
		code   int
		status string
		want   string
	}{
		{503, "503 Service Unavailable", "Error: 503 Service Unavailable"},
		{422, "Unprocessable Entity", "Error: 422 Unprocessable Entity"},
		{404, "", "Error: 404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := NewTransportError(tt.code, tt.status)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, KindTransport, err.Kind)
			assert.Equal(t, tt.code, err.StatusCode)
		})
	}
}

func TestClientErrorMessage(t *testing.T) {
	err := NewClientError(errors.New("unexpected end of JSON input"))
	assert.Equal(t, "unexpected end of JSON input", err.Error())
	assert.Equal(t, KindClient, err.Kind)

	assert.Equal(t, "Error loading repositories", NewClientError(nil).Error())
}

func TestFetchErrorClassifiers(t *testing.T) {
	assert.True(t, NewTransportError(429, "").IsRateLimitError())
	assert.True(t, NewTransportError(401, "").IsAuthError())
	assert.True(t, NewTransportError(404, "").IsNotFoundError())
	assert.False(t, NewClientError(errors.New("404 in body")).IsNotFoundError())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidToken, "invalid github token"},
		{ErrNotFound, "resource not found"},
		{ErrNetworkFailure, "network connection failed"},
		{ErrRateLimit, "github rate limit exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "client", KindClient.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
