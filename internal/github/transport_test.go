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

package github

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedReader(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: io.NopCloser(strings.NewReader("0123456789")),
		limit:      4,
	}

	data, err := io.ReadAll(lr)
	require.Error(t, err)
	assert.Equal(t, "0123", string(data))
	assert.Contains(t, err.Error(), "response size exceeded limit of 4 bytes")
}

func TestAuthTransport(t *testing.T) {
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		token    string
		wantAuth string
	}{
		{"with token", "abc", "Bearer abc"},
		{"anonymous", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newHTTPClient(tt.token, 0)
			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			require.NoError(t, err)

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			_, ok := resp.Body.(*limitedReader)
			assert.True(t, ok, "response body should be size limited")
			assert.Equal(t, tt.wantAuth, headers.Get("Authorization"))
			assert.Equal(t, "reposcout/dev", headers.Get("User-Agent"))

			// The caller's request is left untouched.
			assert.Empty(t, req.Header.Get("Authorization"))
		})
	}
}
