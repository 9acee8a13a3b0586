package utils

import "testing"

func TestURLBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *URLBuilder
		expected string
	}{
		{
			name:     "static_path",
			build:    func() *URLBuilder { return APIURL().Path("auth", "user") },
			expected: "https://api.vrchat.cloud/api/1/auth/user",
		},
		{
			name:     "escaped_segment",
			build:    func() *URLBuilder { return APIURL().Path("users").Escaped("usr_a/../b c") },
			expected: "https://api.vrchat.cloud/api/1/users/usr_a%2F..%2Fb%20c",
		},
		{
			name: "params_keep_insertion_order",
			build: func() *URLBuilder {
				return APIURL().Path("worlds", "active").Param("n", "60").Param("offset", "0").Param("sort", "heat")
			},
			expected: "https://api.vrchat.cloud/api/1/worlds/active?n=60&offset=0&sort=heat",
		},
		{
			name: "param_values_escaped",
			build: func() *URLBuilder {
				return APIURL().Path("users").Param("search", "a&b=c d")
			},
			expected: "https://api.vrchat.cloud/api/1/users?search=a%26b%3Dc+d",
		},
		{
			name: "empty_optional_param_skipped",
			build: func() *URLBuilder {
				return APIURL().Path("groups").ParamIf("n", "").ParamIf("offset", "5")
			},
			expected: "https://api.vrchat.cloud/api/1/groups?offset=5",
		},
		{
			name:     "trailing_slash_on_base",
			build:    func() *URLBuilder { return NewURLBuilder("http://127.0.0.1:8080/").Path("auth") },
			expected: "http://127.0.0.1:8080/auth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build().String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestURLBuilder_StringIsRepeatable(t *testing.T) {
	builder := APIURL().Path("auth").Param("a", "1")
	if builder.String() != builder.String() {
		t.Error("String() should not mutate the builder")
	}
}
