package storage

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		useSSL bool
		host   string
		secure bool
	}{
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://minio:9000", true, "minio:9000", false},
		{"minio:9000", true, "minio:9000", true},
		{"//minio:9000", false, "minio:9000", false},
	}
	for _, tc := range cases {
		host, secure := normalizeEndpoint(tc.in, tc.useSSL)
		if host != tc.host || secure != tc.secure {
			t.Fatalf("%q: got (%q,%v) want (%q,%v)", tc.in, host, secure, tc.host, tc.secure)
		}
	}
}

func TestNewMinioClient_Validates(t *testing.T) {
	t.Parallel()

	base := Config{Endpoint: "minio:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "reports"}
	if _, err := NewMinioClient(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for name, mutate := range map[string]func(*Config){
		"endpoint": func(c *Config) { c.Endpoint = "" },
		"creds":    func(c *Config) { c.SecretKey = "" },
		"bucket":   func(c *Config) { c.Bucket = "" },
	} {
		cfg := base
		mutate(&cfg)
		if _, err := NewMinioClient(cfg); err == nil {
			t.Fatalf("missing %s accepted", name)
		}
	}
}
