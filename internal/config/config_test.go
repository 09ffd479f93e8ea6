package config

import "testing"

func validTestConfig() *ServerEnvironment {
	return &ServerEnvironment{
		Environment:        "dev",
		Port:               8080,
		DBMaxConnections:   4,
		PushConcurrency:    8,
		LocalBlobDir:       "/tmp/blobs",
		PassTypeIdentifier: "pass.example.membership",
		WebServiceURL:      "https://passes.example.com",
		DatabaseURL:        "postgres://localhost/passd",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerEnvironment)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ServerEnvironment) {}},
		{name: "port too low", mutate: func(c *ServerEnvironment) { c.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *ServerEnvironment) { c.Port = 70000 }, wantErr: true},
		{name: "unknown environment", mutate: func(c *ServerEnvironment) { c.Environment = "production" }, wantErr: true},
		{name: "no pool connections", mutate: func(c *ServerEnvironment) { c.DBMaxConnections = 0 }, wantErr: true},
		{name: "min above max connections", mutate: func(c *ServerEnvironment) { c.DBMinConnections = 8 }, wantErr: true},
		{name: "zero push concurrency", mutate: func(c *ServerEnvironment) { c.PushConcurrency = 0 }, wantErr: true},
		{name: "no blob storage", mutate: func(c *ServerEnvironment) { c.LocalBlobDir = "" }, wantErr: true},
		{
			name: "s3 buckets instead of local dir",
			mutate: func(c *ServerEnvironment) {
				c.LocalBlobDir = ""
				c.PassBucket = "passes"
				c.TemplateBucket = "templates"
			},
		},
		{
			name: "push enabled without key identifiers",
			mutate: func(c *ServerEnvironment) {
				c.PushEnabled = true
			},
			wantErr: true,
		},
		{
			name: "push enabled fully configured",
			mutate: func(c *ServerEnvironment) {
				c.PushEnabled = true
				c.APNSKeyID = "KEY123"
				c.APNSTeamID = "TEAM123"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
