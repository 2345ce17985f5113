package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNDevelopmentDisablesSSL(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "url without query",
			dsn:  "postgres://app:pw@localhost:5432/coldopen",
			want: "postgres://app:pw@localhost:5432/coldopen?sslmode=disable",
		},
		{
			name: "url with existing query",
			dsn:  "postgres://app:pw@localhost:5432/coldopen?connect_timeout=5",
			want: "postgres://app:pw@localhost:5432/coldopen?connect_timeout=5&sslmode=disable",
		},
		{
			name: "key value form",
			dsn:  "host=localhost user=app dbname=coldopen",
			want: "host=localhost user=app dbname=coldopen sslmode=disable",
		},
		{
			name: "sslmode already set is left alone",
			dsn:  "postgres://app:pw@localhost:5432/coldopen?sslmode=require",
			want: "postgres://app:pw@localhost:5432/coldopen?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: "development", DBConnectionString: tt.dsn}
			assert.Equal(t, tt.want, cfg.DSN())
		})
	}
}

func TestDSNProductionForcesSimpleProtocol(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "url without query",
			dsn:  "postgres://app:pw@db.internal:5432/coldopen",
			want: "postgres://app:pw@db.internal:5432/coldopen?prefer_simple_protocol=true",
		},
		{
			name: "url with existing query",
			dsn:  "postgres://app:pw@db.internal:6432/coldopen?sslmode=require",
			want: "postgres://app:pw@db.internal:6432/coldopen?sslmode=require&prefer_simple_protocol=true",
		},
		{
			name: "already set is left alone",
			dsn:  "postgres://app:pw@db.internal:6432/coldopen?prefer_simple_protocol=true",
			want: "postgres://app:pw@db.internal:6432/coldopen?prefer_simple_protocol=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: "production", DBConnectionString: tt.dsn}
			assert.Equal(t, tt.want, cfg.DSN())
		})
	}
}

func TestDSNDevelopmentSkipsSimpleProtocol(t *testing.T) {
	cfg := &Config{Environment: "development", DBConnectionString: "postgres://app:pw@localhost/coldopen?sslmode=disable"}
	assert.NotContains(t, cfg.DSN(), "prefer_simple_protocol")
}
