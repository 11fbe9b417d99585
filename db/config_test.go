package db

import (
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"valid", (&Config{Host: "localhost", User: "u", Password: "p", Database: "d"}).MergeDefaults(), false},
		{"missing host", (&Config{User: "u", Password: "p", Database: "d"}).MergeDefaults(), true},
		{"missing user", (&Config{Host: "localhost", Password: "p", Database: "d"}).MergeDefaults(), true},
		{"missing database", (&Config{Host: "localhost", User: "u", Password: "p"}).MergeDefaults(), true},
		{"bad log level", &Config{Host: "h", Port: 3306, User: "u", Password: "p", Database: "d", LogLevel: "verbose"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := (&Config{
		Host:     "db.internal",
		User:     "reader",
		Password: "secret",
		Database: "records",
	}).MergeDefaults()

	dsn := cfg.DSN()
	for _, want := range []string{"reader:secret@tcp(db.internal:3306)/records", "charset=utf8mb4", "parseTime=True"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}
