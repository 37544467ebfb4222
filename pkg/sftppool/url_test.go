//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package sftppool_test

import (
	"testing"

	"github.com/joe/fetch-files/pkg/sftppool"
)

// TestParseURL_Valid tests ParseURL with valid SFTP URLs.
//
//nolint:funlen // Comprehensive table-driven test with many SFTP URL parsing cases
func TestParseURL_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantPath string
	}{
		{
			name:     "basic SFTP URL",
			input:    "sftp://user@host/path",
			wantUser: "user",
			wantHost: "host",
			wantPort: 22,
			wantPath: "path",
		},
		{
			name:     "SFTP URL with custom port",
			input:    "sftp://admin@server.com:2222/home/data",
			wantUser: "admin",
			wantHost: "server.com",
			wantPort: 2222,
			wantPath: "home/data",
		},
		{
			name:     "absolute remote path",
			input:    "sftp://joe@box//var/uploads",
			wantUser: "joe",
			wantHost: "box",
			wantPort: 22,
			wantPath: "/var/uploads",
		},
		{
			name:     "no path defaults to home directory",
			input:    "sftp://joe@box",
			wantUser: "joe",
			wantHost: "box",
			wantPort: 22,
			wantPath: ".",
		},
		{
			name:     "bare slash defaults to home directory",
			input:    "sftp://joe@box/",
			wantUser: "joe",
			wantHost: "box",
			wantPort: 22,
			wantPath: ".",
		},
		{
			name:     "nested relative path",
			input:    "sftp://joe@box/inbox/reports",
			wantUser: "joe",
			wantHost: "box",
			wantPort: 22,
			wantPath: "inbox/reports",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := sftppool.ParseURL(tt.input)
			if err != nil {
				t.Fatalf("ParseURL(%q) error = %v", tt.input, err)
			}

			if got.User != tt.wantUser {
				t.Errorf("User = %q, want %q", got.User, tt.wantUser)
			}
			if got.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", got.Host, tt.wantHost)
			}
			if got.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", got.Port, tt.wantPort)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
		})
	}
}

// TestParseURL_Invalid tests ParseURL rejection of malformed URLs.
func TestParseURL_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "wrong scheme", input: "ftp://user@host/path"},
		{name: "missing user", input: "sftp://host/path"},
		{name: "empty user", input: "sftp://@host/path"},
		{name: "missing host", input: "sftp://user@/path"},
		{name: "bad port", input: "sftp://user@host:notaport/path"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := sftppool.ParseURL(tt.input); err == nil {
				t.Errorf("ParseURL(%q) succeeded, want error", tt.input)
			}
		})
	}
}
