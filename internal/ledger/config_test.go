package ledger_test

import (
	"testing"
	"time"

	"github.com/saksham0021/mira-astrology-review/internal/ledger"
)

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ledger.Config
		env     map[string]string
		want    time.Duration
		wantErr bool
	}{
		{name: "default", want: 5 * time.Minute},
		{name: "explicit", cfg: ledger.Config{CacheDuration: "90s"}, want: 90 * time.Second},
		{name: "env override", cfg: ledger.Config{CacheDuration: "90s"}, env: map[string]string{"TEST_LEDGER_CACHE": "0s"}, want: 0},
		{name: "invalid", cfg: ledger.Config{CacheDuration: "soon"}, wantErr: true},
		{name: "negative", cfg: ledger.Config{CacheDuration: "-1m"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := tt.cfg
			err := cfg.Finalize(&ledger.Env{CacheDuration: "TEST_LEDGER_CACHE"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("finalize: %v", err)
			}
			if got := cfg.CacheTTL(); got != tt.want {
				t.Errorf("ttl = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := ledger.Config{CacheDuration: "5m"}

	base.Merge(&ledger.Config{})
	if base.CacheDuration != "5m" {
		t.Errorf("empty overlay changed value to %q", base.CacheDuration)
	}

	base.Merge(&ledger.Config{CacheDuration: "1m"})
	if base.CacheDuration != "1m" {
		t.Errorf("cache duration = %q, want 1m", base.CacheDuration)
	}
}
