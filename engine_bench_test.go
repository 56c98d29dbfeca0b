package goCred

import (
	"context"
	"testing"

	"github.com/MrEthical07/goCred/password"
)

func BenchmarkLogin(b *testing.B) {
	cfg := testConfig()
	up := newMockUserProvider()
	seedUser(b, cfg, up, "bench", "password123", password.SchemeArgon2)
	e := buildEngine(b, cfg, up, nil)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.Login(ctx, "bench", "password123"); err != nil {
			b.Fatalf("Login: %v", err)
		}
	}
}

func BenchmarkLoginLegacyScheme(b *testing.B) {
	cfg := testConfig()
	cfg.Password.UpgradeOnLogin = false
	up := newMockUserProvider()
	seedUser(b, cfg, up, "bench", "password123", password.SchemeHMAC)
	e := buildEngine(b, cfg, up, nil)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.Login(ctx, "bench", "password123"); err != nil {
			b.Fatalf("Login: %v", err)
		}
	}
}

func BenchmarkAuthenticateParallel(b *testing.B) {
	cfg := testConfig()
	up := newMockUserProvider()
	seedUser(b, cfg, up, "bench", "password123", password.SchemeArgon2)
	e := buildEngine(b, cfg, up, nil)
	login, err := e.Login(context.Background(), "bench", "password123")
	if err != nil {
		b.Fatalf("Login: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := e.Authenticate(ctx, login.Token); err != nil {
				b.Errorf("Authenticate: %v", err)
				return
			}
		}
	})
}
