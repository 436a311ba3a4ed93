package services

import (
	"cardspend/config"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRateTestConfig(url string) *config.Config {
	cfg := &config.Config{}
	cfg.CentralBank.URL = url
	cfg.CentralBank.CacheTTL = 1
	return cfg
}

func TestKeyRateParsesAndCaches(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Rates><KeyRate>16,50</KeyRate></Rates>`))
	}))
	defer server.Close()

	svc := NewRateService(newRateTestConfig(server.URL))

	rate, err := svc.KeyRate()
	if err != nil {
		t.Fatalf("KeyRate: %v", err)
	}
	if rate != 16.5 {
		t.Errorf("rate = %v, want 16.5", rate)
	}

	// Повторный вызов обслуживается из кеша
	if _, err := svc.KeyRate(); err != nil {
		t.Fatalf("KeyRate(cached): %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 with cache", requests)
	}

	// Ставка по умолчанию = ключевая ставка + маржа
	if got := svc.DefaultInterestRate(); got != 16.5+rateMargin {
		t.Errorf("DefaultInterestRate = %v, want %v", got, 16.5+rateMargin)
	}
}

func TestDefaultInterestRateFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewRateService(newRateTestConfig(server.URL))

	// Фид недоступен: используется ставка по умолчанию
	if got := svc.DefaultInterestRate(); got != defaultInterestRate {
		t.Errorf("DefaultInterestRate = %v, want %v", got, defaultInterestRate)
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"16,50", 16.5, false},
		{" 7.25 ", 7.25, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"", 0, true},
		{"150", 0, true},
		{"-1", 0, true},
	}
	for _, tc := range cases {
		got, err := parseRate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseRate(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseRate(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseRate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
