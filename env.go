package main

import (
	"os"
	"strings"
)

// Set at build time with -ldflags "-X main.defaultSyncURL=...".
var (
	defaultSyncURL string
	defaultSyncKey string
)

func loadEmbeddedEnv() {
	if defaultSyncURL != "" {
		if _, exists := os.LookupEnv("CYBERCAL_SYNC_URL"); !exists {
			_ = os.Setenv("CYBERCAL_SYNC_URL", defaultSyncURL)
		}
	}
	if defaultSyncKey != "" {
		if _, exists := os.LookupEnv("CYBERCAL_SYNC_KEY"); !exists {
			_ = os.Setenv("CYBERCAL_SYNC_KEY", defaultSyncKey)
		}
	}
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
