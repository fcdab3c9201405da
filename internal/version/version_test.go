// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import (
	"encoding/json"
	"testing"
)

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc1234",
		BuildTime: "2025-01-30T12:00:00Z",
	}

	want := "v1.0.0 (commit: abc1234, built: 2025-01-30T12:00:00Z)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInfoJSON(t *testing.T) {
	data, err := json.Marshal(Info{Version: "dev", GitCommit: "unknown", BuildTime: "unknown"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"version":"dev","git_commit":"unknown","build_time":"unknown"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
