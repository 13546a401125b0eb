package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ai-first-exchange/aifx/core/config"
	"github.com/ai-first-exchange/aifx/core/fsx"
)

type auditEvent struct {
	Timestamp string `json:"ts"`
	Command   string `json:"command"`
	ExitCode  int    `json:"exit_code"`
	Version   string `json:"version"`
}

// writeAuditEvent appends one JSONL record per invocation when an audit log
// is configured. Audit failures warn on stderr and never change the exit
// code.
func writeAuditEvent(command string, exitCode int) {
	logPath := strings.TrimSpace(os.Getenv("AIFX_AUDIT_LOG"))
	if logPath == "" {
		settings, err := config.LoadDefault()
		if err != nil {
			return
		}
		logPath = strings.TrimSpace(settings.Audit.LogPath)
	}
	if logPath == "" {
		return
	}
	event := auditEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
		ExitCode:  exitCode,
		Version:   version,
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := fsx.AppendLineLocked(logPath, encoded, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "aifx warning: audit log write failed: %v\n", err)
	}
}
