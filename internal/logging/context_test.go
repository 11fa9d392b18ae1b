// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	if id1 == "" {
		t.Error("expected non-empty request ID")
	}
	if len(id1) != 36 { // UUID format
		t.Errorf("expected 36-character request ID, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique request IDs")
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Without request ID
	id := RequestIDFromContext(ctx)
	if id != "" {
		t.Errorf("expected empty request ID, got %s", id)
	}

	// With request ID
	ctx = ContextWithRequestID(ctx, "req-456")
	id = RequestIDFromContext(ctx)
	if id != "req-456" {
		t.Errorf("expected 'req-456', got '%s'", id)
	}
}

func TestContextWithNewRequestID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = ContextWithNewRequestID(ctx)

	id := RequestIDFromContext(ctx)
	if id == "" {
		t.Error("expected request ID to be generated")
	}
	if len(id) != 36 {
		t.Errorf("expected 36-character request ID, got %d", len(id))
	}
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	testLogger := zerolog.New(&buf)

	ctx := context.Background()

	// Without stored logger, falls back to the global logger
	logger := LoggerFromContext(ctx)
	logger.Info().Msg("global fallback")

	// With stored logger
	ctx = ContextWithLogger(ctx, testLogger)
	logger = LoggerFromContext(ctx)
	logger.Info().Msg("stored logger message")

	if !strings.Contains(buf.String(), "stored logger message") {
		t.Errorf("expected stored logger to be used, got: %s", buf.String())
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer

	ctx := context.Background()
	ctx = ContextWithLogger(ctx, zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "test-request-id")

	Ctx(ctx).Info().Msg("with request id")

	output := buf.String()
	if !strings.Contains(output, "request_id") {
		t.Errorf("expected request_id field in output: %s", output)
	}
	if !strings.Contains(output, "test-request-id") {
		t.Errorf("expected request ID value in output: %s", output)
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer

	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))

	Ctx(ctx).Info().Msg("no request id")

	output := buf.String()
	if strings.Contains(output, "request_id") {
		t.Errorf("expected no request_id field in output: %s", output)
	}
	if !strings.Contains(output, "no request id") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestCtxWith(t *testing.T) {
	var buf bytes.Buffer

	ctx := context.Background()
	ctx = ContextWithLogger(ctx, zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "abc-123")

	logger := CtxWith(ctx).Str("stage", "generate").Logger()
	logger.Info().Msg("stage log")

	output := buf.String()
	if !strings.Contains(output, "abc-123") {
		t.Errorf("expected request ID in output: %s", output)
	}
	if !strings.Contains(output, "generate") {
		t.Errorf("expected stage field in output: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))

	logger := WithComponent("health-prober")
	logger.Info().Msg("component log")

	output := buf.String()
	if !strings.Contains(output, "health-prober") {
		t.Errorf("expected component in output: %s", output)
	}
}
