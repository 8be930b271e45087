// Copyright 2020 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "text", &buf)

	logger.Info("hidden")
	logger.Warn("module type not yet supported", "type", "weird_module")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `level=WARN msg="module type not yet supported" type=weird_module`)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("debug", "json", &buf)
	logger.Debug("probing", "library", "libz")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "probing", record["msg"])
	assert.Equal(t, "libz", record["library"])
}

func TestNewLoggerFallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("loud", "xml", &buf)

	logger.Debug("hidden")
	logger.Info("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "level=INFO msg=shown")
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	// A bytes.Buffer is not a terminal, so no colors are emitted.
	logger := newLogger("info", "pretty", &buf)

	logger.With("recipe", "Android.bp").WithGroup("lib").Info("classified",
		"name", "libz", "class", "external standard", slog.Group("dir", "path", "/usr/lib"))
	logger.Debug("hidden")
	logger.Error("failed", "error", "bad")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`INFO  classified recipe=Android.bp lib.name=libz lib.class="external standard" lib.dir.path=/usr/lib`,
		lines[0])
	assert.Equal(t, "ERROR failed error=bad", lines[1])
}
