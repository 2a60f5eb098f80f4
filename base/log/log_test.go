// Copyright 2026 courserec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courserec.log")
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	assert.NoError(t, flagSet.Parse([]string{"--log-path", path, "--log-max-backups", "3"}))
	assert.Equal(t, FileOptions{Path: path, MaxSize: 100, MaxBackups: 3}, ParseFlags(flagSet))

	SetLogger(os.Stdout, flagSet, false)
	Logger().Info("hello", Since(time.Now()))
	Logger().Debug("hidden")
	_ = Logger().Sync()
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "\"msg\":\"hello\"")
	assert.Contains(t, string(data), "\"elapsed\"")
	assert.NotContains(t, string(data), "hidden")

	SetLogger(os.Stdout, flagSet, true)
	Logger().Debug("world")
	_ = Logger().Sync()
	data, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "world")
}

func TestNewLogger(t *testing.T) {
	var console bytes.Buffer
	logger := NewLogger(&console, FileOptions{}, true)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	logger.Debug("debug message")
	assert.Contains(t, console.String(), "debug message")

	console.Reset()
	logger = NewLogger(&console, FileOptions{}, false)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	logger.Info("info message", zap.String("stage", "fit"))
	assert.Contains(t, console.String(), "\"msg\":\"info message\"")
	assert.Contains(t, console.String(), "\"stage\":\"fit\"")
}
