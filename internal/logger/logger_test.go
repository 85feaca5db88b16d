/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package logger_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"bennypowers.dev/cascade/internal/logger"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})

	logger.Warn("missing %s", "thing")
	logger.Debug("hidden")
	assert.Equal(t, "warn: missing thing\n", buf.String())

	buf.Reset()
	logger.SetVerbose(true)
	logger.Debug("shown %d", 1)
	logger.Info("note")
	assert.Equal(t, "debug: shown 1\ninfo: note\n", buf.String())
}
