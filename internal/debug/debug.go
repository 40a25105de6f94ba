// Copyright 2026 The rawpb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build debug

// Package debug includes debugging helpers.
//
// Builds carrying the debug tag get structured trace logging and assertions;
// ordinary builds compile both down to nothing.
package debug

import (
	"fmt"
	"os"

	"github.com/timandy/routine"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Enabled is true if the library is being built with the debug tag, which
// enables various debugging features.
const Enabled = true

var logger = newLogger()

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = zapcore.OmitKey
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core).Sugar()
}

// Log prints debugging information to stderr.
//
// operation identifies the step being traced; format and args describe it.
func Log(operation, format string, args ...any) {
	logger.Debugw(fmt.Sprintf(format, args...),
		"op", operation,
		"goid", routine.Goid(),
	)
}

// Assert panics with message if cond is false.
func Assert(cond bool, message string) {
	if !cond {
		panic("rawpb: assertion failed: " + message)
	}
}
