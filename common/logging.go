/*
 *  Copyright IBM Corporation 2024
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */

package common

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// TextLogFormat logs human readable lines
	TextLogFormat = "text"
	// JSONLogFormat logs one json object per line
	JSONLogFormat = "json"
)

// ConfigureLogging sets the log level and format of the standard logger
func ConfigureLogging(verbose bool, format string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	switch format {
	case "", TextLogFormat:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case JSONLogFormat:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unsupported log format '%s'. Expected one of %s, %s", format, TextLogFormat, JSONLogFormat)
	}
	return nil
}

// CleanupHook calls the cleanup function on fatal and panic errors
type CleanupHook struct {
	cleanup func()
}

// NewCleanupHook creates a cleanup hook
func NewCleanupHook(cleanup func()) *CleanupHook {
	return &CleanupHook{cleanup: cleanup}
}

// Fire calls the clean up
func (hook *CleanupHook) Fire(*logrus.Entry) error {
	hook.cleanup()
	return nil
}

// Levels returns the levels on which the cleanup hook gets called
func (hook *CleanupHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
	}
}
