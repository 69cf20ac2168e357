// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package config loads repository-engine-wide configuration. See config.go.
package config
