// SPDX-License-Identifier: EPL-2.0

// Package config loads voicemix settings from TOML with environment
// overrides.
//
// Lookup order when no path is given: ./voicemix.toml, then
// ~/.config/voicemix/config.toml. Values missing from the file keep their
// defaults. SESSION_SECRET and the VOICEMIX_* variables are applied after
// the file and before validation.
package config
