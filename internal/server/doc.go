// SPDX-License-Identifier: EPL-2.0

// Package server exposes the mixer over HTTP with gin.
//
// Routes:
//
//	GET  /        upload form with flashed errors
//	GET  /health  liveness probe
//	POST /mix     speech + music in, MP3 attachment out
//
// Errors go back either as JSON {"error": "..."} or, for browser form
// submissions, as a flash message and a 302 redirect to the form. A request
// counts as a browser submission only when its body is multipart or
// urlencoded form data AND its Accept header lists text/html (or
// application/xhtml+xml) with a non-zero q. Form posts from curl or fetch()
// send Accept: */* by default and therefore get JSON.
package server
