// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

// Package httpapi exposes the QuestLog REST surface.
//
// Routes under /api/* respond with the envelope
// {"success": bool, "data"|"error": ...}; the /auth/* routes use flatter
// shapes carried over from earlier clients. The blanket 404 and 500
// responses are bare {"error": ...} objects. Existing clients depend on
// all three shapes, so they stay distinct.
package httpapi
