// Package dashboard provides the embedded state inspector page.
//
// The page is included at compile time and served by the devtools server at
// "/". It renders the snapshot from /api/state and follows /api/sse.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the inspector page.
//
//	assets/
//	  index.html    - inspector page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
