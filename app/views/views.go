// Package views embeds the HTML templates of the site.
package views

import "embed"

// FS holds layouts/base.html, shared partials, and one template per page
// under pages/.
//
//go:embed layouts/*.html partials/*.html pages/*.html
var FS embed.FS
