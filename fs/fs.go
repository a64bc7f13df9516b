package appfs

import "embed"

// FS embeds the assets (email templates, common passwords list) and the
// database migrations so that binaries can run from any working directory.
//go:embed assets migrations
var FS embed.FS
