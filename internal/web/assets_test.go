package web

import (
	"io/fs"
	"testing"
)

// TestStaticFS_ContainsEntryPoints verifies the frontend is embedded.
func TestStaticFS_ContainsEntryPoints(t *testing.T) {
	static, err := StaticFS()
	if err != nil {
		t.Fatalf("StaticFS failed: %v", err)
	}
	for _, name := range []string{"index.html", "app.js"} {
		if _, err := fs.Stat(static, name); err != nil {
			t.Fatalf("expected %s to be embedded: %v", name, err)
		}
	}
}
