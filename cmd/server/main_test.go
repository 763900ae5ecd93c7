package main

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebFS_EmbedsAssets(t *testing.T) {
	web := webFS()
	require.NotNil(t, web)

	for _, name := range []string{
		"templates/layout.html",
		"templates/index.html",
		"templates/about.html",
		"templates/contact.html",
		"templates/chat.html",
		"static/css/style.css",
		"static/js/chat.js",
	} {
		_, err := fs.Stat(web, name)
		assert.NoError(t, err, name)
	}
}
