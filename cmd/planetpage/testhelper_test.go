package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Planet</title>
<link>http://x/</link>
<description>planet</description>
<item>
<title>Hello</title>
<link>http://x/1</link>
<pubDate>2024-01-01</pubDate>
<description>&lt;p&gt;world&lt;/p&gt;</description>
</item>
</channel>
</rss>`

const testLanding = `<!DOCTYPE html>
<html>
<head>
<title>AFPy</title>
<link rel="stylesheet" href="/style.css"/>
</head>
<body>
<div id="portal-top"><div id="portal-searchbox">search</div><a href="/">Accueil</a></div>
<div id="portal-column-content">placeholder</div>
</body>
</html>`

// newSiteServer serves the test feed at /rss.xml and the landing page at /.
// Any other path answers 404.
func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/rss.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	})
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testLanding))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a configuration file pointing at srv and returns its
// path. History goes to a temporary directory, also returned.
func writeConfig(t *testing.T, srv *httptest.Server, history bool) (string, string) {
	t.Helper()

	dir := t.TempDir()
	dbDir := filepath.Join(dir, "data")
	content := "feedURL: " + srv.URL + "/rss.xml\n" +
		"landingURL: " + srv.URL + "/\n" +
		"dbDir: " + dbDir + "\n"
	if history {
		content += "history: true\n"
	} else {
		content += "history: false\n"
	}

	path := filepath.Join(dir, "planetpage.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path, dbDir
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

// findSubcommand returns the subcommand of root named name.
func findSubcommand(root *cobra.Command, name string) *cobra.Command {
	for _, sub := range root.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}
