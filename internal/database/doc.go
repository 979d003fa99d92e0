// Package database stores the build history of planetpage in SQLite.
//
// Two tables are kept:
//   - builds: one row per page build, successful or not
//   - fetches: the last fetch of every remote document, with its hash, so a
//     build can tell whether the feed or the landing page changed upstream
//
// The database is a single file (planetpage.db) in the XDG data directory,
// opened through the CGO-free modernc.org/sqlite driver.
package database
