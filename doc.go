// Package rotastream is a rotating file output stream. It keeps one active
// file open for writing and periodically rotates it: the file is closed,
// renamed to a time-stamped archive name, and a fresh file is opened in its
// place without losing bytes from concurrent writers.
//
// New() returns a *Stream, an io.WriteCloser that works with most log packages.
// Rotation is driven by policies. Time-based policies (hourly, daily, weekly,
// cron expressions or fixed intervals) each get a background scheduler.
// Size-based policies are checked on every write. All triggers end up in one
// rotation routine which never runs concurrently with itself or with a write.
//
// Callbacks observe every rotation: trigger, close, open, and success or
// failure. Logging, compression and archive pruning are provided as callbacks:
//
//	https://pkg.go.dev/golift.io/rotastream/policy
//	https://pkg.go.dev/golift.io/rotastream/logcallback
//	https://pkg.go.dev/golift.io/rotastream/compressor
//	https://pkg.go.dev/golift.io/rotastream/retention
//
// Archive names come from a strftime pattern, see the pattern package.
// Inspired by Lumberjack: https://github.com/natefinch/lumberjack
package rotastream
