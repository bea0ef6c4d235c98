// Package policy provides the rotation triggers for rotastream.
//
// Time-based policies compute the next instant a file should rotate:
// Hourly, Daily and Weekly rotate on calendar boundaries, Every rotates on a
// fixed interval and Cron accepts any cron expression. MaxSize rotates on
// file size, checked before or after each write. Any combines policies;
// whichever fires first rotates the file.
//
// Policies hold no state, so one value may be shared by many streams.
package policy
