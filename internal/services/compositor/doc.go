// Package compositor wraps the external cardcomp compositing service that
// rasterizes card faces onto pages. cardpress never touches pixels itself:
// batches go out as JSON specs, PDF artifacts come back.
package compositor
