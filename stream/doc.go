// Package stream adapts the capture and playback callbacks of an audio
// backend to the sample queue and the active filter.
//
// CaptureSink runs in the capture callback and feeds the queue; whatever
// does not fit is dropped. PlaybackSource runs in the playback callback,
// pulling one sample per output slot through the filter and substituting
// silence when the queue runs dry. Both sides are allocation-free and
// lock-free, and both keep atomic counters so the control thread can report
// drop and underrun totals without touching the audio threads.
package stream
