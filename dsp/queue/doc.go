// Package queue provides a bounded lock-free single-producer single-consumer
// sample queue for handing audio between a capture callback and a playback
// callback. TryPush and TryPop are wait-free and allocation-free, so both
// sides are safe to call from real-time audio threads.
package queue
