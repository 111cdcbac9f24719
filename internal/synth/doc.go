// Package synth produces test signal frames for a scope.Display.
//
// A Generator plays the part of the compute stage that normally feeds the
// display: each Step synthesizes a block of IQ samples (tones plus complex
// Gaussian noise), transforms it with an FFT, and writes the result into
// the display's shared resources:
//
//   - one waterfall row of raw power in dB, bins in FFT order;
//   - the decaying persistence histogram, one column per bin;
//   - the live and max-hold traces as 2-D points in display order, live
//     first and max-hold N points later.
//
// It is used by the demo CLI and by tests that need realistic content.
package synth
