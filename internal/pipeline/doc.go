// Package pipeline drives a year-wheel animation from samples to an
// encoded file.
//
// It is the composition root for a render: it owns the frame-rate policy,
// runs the sequencer, hands each frame to a Renderer and each image to an
// encode.FrameWriter. None of those packages import pipeline.
package pipeline
