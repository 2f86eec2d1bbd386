// Package yearwheel turns a date-ordered stream of daily values into the
// polyline batches of an animated polar "year wheel".
//
// Angle encodes the day of the year (365 day-units per turn, Feb 29 is
// squeezed between Feb 28 and Mar 1) and radius encodes the value. The
// Sequencer keeps the in-progress year as the current path and appends
// every finished year to an ever-growing background path.
//
// Key types: Sample, Point, Segment, Path, Frame, Sequencer.
//
// The package does no IO and knows nothing about rendering; a driver calls
// Reset, then Next once per sample, then Hold for any trailing pause frames.
package yearwheel
