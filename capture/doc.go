// Package capture records SCL/SDA sample streams from a device under test.
//
// A Recorder polls a Probe once per tick until the device reports completion,
// keeps recording for a short look-ahead so the trailing condition is fully
// captured, and gives up once the tick budget is spent.
package capture
