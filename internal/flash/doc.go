// Package flash implements the chunked upload protocol that moves a
// firmware image into the target's external flash.
//
// The debug channel gives no integrity guarantee, so the protocol verifies
// every chunk itself: slice the image, stage the chunk as a file, restore
// it into a RAM relay buffer on the target, invoke a target-side routine
// that copies RAM to flash and returns a checksum, then compare that
// checksum against the host's. Any mismatch aborts the upload immediately;
// there is no retry and no rollback of chunks already flashed.
//
// Chunks are transferred strictly in order. The session handle and the
// staging workspace are exclusive resources, so there is nothing to gain
// from pipelining without restructuring the serial command channel.
package flash
