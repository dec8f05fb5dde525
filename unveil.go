// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build !openbsd

package fileserver

// unveil and unveilBlock are pure OS-primitive shims: OpenBSD's
// unveil(2) has no equivalent on any other kernel, so every platform
// but OpenBSD gets a nop pair and HardenProcess (harden.go) is a no-op
// everywhere else too.

// unveil registers a path that shall remain accessible.
//
// Is a nop on this operating system.
func unveil(path, perm string) error {
	return nil
}

// unveilBlock removes access to any remaining paths from this process.
//
// Call this last, after any invocations of unveil.
//
// Is a nop on this operating system.
func unveilBlock() error {
	return nil
}
