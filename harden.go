// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

// HardenProcess restricts the process to cfg's PublicRoot and
// UploadRoot via unveil (unveil.go/unveil_openbsd.go) before the
// bootstrap starts accepting connections. It is a nop on every
// operating system but OpenBSD.
func HardenProcess(cfg *ServerConfig) error {
	if err := unveil(cfg.PublicRoot, "rwc"); err != nil {
		return err
	}
	if cfg.EnableUpload && cfg.UploadRoot != cfg.PublicRoot {
		if err := unveil(cfg.UploadRoot, "rwc"); err != nil {
			return err
		}
	}
	return unveilBlock()
}
