// Package registry provides the per-path lock registry.
//
// A Manager maps canonical file paths to reader-writer locks. Entries are
// created on first use and are never freed while the Manager lives, so a
// path keeps the same lock across deletes and re-creates of its file.
//
// Components:
//   - Manager: bounded find-or-create map, atomic under its own mutex
//   - Handle: a held shared or exclusive lock on one path
//   - Rename: a two-phase re-key that preserves lock identity
//
// Capacity:
//   - Once Capacity distinct paths are tracked, resolving an unseen path
//     fails with ErrResourceExhausted
//   - Already tracked paths keep working
//
// Rename targets are checked against the registry, not the filesystem: a
// target that was ever tracked fails with ErrAlreadyTracked even if no file
// exists there, and an untracked file on disk is overwritten.
//
// Example Usage:
//
//	reg, _ := registry.New(registry.DefaultCapacity)
//	h, err := reg.AcquireExclusive("data.txt")
//	if err != nil {
//		return err
//	}
//	defer h.Release()
package registry
