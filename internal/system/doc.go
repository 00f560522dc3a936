// SPDX-License-Identifier: MPL-2.0

// Package system provides the capability surface rustle uses to inspect and
// mutate the host: probing the distribution, driving the package manager,
// and swapping well-known binary paths for symlinks with byte-for-byte
// reversible backups.
//
// All host access goes through the Worker interface. The real implementation
// is System; tests substitute the recording double in the systemtest
// subpackage so the experiment engine can be exercised without touching the
// machine.
//
// # Backups
//
// Before a regular file is replaced with a symlink it is copied to a
// dot-prefixed sibling carrying the BackupSuffix extension
// (/usr/bin/date -> /usr/bin/.date.rustle.bak). The backup location is a
// pure function of the target path, so no state file is needed to find it
// again: restoring renames the sibling back over the target. File modes are
// re-applied to the backup explicitly because a plain copy does not carry
// setuid, setgid, or sticky bits.
package system
