package storage

import (
	"fmt"

	"github.com/lidosole/lidosole/config"
	"github.com/lidosole/lidosole/pkg/logger"
)

// Manager owns the configured disks and resolves the default one.
type Manager struct {
	disks       map[string]Disk
	defaultDisk string
}

// Connect boots the storage manager: the local disk is always available,
// the S3 disk only when S3_BUCKET is configured.
func Connect() *Manager {
	m := &Manager{
		disks:       map[string]Disk{"local": newLocalDisk()},
		defaultDisk: config.StorageDefault(),
	}

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.disks["s3"] = d
		}
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		logger.Warn("storage: default disk not configured, falling back to local",
			"disk", m.defaultDisk)
		m.defaultDisk = "local"
	}

	return m
}

// Default returns the disk selected by STORAGE_DISK.
func (m *Manager) Default() Disk {
	return m.disks[m.defaultDisk]
}

// Use returns the named disk ("local" or "s3").
func (m *Manager) Use(name string) (Disk, error) {
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Register plugs in a custom Disk implementation (used by tests).
func (m *Manager) Register(name string, d Disk) {
	m.disks[name] = d
}
