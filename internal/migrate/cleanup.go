package migrate

import "github.com/thoreinstein/twrp2neo/internal/errors"

// Cleanup removes the decoded-archive and APK staging directories. Absent
// directories are not an error.
func (m *Migrator) Cleanup() error {
	for _, dir := range []string{m.tarStaging(), m.apkStaging()} {
		if !m.store.Exists(dir) {
			continue
		}
		if err := m.store.RemoveAll(dir); err != nil {
			return errors.Wrap(err, "cleaning up staging")
		}
		m.logger.Debug("staging removed", "dir", dir)
	}
	return nil
}
