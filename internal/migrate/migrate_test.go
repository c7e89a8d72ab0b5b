package migrate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/twrp2neo/internal/backup"
	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/internal/logging"
	"github.com/thoreinstein/twrp2neo/internal/testutil"
)

var backupTime = time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)

func writeVolumes(t *testing.T, fsys afero.Fs, tars ...[]byte) string {
	t.Helper()
	names := []string{"data.ext4.win000", "data.ext4.win001", "data.ext4.win002"}
	for i, data := range tars {
		mtime := backupTime.Add(time.Duration(i) * time.Minute)
		testutil.WriteFile(t, fsys, "/backup/"+names[i], testutil.Volume(t, data), mtime)
	}
	testutil.WriteFile(t, fsys, "/backup/data.ext4.win000.sha2", []byte("digest"), time.Time{})
	return "/backup/" + names[0]
}

func newMigrator(t *testing.T, fsys afero.Fs, opts ...Option) *Migrator {
	t.Helper()
	opts = append([]Option{WithOutputDir("/out"), WithLogger(logging.ForTest(t))}, opts...)
	return New(fsys, opts...)
}

func TestRun_EndToEnd(t *testing.T) {
	fsys := afero.NewMemMapFs()
	apkDir := "/data/app/~~r1==/com.example.app-abc==/"
	first := writeVolumes(t, fsys, testutil.Tar(t,
		testutil.Dir("/data/user/10/"),
		testutil.File(apkDir+"base.apk", "BASE"),
		testutil.Dir("/data/user/10/com.example.app/"),
		testutil.File("/data/user/10/com.example.app/files/settings.json", "{}"),
	))

	sum, err := newMigrator(t, fsys).Run(first)
	require.NoError(t, err)

	assert.Equal(t, []int{10}, sum.Users)
	assert.Equal(t, 1, sum.ApkLocations)
	assert.Equal(t, 1, sum.ApksStaged)
	assert.Equal(t, 1, sum.DataArchives)
	require.Len(t, sum.Packages, 1)

	dated := backup.DatedName(backupTime, 10)
	pkgDir := "/out/10/com.example.app/"
	for _, name := range []string{"base.apk", "data.tar.gz"} {
		ok, err := afero.Exists(fsys, pkgDir+dated+"/"+name)
		require.NoError(t, err)
		assert.True(t, ok, "%s missing from %s", name, dated)
	}

	data, err := afero.ReadFile(fsys, pkgDir+dated+".properties")
	require.NoError(t, err)
	var props backup.Properties
	require.NoError(t, json.Unmarshal(data, &props))
	assert.True(t, props.HasApk)
	assert.True(t, props.HasAppData)
	assert.False(t, props.HasDevicesProtectedData)
	assert.Equal(t, backup.BackupDate(backupTime), props.BackupDate)

	for _, dir := range []string{"/out/decompressed_temp", "/out/apk_temp"} {
		ok, err := afero.Exists(fsys, dir)
		require.NoError(t, err)
		assert.False(t, ok, "%s should be cleaned up", dir)
	}
}

func TestRun_MultipleVolumesShareFirstTimestamp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	first := writeVolumes(t, fsys,
		testutil.Tar(t,
			testutil.Dir("/data/user/0/"),
			testutil.File("/data/data/com.a/files/x", "a"),
		),
		testutil.Tar(t,
			testutil.Dir("/data/user/11/"),
			testutil.File("/data/user/11/com.b/files/y", "b"),
			testutil.File("/data/user_de/0/com.a/files/z", "z"),
		),
	)

	sum, err := newMigrator(t, fsys).Run(first)
	require.NoError(t, err)
	assert.Len(t, sum.Volumes, 2)
	assert.Equal(t, []int{0, 11}, sum.Users)
	require.Len(t, sum.Packages, 2)

	assert.Equal(t, backup.DatedName(backupTime, 0), sum.Packages[0].Dated)
	assert.Equal(t, backup.DatedName(backupTime, 11), sum.Packages[1].Dated)
	assert.True(t, sum.Packages[0].HasAppData)
	assert.True(t, sum.Packages[0].HasDevicesProtectedData)
}

func TestRun_KeepStaging(t *testing.T) {
	fsys := afero.NewMemMapFs()
	first := writeVolumes(t, fsys, testutil.Tar(t,
		testutil.File("/data/app/~~r==/com.x-1/base.apk", "PK"),
	))

	_, err := newMigrator(t, fsys, WithKeepStaging(true), WithStagingDirs("tars", "apks")).Run(first)
	require.NoError(t, err)

	ok, err := afero.Exists(fsys, "/out/tars/data.ext4.win000.tar")
	require.NoError(t, err)
	assert.True(t, ok)

	// No package directory exists for com.x, so its apk stays staged.
	ok, err = afero.Exists(fsys, "/out/apks/com.x/base.apk")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_InvalidInput(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.WriteFile(t, fsys, "/backup/data.ext4.win001", []byte("x"), time.Time{})

	_, err := newMigrator(t, fsys).Run("/backup/data.ext4.win001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestRun_CorruptVolume(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.WriteFile(t, fsys, "/backup/data.ext4.win000", []byte("0123456789not deflate at all"), time.Time{})

	_, err := newMigrator(t, fsys).Run("/backup/data.ext4.win000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDecode))

	ok, err := afero.Exists(fsys, "/out/decompressed_temp/data.ext4.win000.tar")
	require.NoError(t, err)
	assert.False(t, ok, "no partial output")
}

func TestCleanup_Absent(t *testing.T) {
	m := newMigrator(t, afero.NewMemMapFs())
	assert.NoError(t, m.Cleanup())
}

func TestScan(t *testing.T) {
	fsys := afero.NewMemMapFs()
	first := writeVolumes(t, fsys,
		testutil.Tar(t,
			testutil.File("/data/app/~~r==/com.a-1/base.apk", "PK"),
			testutil.File("/data/data/com.a/files/x", "a"),
			testutil.Dir("/data/user/0/"),
		),
		testutil.Tar(t,
			testutil.File("/data/data/com.b/files/x", "b"),
			testutil.File("/data/user_de/0/com.a/files/x", "a"),
		),
	)

	report, err := newMigrator(t, fsys).Scan(first)
	require.NoError(t, err)

	assert.Len(t, report.Volumes, 2)
	require.Len(t, report.Apks, 1)
	assert.Equal(t, "com.a", report.Apks[0].Package)
	require.Len(t, report.Users, 1)
	assert.Equal(t, UserReport{ID: 0, Data: []string{"com.a", "com.b"}, Protected: []string{"com.a"}}, report.Users[0])

	ok, err := afero.Exists(fsys, "/out/decompressed_temp")
	require.NoError(t, err)
	assert.False(t, ok, "scan must remove staging")

	ok, err = afero.Exists(fsys, "/out/0")
	require.NoError(t, err)
	assert.False(t, ok, "scan must not extract")
}
