package volume

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/flate"
	"github.com/spf13/afero"

	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/pkg/fileutil"
)

// HeaderSize is the gzip member header skipped before inflating. The
// header is never parsed, so a damaged CRC or flag byte is tolerated.
const HeaderSize = 10

// Decoder turns volumes into decoded tar files in a staging directory.
type Decoder struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewDecoder returns a Decoder over fsys. A nil logger means slog.Default().
func NewDecoder(fsys afero.Fs, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{fs: fsys, logger: logger}
}

// StagedName is the file name a volume decodes to inside the staging directory.
func StagedName(volumePath string) string {
	return filepath.Base(volumePath) + ".tar"
}

// Decompress inflates one volume into stagingDir and returns the path of
// the decoded tar. The whole stream is decoded into memory before anything
// is written, so a corrupt volume leaves no partial output.
func (d *Decoder) Decompress(volumePath, stagingDir string) (string, error) {
	f, err := d.fs.Open(volumePath)
	if err != nil {
		return "", errors.Wrapf(err, "opening volume %s", volumePath)
	}
	defer f.Close()

	var header [HeaderSize]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return "", errors.Wrapf(errors.Mark(err, errors.ErrDecode), "reading header of %s", volumePath)
	}

	zr := flate.NewReader(f)
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", errors.Wrapf(errors.Mark(err, errors.ErrDecode), "decoding %s", volumePath)
	}

	if err := d.fs.MkdirAll(stagingDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating staging directory %s", stagingDir)
	}
	out := filepath.Join(stagingDir, StagedName(volumePath))
	if err := fileutil.AtomicWriteFile(d.fs, out, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing decoded %s", out)
	}

	d.logger.Info("volume decoded",
		"volume", filepath.Base(volumePath),
		"size", humanize.Bytes(uint64(len(data))))

	return out, nil
}
