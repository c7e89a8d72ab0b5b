package extract

import (
	"archive/tar"
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"github.com/thoreinstein/twrp2neo/internal/archive"
	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/internal/logging"
)

// CacheGroupSuffix marks entries owned by an app's cache group. Such
// entries are never repackaged, whatever their path.
const CacheGroupSuffix = "_cache"

// ExtractAppData repackages the data tree of pkg selected by sel into
// <destRoot>/<user>/<pkg>/<sel.OutputName()>. The package directory is
// always created. When the selected tree holds no regular files nothing
// is written and produced is false.
func (e *Extractor) ExtractAppData(src *archive.Source, sel archive.Selector, pkg, destRoot string) (produced bool, err error) {
	destDir := filepath.Join(destRoot, strconv.Itoa(sel.User), pkg)
	if err := e.store.EnsureDir(destDir); err != nil {
		return false, err
	}

	outPath := filepath.Join(destDir, sel.OutputName())
	tarPath := strings.TrimSuffix(outPath, ".gz")

	files, err := e.writeTar(src, sel.DataRoot(pkg), tarPath)
	if err != nil {
		return false, errors.Wrapf(err, "extracting %s for %s", pkg, sel)
	}

	if files == 0 {
		if err := e.store.Remove(tarPath); err != nil {
			return false, err
		}
		e.logger.Debug("no app data", "package", pkg, "selector", sel.String())
		return false, nil
	}

	size, err := e.compress(tarPath, outPath)
	if err != nil {
		return false, errors.Wrapf(err, "compressing %s", tarPath)
	}
	if err := e.store.Remove(tarPath); err != nil {
		return false, err
	}

	e.logger.Info("app data extracted",
		"package", pkg,
		"selector", sel.String(),
		"files", files,
		"size", humanize.Bytes(uint64(size)))
	return true, nil
}

// writeTar copies the entries under root into a new tar at tarPath and
// returns how many regular files it wrote.
func (e *Extractor) writeTar(src *archive.Source, root, tarPath string) (int, error) {
	f, err := e.store.Create(tarPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	tw := tar.NewWriter(f)
	files := 0
	err = src.Walk(func(hdr *tar.Header, r io.Reader) error {
		if strings.HasSuffix(hdr.Gname, CacheGroupSuffix) {
			return nil
		}
		rel, ok := relativize(hdr.Name, root)
		if !ok {
			return nil
		}

		out := rebuildHeader(hdr, rel, root)
		if err := tw.WriteHeader(out); err != nil {
			return errors.Wrapf(err, "writing header for %s", hdr.Name)
		}
		if out.Size > 0 {
			if _, err := io.CopyN(tw, r, out.Size); err != nil {
				return errors.Wrapf(err, "copying %s", hdr.Name)
			}
		}
		if out.Typeflag == tar.TypeReg {
			files++
		}
		e.logger.Log(context.Background(), logging.LevelTrace, "entry copied", "name", out.Name, "size", out.Size)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := tw.Close(); err != nil {
		return 0, errors.Wrap(err, "finishing tar")
	}
	if err := f.Close(); err != nil {
		return 0, errors.Wrapf(err, "closing %s", tarPath)
	}
	return files, nil
}

// relativize maps an archive name under root to "./" for root itself or
// "./<rest>" below it. Matching is per path component, so root
// "/data/data/com.a" does not claim "/data/data/com.ab".
func relativize(name, root string) (string, bool) {
	trimmed := strings.TrimSuffix(name, "/")
	switch {
	case trimmed == root:
		return "./", true
	case strings.HasPrefix(trimmed, root+"/"):
		rel := "./" + strings.TrimPrefix(trimmed, root+"/")
		if strings.HasSuffix(name, "/") {
			rel += "/"
		}
		return rel, true
	default:
		return "", false
	}
}

// rebuildHeader keeps type, size, mode, ownership and mtime of hdr under
// the new name. Everything else TWRP recorded (xattrs, sparse maps,
// access times) is dropped.
func rebuildHeader(hdr *tar.Header, name, root string) *tar.Header {
	out := &tar.Header{
		Typeflag: hdr.Typeflag,
		Name:     name,
		Mode:     hdr.Mode,
		Uid:      hdr.Uid,
		Gid:      hdr.Gid,
		Uname:    hdr.Uname,
		Gname:    hdr.Gname,
		ModTime:  hdr.ModTime.Truncate(time.Second),
		Format:   tar.FormatGNU,
	}
	switch hdr.Typeflag {
	case tar.TypeReg:
		out.Size = hdr.Size
	case tar.TypeSymlink:
		out.Linkname = hdr.Linkname
	case tar.TypeLink:
		out.Linkname = hdr.Linkname
		if rel, ok := relativize(hdr.Linkname, root); ok {
			out.Linkname = rel
		}
	case tar.TypeChar, tar.TypeBlock:
		out.Devmajor = hdr.Devmajor
		out.Devminor = hdr.Devminor
	}
	if out.Typeflag == tar.TypeDir && !strings.HasSuffix(out.Name, "/") {
		out.Name += "/"
	}
	return out
}

// compress gzips tarPath into outPath at the default level and returns
// the compressed size.
func (e *Extractor) compress(tarPath, outPath string) (int64, error) {
	in, err := e.store.Open(tarPath)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := e.store.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		return 0, errors.Wrap(err, "writing gzip stream")
	}
	if err := zw.Close(); err != nil {
		return 0, errors.Wrap(err, "finishing gzip stream")
	}

	info, err := out.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", outPath)
	}
	if err := out.Close(); err != nil {
		return 0, errors.Wrapf(err, "closing %s", outPath)
	}
	return info.Size(), nil
}
