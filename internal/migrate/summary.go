package migrate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/twrp2neo/internal/backup"
	"github.com/thoreinstein/twrp2neo/internal/errors"
)

// Format selects how a report is rendered.
type Format string

// Report formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every supported report format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ErrUnknownFormat is returned for a report format outside [Formats].
var ErrUnknownFormat = errors.Mark(errors.New("unknown report format"), errors.ErrInvalidInput)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.WithHintf(errors.Wrapf(ErrUnknownFormat, "%q", s),
		"Use one of: text, json, yaml, toml")
}

// Summary records what one migration run produced.
type Summary struct {
	OutputDir    string          `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	Volumes      []string        `json:"volumes" yaml:"volumes" toml:"volumes"`
	Users        []int           `json:"users" yaml:"users" toml:"users"`
	BackupTime   string          `json:"backup_time" yaml:"backup_time" toml:"backup_time"`
	ApkLocations int             `json:"apk_locations" yaml:"apk_locations" toml:"apk_locations"`
	ApksStaged   int             `json:"apks_staged" yaml:"apks_staged" toml:"apks_staged"`
	DataArchives int             `json:"data_archives" yaml:"data_archives" toml:"data_archives"`
	Packages     []backup.Result `json:"packages" yaml:"packages" toml:"packages"`
	Elapsed      string          `json:"elapsed,omitempty" yaml:"elapsed,omitempty" toml:"elapsed,omitempty"`
}

// Assembled counts the packages that became backups.
func (s *Summary) Assembled() int {
	n := 0
	for _, p := range s.Packages {
		if !p.Dropped {
			n++
		}
	}
	return n
}

// Dropped counts the package directories left without a backup.
func (s *Summary) Dropped() int {
	return len(s.Packages) - s.Assembled()
}

// Write renders the summary to w.
func (s *Summary) Write(w io.Writer, f Format) error {
	if f == FormatText {
		return s.writeText(w)
	}
	return encode(w, f, s)
}

// Write renders the scan report to w.
func (r *ScanReport) Write(w io.Writer, f Format) error {
	if f == FormatText {
		return r.writeText(w)
	}
	return encode(w, f, r)
}

func encode(w io.Writer, f Format, v any) error {
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		err = enc.Encode(v)
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", string(f))
	}
	if err != nil {
		return errors.Wrapf(err, "encoding %s report", f)
	}
	return nil
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	muted   = color.New(color.FgHiBlack)
	warning = color.New(color.FgYellow)
)

func (s *Summary) writeText(w io.Writer) error {
	heading.Fprintln(w, "Migration complete")
	fmt.Fprintf(w, "  volumes:       %d\n", len(s.Volumes))
	fmt.Fprintf(w, "  users:         %s\n", joinInts(s.Users))
	fmt.Fprintf(w, "  backup time:   %s\n", s.BackupTime)
	fmt.Fprintf(w, "  apks staged:   %d from %d locations\n", s.ApksStaged, s.ApkLocations)
	fmt.Fprintf(w, "  data archives: %d\n", s.DataArchives)
	fmt.Fprintf(w, "  backups:       %d assembled, %d dropped\n", s.Assembled(), s.Dropped())
	if s.Elapsed != "" {
		fmt.Fprintf(w, "  elapsed:       %s\n", s.Elapsed)
	}

	if len(s.Packages) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  USER\tPACKAGE\tAPK\tDATA\tPROTECTED")
		for _, p := range s.Packages {
			name := good.Sprint(p.Package)
			if p.Dropped {
				name = muted.Sprint(p.Package + " (dropped)")
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", p.User, name,
				mark(p.HasApk), mark(p.HasAppData), mark(p.HasDevicesProtectedData))
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "writing report")
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Copy %s/<user> to your device and restore with Neo Backup.\n", s.OutputDir)
	warning.Fprintln(w, "Restore only the apps you need: the backup may hold system apps and data that do not fit your device.")
	return nil
}

func (r *ScanReport) writeText(w io.Writer) error {
	heading.Fprintf(w, "%d volume(s)\n", len(r.Volumes))
	for _, v := range r.Volumes {
		fmt.Fprintf(w, "  %s\n", v)
	}

	fmt.Fprintln(w)
	heading.Fprintf(w, "%d apk location(s)\n", len(r.Apks))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, a := range r.Apks {
		fmt.Fprintf(tw, "  %s\t%s\n", good.Sprint(a.Package), muted.Sprint(a.Dir))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing report")
	}

	for _, u := range r.Users {
		fmt.Fprintln(w)
		heading.Fprintf(w, "user %d\n", u.ID)
		fmt.Fprintf(w, "  data:      %d package(s)\n", len(u.Data))
		for _, p := range u.Data {
			fmt.Fprintf(w, "    %s\n", p)
		}
		fmt.Fprintf(w, "  protected: %d package(s)\n", len(u.Protected))
		for _, p := range u.Protected {
			fmt.Fprintf(w, "    %s\n", p)
		}
	}
	return nil
}

func mark(b bool) string {
	if b {
		return good.Sprint("yes")
	}
	return muted.Sprint("-")
}

func joinInts(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
