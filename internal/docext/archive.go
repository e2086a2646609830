package docext

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/syllabus-tools/syllabus-audit/constants"
)

// ExpandArchive unpacks a ZIP of syllabi into destDir and returns the paths
// of members with supported extensions, in archive order. Members with other
// extensions are skipped, not extracted. Archive directories are flattened;
// members whose basenames collide get a numeric suffix instead of overwriting
// an earlier member.
func ExpandArchive(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dest dir: %w", err)
	}

	var paths []string
	taken := make(map[string]struct{})
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(f.Name))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			continue
		}

		dest := filepath.Join(destDir, uniqueName(filepath.Base(f.Name), taken))
		// Zip-slip guard: the joined path must stay inside destDir.
		if !strings.HasPrefix(filepath.Clean(dest), filepath.Clean(destDir)+string(os.PathSeparator)) {
			continue
		}

		if err := writeMember(f, dest); err != nil {
			return paths, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		taken[filepath.Base(dest)] = struct{}{}
		paths = append(paths, dest)
	}
	return paths, nil
}

// uniqueName returns base unchanged when free, otherwise stem-N.ext for the
// first N that is.
func uniqueName(base string, taken map[string]struct{}) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

func writeMember(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
