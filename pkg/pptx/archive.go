package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
)

// archive is a PPTX package opened for editing: the original zip plus an
// overlay of replaced or added parts. Saving writes the overlay first and
// streams every untouched part through unchanged.
type archive struct {
	reader *zip.Reader
	files  map[string][]byte
}

func openArchive(data []byte) (*archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pptx package: %w", err)
	}
	return &archive{reader: zr, files: make(map[string][]byte)}, nil
}

// get returns a part's current bytes, overlay first.
func (a *archive) get(name string) ([]byte, error) {
	if data, ok := a.files[name]; ok {
		return data, nil
	}
	rc, err := a.reader.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", name, err)
	}
	return data, nil
}

// set stages new bytes for a part.
func (a *archive) set(name string, data []byte) {
	a.files[name] = data
}

// has reports whether the part exists in the package or the overlay.
func (a *archive) has(name string) bool {
	if _, ok := a.files[name]; ok {
		return true
	}
	for _, f := range a.reader.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// names lists every part, original and added, sorted.
func (a *archive) names() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range a.reader.File {
		seen[f.Name] = true
		out = append(out, f.Name)
	}
	for name := range a.files {
		if !seen[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// save writes the package to w.
func (a *archive) save(w io.Writer) error {
	zw := zip.NewWriter(w)
	written := map[string]bool{}

	for _, f := range a.reader.File {
		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if data, ok := a.files[f.Name]; ok {
			if _, err := fw.Write(data); err != nil {
				return fmt.Errorf("write part %s: %w", f.Name, err)
			}
		} else {
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open part %s: %w", f.Name, err)
			}
			_, err = io.Copy(fw, rc)
			rc.Close()
			if err != nil {
				return fmt.Errorf("copy part %s: %w", f.Name, err)
			}
		}
		written[f.Name] = true
	}

	for name, data := range a.files {
		if written[name] {
			continue
		}
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write part %s: %w", name, err)
		}
	}

	return zw.Close()
}
