// Package scanner locates audio files beneath the music directory and
// watches it for changes.
package scanner

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// audioExtensions is the set of file types the player can be asked to
// open. Matching is case-insensitive.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".wav":  {},
	".ogg":  {},
	".m4a":  {},
	".aac":  {},
	".wma":  {},
	".alac": {},
	".ape":  {},
	".opus": {},
}

// IsAudioFile reports whether path has a recognized audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ListAudioFiles walks root recursively and returns the paths of every
// audio file found. Subdirectories that cannot be read are logged and
// skipped; one unreadable folder does not abort the scan.
func ListAudioFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Folder is a subdirectory of the music root, for folder-based
// library browsing.
type Folder struct {
	Name string
	Path string
}

// ListSubdirectories returns the immediate subdirectories of root,
// sorted by name.
func ListSubdirectories(root string) ([]Folder, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var folders []Folder
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, Folder{Name: e.Name(), Path: filepath.Join(root, e.Name())})
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})
	return folders, nil
}
