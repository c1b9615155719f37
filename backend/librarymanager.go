package backend

import (
	"log"

	"github.com/wayfarer-player/wayfarer/backend/library"
	"github.com/wayfarer-player/wayfarer/backend/localdb"
	"github.com/wayfarer-player/wayfarer/backend/scanner"
	"github.com/wayfarer-player/wayfarer/backend/tags"
	"github.com/wayfarer-player/wayfarer/sharedutil"
)

// FolderListing is the displayable result of scanning one folder: the
// flat track-ordered listing and the same songs grouped by album.
type FolderListing struct {
	Songs  []library.Song
	Albums []library.AlbumGroup
}

// LibraryManager loads song listings from the local music library.
type LibraryManager struct {
	db *localdb.DB
}

func NewLibraryManager(db *localdb.DB) *LibraryManager {
	return &LibraryManager{db: db}
}

// LoadFolder scans folder for audio files, reads their tags, and
// returns the sorted flat listing plus the album grouping. Tag reads
// run on the caller's goroutine: call this off the owner context and
// apply the result there.
func (lm *LibraryManager) LoadFolder(folder string) (*FolderListing, error) {
	files, err := scanner.ListAudioFiles(folder)
	if err != nil {
		return nil, err
	}
	songs := sharedutil.MapSlice(files, tags.ReadTags)

	if err := lm.db.CacheSongs(songs); err != nil {
		log.Printf("failed to cache scanned songs: %v", err)
	}
	log.Printf("Loaded %d songs from %s", len(songs), folder)

	return &FolderListing{
		Songs:  library.SortSongs(songs),
		Albums: library.GroupByAlbum(songs),
	}, nil
}

// Folders lists the immediate subdirectories of the music root for
// folder-based browsing.
func (lm *LibraryManager) Folders(root string) ([]scanner.Folder, error) {
	return scanner.ListSubdirectories(root)
}
