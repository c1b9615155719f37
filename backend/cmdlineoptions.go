package backend

import "flag"

var (
	FlagVersion  = flag.Bool("version", false, "print app version and exit")
	FlagHelp     = flag.Bool("help", false, "print command line options and exit")
	FlagMusicDir = flag.String("music-dir", "", "set the music library directory and rescan it")
)
