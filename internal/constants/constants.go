// Package constants defines application-wide constants and default values.
package constants

const (
	AppName    = "cinescope"
	AppVersion = "1.0.0"

	// Default configuration values
	DefaultHost     = "127.0.0.1"
	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	DefaultLanguage  = "en-US"
	DefaultRegion    = "US"
	DefaultImageBase = "https://image.tmdb.org/t/p"

	// Color cache settings
	DefaultColorCacheSize = 100
	ColorRedisTTL         = 7 * 24 // hours

	// Rate limiting
	TMDBRateLimit = 20 // requests per second
	TMDBRateBurst = 40 // burst capacity
)

// TMDBMovieGenres contains TMDB genre IDs for movies.
var TMDBMovieGenres = []string{
	"28",    // Action
	"12",    // Adventure
	"16",    // Animation
	"35",    // Comedy
	"80",    // Crime
	"99",    // Documentary
	"18",    // Drama
	"10751", // Family
	"14",    // Fantasy
	"36",    // History
	"27",    // Horror
	"10402", // Music
	"9648",  // Mystery
	"10749", // Romance
	"878",   // Science Fiction
	"10770", // TV Movie
	"53",    // Thriller
	"10752", // War
	"37",    // Western
}

// TMDBTVGenres contains TMDB genre IDs for TV series.
var TMDBTVGenres = []string{
	"10759", // Action & Adventure
	"16",    // Animation
	"35",    // Comedy
	"80",    // Crime
	"99",    // Documentary
	"18",    // Drama
	"10751", // Family
	"10762", // Kids
	"9648",  // Mystery
	"10763", // News
	"10764", // Reality
	"10765", // Sci-Fi & Fantasy
	"10766", // Soap
	"10767", // Talk
	"10768", // War & Politics
	"37",    // Western
}

// IsKnownGenre reports whether id is a stock TMDB genre for mediaType
// ("movie" or "tv").
func IsKnownGenre(mediaType, id string) bool {
	genres := TMDBMovieGenres
	if mediaType == "tv" {
		genres = TMDBTVGenres
	}
	for _, g := range genres {
		if g == id {
			return true
		}
	}
	return false
}
