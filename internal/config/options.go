package config

// Default input file names of the upstream export.
const (
	DefaultFactFile     = "Boxoffice_Fact.csv"
	DefaultDirectorFile = "Director_dim.csv"
	DefaultGenreFile    = "Genere_dim.csv"
	DefaultLanguageFile = "Language_dim.csv"
)

// Options is the CLI options bag. Flags populate it once at startup; it is
// read-only afterwards.
type Options struct {
	// Input selection.
	InputDir     string
	FactFile     string
	DirectorFile string
	GenreFile    string
	LanguageFile string
	// HTMLSelector picks the <table> element when an input file is HTML.
	HTMLSelector string
	// DateLayout overrides the schema date layout when the export deviates
	// from ISO dates.
	DateLayout string

	// Analysis parameters.
	Metric   string
	N        int
	By       string
	Industry string

	// Export targets.
	Export    bool
	OutputDir string
	DBKind    string
	DBDSN     string

	// Observability.
	MetricsBackend string
	PushgatewayURL string
	Verbose        bool
}

// Defaults returns the options the CLI starts from before flag parsing.
func Defaults() Options {
	return Options{
		InputDir:     ".",
		FactFile:     DefaultFactFile,
		DirectorFile: DefaultDirectorFile,
		GenreFile:    DefaultGenreFile,
		LanguageFile: DefaultLanguageFile,

		Metric:   "worldwide",
		N:        10,
		By:       "year",
		Industry: "Bollywood",

		OutputDir: "output",

		MetricsBackend: "none",
		PushgatewayURL: "http://localhost:9091",
	}
}

// Schemas returns the four table schemas with the configured date layout
// applied.
func (o Options) Schemas() (fact, director, genre, language Schema) {
	fact = FactSchema()
	director = DirectorSchema()
	genre = GenreSchema()
	language = LanguageSchema()
	if o.DateLayout != "" {
		fact.DateLayout = o.DateLayout
	}
	return fact, director, genre, language
}
