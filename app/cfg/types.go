package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	DigestsDir   string
	Port         string
	APIAccessKey string

	// Publishing target
	SinkURL   string
	SinkToken string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
