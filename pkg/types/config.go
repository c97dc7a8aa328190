package types

import "time"

// MarginProfile names a preset set of page margins.
type MarginProfile string

const (
	// MarginsWide is 0.75in top/bottom and 1in left/right.
	MarginsWide MarginProfile = "wide"
	// MarginsNarrow is 0.5in top/bottom and 0.75in left/right.
	MarginsNarrow MarginProfile = "narrow"
)

// NameMode selects how an item name is laid out in a card.
type NameMode string

const (
	// NameSingle writes the whole name as one paragraph.
	NameSingle NameMode = "single"
	// NamePerWord upper-cases the name and writes one paragraph per word.
	NamePerWord NameMode = "per-word"
)

// DividerStyle selects how two cards on the same page are separated.
type DividerStyle string

const (
	// DividerRule is a paragraph holding a line of box-drawing characters.
	DividerRule DividerStyle = "rule"
	// DividerBlank is a paragraph with a line break followed by an empty paragraph.
	DividerBlank DividerStyle = "blank"
)

// DefaultCadence is the number of cards per page.
const DefaultCadence = 2

// MarginOverrides replaces individual sides of the margin profile. Values
// are in inches; zero keeps the profile value.
type MarginOverrides struct {
	Top    float64 `json:"top,omitempty" yaml:"top,omitempty" mapstructure:"top"`
	Right  float64 `json:"right,omitempty" yaml:"right,omitempty" mapstructure:"right"`
	Bottom float64 `json:"bottom,omitempty" yaml:"bottom,omitempty" mapstructure:"bottom"`
	Left   float64 `json:"left,omitempty" yaml:"left,omitempty" mapstructure:"left"`
}

// RenderConfig holds the document-level settings of one assembly.
type RenderConfig struct {
	// MarginProfile selects the page margins: wide (default) or narrow.
	MarginProfile MarginProfile `json:"margin_profile" yaml:"margin_profile" mapstructure:"margin_profile"`

	// Margins overrides individual sides of the profile.
	Margins MarginOverrides `json:"margins" yaml:"margins" mapstructure:"margins"`

	// TitlePage adds a title block and a page break before the first card.
	TitlePage bool `json:"title_page" yaml:"title_page" mapstructure:"title_page"`

	// Title is the title block heading (default "Food Items Catalog").
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Subtitle is the line under the heading (default "Complete Item Information").
	Subtitle string `json:"subtitle" yaml:"subtitle" mapstructure:"subtitle"`

	// NameMode selects single or per-word name layout.
	NameMode NameMode `json:"name_mode" yaml:"name_mode" mapstructure:"name_mode"`

	// Cadence is the number of cards per page (default 2).
	Cadence int `json:"cadence" yaml:"cadence" mapstructure:"cadence"`

	// Divider selects the separator between cards on the same page.
	Divider DividerStyle `json:"divider" yaml:"divider" mapstructure:"divider"`
}

// DefaultRenderConfig returns the settings of the web service: wide
// margins, a title page, single-paragraph names and rule dividers.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		MarginProfile: MarginsWide,
		TitlePage:     true,
		Title:         "Food Items Catalog",
		Subtitle:      "Complete Item Information",
		NameMode:      NameSingle,
		Cadence:       DefaultCadence,
		Divider:       DividerRule,
	}
}

// Brand is the fixed text of every card's header block.
type Brand struct {
	// Icon is the glyph on the first header line.
	Icon string `json:"icon" yaml:"icon" mapstructure:"icon"`

	// Name is the brand name line.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Subtitle is the line under the brand name.
	Subtitle string `json:"subtitle" yaml:"subtitle" mapstructure:"subtitle"`

	// Rating is the glyph repeated on the rating line.
	Rating string `json:"rating" yaml:"rating" mapstructure:"rating"`

	// RatingCount is how many times Rating is repeated.
	RatingCount int `json:"rating_count" yaml:"rating_count" mapstructure:"rating_count"`

	// URL is the last header line.
	URL string `json:"url" yaml:"url" mapstructure:"url"`
}

// DefaultBrand returns the built-in header block text.
func DefaultBrand() Brand {
	return Brand{
		Icon:        "🏨",
		Name:        "NARAYANI HEIGHTS",
		Subtitle:    "HOTEL AND RESORT",
		Rating:      "⭐",
		RatingCount: 4,
		URL:         "WWW.NARAYANIHEIGHTS.COM",
	}
}

// ConversionBackend identifies the PDF-to-text tool.
type ConversionBackend string

const (
	BackendNative    ConversionBackend = "native"
	BackendPdftotext ConversionBackend = "pdftotext"
)

// AIMode selects what the AI backend is sent.
type AIMode string

const (
	// AIModeDocument sends the PDF itself as a document block.
	AIModeDocument AIMode = "document"
	// AIModeText sends text produced by a ConversionBackend.
	AIModeText AIMode = "text"
)

// AIConfig holds settings for extracting item names from PDFs with a
// Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout bounds a single API request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Mode selects document or text input (default document).
	Mode AIMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Converter is the PDF-to-text backend used in text mode.
	Converter ConversionBackend `json:"converter" yaml:"converter" mapstructure:"converter"`

	// MaxPages rejects PDFs with more pages (default 100).
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages"`
}

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// StaticDir is served at "/" when it exists.
	StaticDir string `json:"static_dir" yaml:"static_dir" mapstructure:"static_dir"`

	// MaxUploadMB bounds the request body.
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// HistoryConfig holds settings for the job history store.
type HistoryConfig struct {
	// Enabled turns job recording on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// PublishConfig holds the default destination for generated documents.
type PublishConfig struct {
	// Target is a local directory or an s3://bucket/prefix URL. Empty
	// leaves documents where they were written.
	Target string `json:"target" yaml:"target" mapstructure:"target"`

	// Region is the AWS region for S3 targets.
	Region string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name (default "info").
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Pretty writes human-readable console output instead of JSON.
	Pretty bool `json:"pretty" yaml:"pretty" mapstructure:"pretty"`

	// File, when set, also writes logs to a rotating file.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// MaxSizeMB is the rotation size of File (default 10).
	MaxSizeMB int `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int `json:"max_backups,omitempty" yaml:"max_backups,omitempty" mapstructure:"max_backups"`
}

// Config groups every setting the CLI and the server read from the
// config file.
type Config struct {
	Render  RenderConfig  `json:"render" yaml:"render" mapstructure:"render"`
	Brand   Brand         `json:"brand" yaml:"brand" mapstructure:"brand"`
	AI      AIConfig      `json:"ai" yaml:"ai" mapstructure:"ai"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Publish PublishConfig `json:"publish" yaml:"publish" mapstructure:"publish"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`

	// StylesFile is an optional YAML style override file.
	StylesFile string `json:"styles_file,omitempty" yaml:"styles_file,omitempty" mapstructure:"styles_file"`
}
