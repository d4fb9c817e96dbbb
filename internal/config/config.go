package config

import (
	"github.com/curioswitch/go-curiostack/config"
)

// Recipes is the configuration for recipe storage.
type Recipes struct {
	// Collection is the Firestore collection holding recipe documents.
	Collection string `koanf:"collection"`

	// Bucket is the public storage bucket for generated imagery. Empty
	// disables uploads.
	Bucket string `koanf:"bucket"`

	// BaseLanguage is the canonical language produced by extraction, from
	// which other languages are translated.
	BaseLanguage string `koanf:"baselanguage"`
}

// Models is the configuration for the generative backends.
type Models struct {
	// Extract is the multimodal model used for video extraction.
	Extract string `koanf:"extract"`

	// Translate is the model used for recipe translation.
	Translate string `koanf:"translate"`

	// TranslateProvider selects the translation backend, "genai" or
	// "openai".
	TranslateProvider string `koanf:"translateprovider"`

	// Illustrate is the image model used for step and hero imagery.
	Illustrate string `koanf:"illustrate"`
}

// Download is the configuration for video downloads.
type Download struct {
	// Dir is the directory for temporary video files.
	Dir string `koanf:"dir"`
}

// Extract is the configuration for the content extractor.
type Extract struct {
	// PollIntervalSeconds is the sleep between video readiness polls.
	PollIntervalSeconds int `koanf:"pollintervalseconds"`
}

// Illustrate is the configuration for the illustration generator.
type Illustrate struct {
	// Attempts is the maximum number of attempts per image.
	Attempts int `koanf:"attempts"`

	// BaseDelaySeconds is the base of the linear retry backoff.
	BaseDelaySeconds int `koanf:"basedelayseconds"`

	// ContextWindow is the maximum number of previously generated images
	// attached to a generation call for visual consistency.
	ContextWindow int `koanf:"contextwindow"`
}

// Authorization is the configuration for the optional route guard.
type Authorization struct {
	// EmailsCSV is the comma-separated list of emails allowed access.
	// Empty disables the guard.
	EmailsCSV string `koanf:"emailscsv"`
}

// Pipeline is the configuration for the task queue.
type Pipeline struct {
	// Workers is the number of tasks run concurrently.
	Workers int `koanf:"workers"`

	// QueueDepth is the maximum number of pending and running tasks.
	QueueDepth int `koanf:"queuedepth"`

	// TaskDeadlineMinutes bounds the run time of one task. Zero disables
	// the deadline.
	TaskDeadlineMinutes int `koanf:"taskdeadlineminutes"`
}

type Config struct {
	config.Common

	// Recipes is the configuration for recipe storage.
	Recipes Recipes `koanf:"recipes"`

	// Models is the configuration for the generative backends.
	Models Models `koanf:"models"`

	// Download is the configuration for video downloads.
	Download Download `koanf:"download"`

	// Extract is the configuration for the content extractor.
	Extract Extract `koanf:"extract"`

	// Illustrate is the configuration for the illustration generator.
	Illustrate Illustrate `koanf:"illustrate"`

	// Pipeline is the configuration for the task queue.
	Pipeline Pipeline `koanf:"pipeline"`

	// Authorization is the configuration for the optional route guard.
	Authorization Authorization `koanf:"authorization"`
}
