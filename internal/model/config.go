package model

// ----------------------------------------------------
// ================ Environment config ================

// LogConfig holds configuration for the logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/donna.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// LLMConfig holds credentials for the OpenAI-compatible endpoint
type LLMConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	BaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
}

// GoogleConfig holds the service-account credentials and target ids for the
// Calendar and Drive capabilities. CredentialsJSON is the raw service-account
// document; it is decoded as JSON, never executed.
type GoogleConfig struct {
	CredentialsJSON string `envconfig:"GOOGLE_CALENDAR_CREDENTIALS" required:"true"`
	CalendarID      string `envconfig:"GOOGLE_CALENDAR_ID" required:"true"`
	SharedFolderID  string `envconfig:"SHARED_FOLDER_ID"`
}

// WhatsAppConfig holds the Graph API transport settings
type WhatsAppConfig struct {
	AccessToken   string `envconfig:"ACCESS_TOKEN" required:"true"`
	PhoneNumberID string `envconfig:"PHONE_NUMBER_ID" required:"true"`
	VerifyToken   string `envconfig:"VERIFY_TOKEN" required:"true"`
	AppSecret     string `envconfig:"APP_SECRET"`
	APIVersion    string `envconfig:"WHATSAPP_API_VERSION" default:"v18.0"`
}

// RedisConfig holds the conversation store connection
type RedisConfig struct {
	URL string `envconfig:"REDIS_URL" required:"true"`
}

// PoolConfig holds the meet-link pool backing file
type PoolConfig struct {
	FilePath string `envconfig:"MEET_LINKS_FILE" default:"meet_links.txt"`
}

// ServerConfig holds the webhook listener settings
type ServerConfig struct {
	Port int `envconfig:"PORT" default:"8000"`
}

// ----------------------------------------------------
// ================ File config (config.yaml) ================

// ModelConfig selects the chat model and its sampling defaults
type ModelConfig struct {
	Name        string  `yaml:"name"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// BotConfig is the non-secret behavior surface loaded from config.yaml:
// persona, timezone, upload folder taxonomy and conversation windowing.
type BotConfig struct {
	Model                  ModelConfig       `yaml:"model"`
	Persona                string            `yaml:"persona"`
	Timezone               string            `yaml:"timezone"`
	MaxContextTurns        int               `yaml:"max_context_turns"`
	ConversationTTLSeconds int               `yaml:"conversation_ttl_seconds"`
	Folders                map[string]string `yaml:"folders"`
}
