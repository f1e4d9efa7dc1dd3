package config

type (
	DriverConfig struct {
		MongoDB MongoDB
		Redis   Redis
		Logger  Logger
		SMTP    SMTP
	}
	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	SMTP struct {
		Host        string
		Port        int
		Username    string
		Password    string
		EmailSender string
	}
)

type (
	InternalConfig struct {
		App       App
		MagicLink MagicLink
		Mailer    Mailer
	}
	App struct {
		Env                      string
		Port                     string
		Version                  string
		EndpointPrefix           string
		Issuer                   string
		MaxRequests              int
		ShutdownTimeoutInSeconds int
	}
	MagicLink struct {
		ResetLifetimeMinutes       int
		EmailChangeLifetimeMinutes int
		NewUserLifetimeMinutes     int
		CookieBindingEnforced      bool
		RequestMaxPerWindow        int
		RequestWindowSeconds       int
	}
	Mailer struct {
		QueueSize               int
		EnqueueTimeoutInSeconds int
		MaxSendsPerSecond       int
		TestMode                bool
	}
)
