package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"database.db"`
	CatalogFile  string `env:"CATALOG_FILE" envDefault:"products_backup.json"`

	Admin       Admin `envPrefix:"ADMIN_"`
	Shipping    Shipping
	MercadoPago MercadoPago `envPrefix:"MP_"`
}

type MercadoPago struct {
	AccessToken         string `env:"ACCESS_TOKEN"`
	PublicKey           string `env:"PUBLIC_KEY"`
	BaseApiURL          string `env:"BASE_API_URL" envDefault:"https://api.mercadopago.com"`
	StatementDescriptor string `env:"STATEMENT_DESCRIPTOR" envDefault:"CARLLY ROMMANEL"`
	BinaryMode          bool   `env:"BINARY_MODE" envDefault:"true"`
	AutoReturn          string `env:"AUTO_RETURN" envDefault:"approved"`
	WebhookPath         string `env:"WEBHOOK_PATH" envDefault:"/webhook/mercadopago"`
}

// Shipping controls the flat fee and the free-shipping threshold.
// A threshold of zero or below disables free shipping entirely.
type Shipping struct {
	DefaultFee    float64 `env:"DEFAULT_SHIPPING_FEE" envDefault:"5.0"`
	FreeThreshold float64 `env:"FREE_SHIPPING_THRESHOLD" envDefault:"150.0"`
}

type Admin struct {
	Email string `env:"EMAIL" envDefault:"admin@carllyrommanel.com"`
	// SHA-256 hex digest of the admin password. Admin login is refused while unset.
	PasswordHash string `env:"PASSWORD_HASH"`
	// Optional static API token accepted alongside database-issued tokens.
	APIToken string `env:"API_TOKEN"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
