package config

// MongoConfig holds the document store connection
type MongoConfig struct {
	URI        string `env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	Database   string `env:"MONGODB_DATABASE" env-default:"account_db"`
	Collection string `env:"MONGODB_COLLECTION" env-default:"accounts"`
}

func (m MongoConfig) Validate() ValidationErrors {
	return CollectErrors(
		RequireValidURL("MONGODB_URI", m.URI),
		RequireNonEmpty("MONGODB_DATABASE", m.Database),
		RequireNonEmpty("MONGODB_COLLECTION", m.Collection),
	)
}
