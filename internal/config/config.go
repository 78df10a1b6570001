package config

type Config struct {
	Debug  bool   `yaml:"debug" json:"debug"`
	Listen string `yaml:"listen" json:"listen"`

	// DataRoot is where entry documents live; empty disables durable storage
	DataRoot string `yaml:"dataRoot" json:"dataRoot"`

	TeacherPass    string `yaml:"teacherPass" json:"teacherPass"`
	SessionSignKey string `yaml:"sessionSignKey" json:"sessionSignKey"`
}

func (cfg *Config) Valid() bool {
	return cfg.Listen != ""
}

func (cfg *Config) ApplyDefaults() {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}

	if cfg.TeacherPass == "" {
		cfg.TeacherPass = "Arkvic"
	}

	if cfg.SessionSignKey == "" {
		cfg.SessionSignKey = "change-me-please"
	}
}
