package config

type AppConfig struct {
	Server  ServerConfig
	Metrics MetricsConfig
	Log     LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	metricsCfg, err := LoadMetrics()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:  serverCfg,
		Metrics: metricsCfg,
		Log:     logCfg,
	}, nil
}
