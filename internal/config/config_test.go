package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads; viper ignores empty values
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "BACKEND_URL", "BACKEND_API", "SIMULATION_INTERVAL", "CORS_ORIGIN",
		"ENVIRONMENT", "API_VERSION", "LOG_LEVEL",
		"PERIMETER_SERVER_PORT", "PERIMETER_SIMULATOR_BACKEND_URL", "PERIMETER_SIMULATOR_INTERVAL_MS",
		"PERIMETER_SECURITY_ALLOWED_ORIGINS", "PERIMETER_APP_ENVIRONMENT", "PERIMETER_APP_VERSION",
		"PERIMETER_LOGGING_LEVEL", "PERIMETER_SIMULATOR_AUTO_START", "PERIMETER_ANALYTICS_TIMEZONE",
		"PERIMETER_APP_DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_BackendDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(ServiceBackend)
	require.NoError(t, err)

	require.Equal(t, "5000", cfg.Server.Port)
	require.Equal(t, "0.0.0.0:5000", cfg.GetServerAddr())
	require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Security.AllowedOrigins)
	require.Equal(t, "info", cfg.Logging.Level)
	require.True(t, cfg.Store.SeedSampleEvents)
	require.Equal(t, "perimeter-backend", cfg.App.Name)
	require.Equal(t, "development", cfg.App.Environment)
	require.False(t, cfg.Simulator.AutoStart)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

func TestLoad_SimulatorDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(ServiceSimulator)
	require.NoError(t, err)

	require.Equal(t, "5001", cfg.Server.Port)
	require.Equal(t, "http://localhost:5000/api/v1", cfg.Simulator.BackendURL)
	require.Equal(t, 10*time.Second, cfg.Interval())
	require.Equal(t, 5*time.Second, cfg.Simulator.DeliveryTimeout)
	require.InDelta(t, 0.01, cfg.Simulator.Jitter, 1e-9)
	require.Equal(t, "perimeter-simulator", cfg.App.Name)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8088")
	t.Setenv("BACKEND_URL", "http://backend:9000/api/v1")
	t.Setenv("SIMULATION_INTERVAL", "3000")
	t.Setenv("CORS_ORIGIN", "https://radeae.example,http://localhost:3000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(ServiceSimulator)
	require.NoError(t, err)

	require.Equal(t, "8088", cfg.Server.Port)
	require.Equal(t, "http://backend:9000/api/v1", cfg.Simulator.BackendURL)
	require.Equal(t, 3*time.Second, cfg.Interval())
	require.Equal(t, []string{"https://radeae.example", "http://localhost:3000"}, cfg.Security.AllowedOrigins)
	require.True(t, cfg.IsProduction())
	require.True(t, cfg.Simulator.AutoStart)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_AutoStartOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PERIMETER_SIMULATOR_AUTO_START", "false")

	cfg, err := Load(ServiceSimulator)
	require.NoError(t, err)
	require.False(t, cfg.Simulator.AutoStart)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "environment", env: map[string]string{"ENVIRONMENT": "moon"}},
		{name: "log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "interval", env: map[string]string{"SIMULATION_INTERVAL": "0"}},
		{name: "backend url", env: map[string]string{"BACKEND_URL": "not a url"}},
		{name: "timezone", env: map[string]string{"PERIMETER_ANALYTICS_TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(ServiceSimulator)
			require.Error(t, err)
		})
	}
}

func TestLoad_UnknownService(t *testing.T) {
	_, err := Load("frontend")
	require.Error(t, err)
}

func TestDebugEnabled(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(ServiceBackend)
	require.NoError(t, err)
	require.True(t, cfg.IsDevelopment())
	require.True(t, cfg.IsDebugEnabled())

	t.Setenv("ENVIRONMENT", "production")
	cfg, err = Load(ServiceBackend)
	require.NoError(t, err)
	require.False(t, cfg.IsDevelopment())
	require.False(t, cfg.IsDebugEnabled())

	t.Setenv("PERIMETER_APP_DEBUG", "true")
	cfg, err = Load(ServiceBackend)
	require.NoError(t, err)
	require.True(t, cfg.App.Debug)
	require.True(t, cfg.IsDebugEnabled())
}
