package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Service.Name != "mastery-service" {
		t.Errorf("Service.Name = %s", cfg.Service.Name)
	}
	if cfg.Service.Port != "8085" {
		t.Errorf("Service.Port = %s", cfg.Service.Port)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Mongo.URI = %s", cfg.Mongo.URI)
	}
	if cfg.Rabbit.Exchange != "learning.events" {
		t.Errorf("Rabbit.Exchange = %s", cfg.Rabbit.Exchange)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MONGO_DB", "mastery_test")

	cfg := Load()
	if cfg.Service.Port != "9999" {
		t.Errorf("Service.Port = %s, want 9999", cfg.Service.Port)
	}
	if cfg.Mongo.Database != "mastery_test" {
		t.Errorf("Mongo.Database = %s, want mastery_test", cfg.Mongo.Database)
	}
}
