package discovery

import (
	"fmt"
	"log"
	"strconv"

	"mastery-service/internal/config"

	"github.com/hashicorp/consul/api"
)

type ServiceRegistry struct {
	client *api.Client
	config *config.Config
}

func NewServiceRegistry(cfg *config.Config) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %v", err)
	}

	return &ServiceRegistry{client: client, config: cfg}, nil
}

func (sr *ServiceRegistry) Register() error {
	httpPort, err := strconv.Atoi(sr.config.Service.Port)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %v", err)
	}

	serviceID := fmt.Sprintf("%s-%s", sr.config.Service.Name, sr.config.Service.Address)

	registration := &api.AgentServiceRegistration{
		ID:      serviceID + "-http",
		Name:    sr.config.Service.Name,
		Port:    httpPort,
		Address: sr.config.Service.Address,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.config.Service.Address, sr.config.Service.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"learning", "adaptive", "http", "api"},
		Meta: map[string]string{
			"protocol": "http",
			"version":  "1.0",
		},
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service with Consul: %v", err)
	}

	log.Printf("Registered %s with Consul at %s:%d",
		sr.config.Service.Name, sr.config.Service.Address, httpPort)
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	serviceID := fmt.Sprintf("%s-%s-http", sr.config.Service.Name, sr.config.Service.Address)
	if err := sr.client.Agent().ServiceDeregister(serviceID); err != nil {
		log.Printf("Error deregistering service: %v", err)
		return err
	}
	log.Printf("Deregistered %s from Consul", sr.config.Service.Name)
	return nil
}
