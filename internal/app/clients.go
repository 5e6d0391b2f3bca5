package app

import (
	"fmt"

	"github.com/yungbote/chekinn-backend/internal/clients/openai"
	"github.com/yungbote/chekinn-backend/internal/clients/redis"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type Clients struct {
	OpenAI   openai.Client
	IntroBus redis.IntroBus
}

func wireClients(cfg Config, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	oc, err := openai.NewClient(cfg.OpenAI, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	bus, err := redis.NewIntroBus(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis intro bus: %w", err)
	}
	return Clients{OpenAI: oc, IntroBus: bus}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.IntroBus != nil {
		_ = c.IntroBus.Close()
	}
}
